package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"mobibot/pkg/logger"
	"mobibot/pkg/models"
	"mobibot/storage"
)

type stateStore struct {
	client *goredis.Client
	log    logger.ILogger
	ttl    time.Duration
}

func newStateStore(client *goredis.Client, log logger.ILogger, ttl time.Duration) storage.IStateStorage {
	return &stateStore{client: client, log: log, ttl: ttl}
}

func stateKey(userID string) string {
	return "state:" + userID
}

// Get returns nil without error when the user has no active state.
func (s *stateStore) Get(ctx context.Context, userID string) (*models.ConversationState, error) {
	raw, err := s.client.Get(ctx, stateKey(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		s.log.Error("failed to read conversation state", logger.String("user_id", userID), logger.Error(err))
		return nil, fmt.Errorf("failed to read conversation state: %w", err)
	}

	var state models.ConversationState
	if err := json.Unmarshal(raw, &state); err != nil {
		// A corrupt entry is treated as no state; the user falls back to
		// the main menu instead of being stuck.
		s.log.Warning("dropping corrupt conversation state", logger.String("user_id", userID), logger.Error(err))
		_ = s.client.Del(ctx, stateKey(userID)).Err()
		return nil, nil
	}
	return &state, nil
}

func (s *stateStore) Set(ctx context.Context, userID string, state models.ConversationState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation state: %w", err)
	}
	if err := s.client.Set(ctx, stateKey(userID), raw, s.ttl).Err(); err != nil {
		s.log.Error("failed to write conversation state", logger.String("user_id", userID), logger.Error(err))
		return fmt.Errorf("failed to write conversation state: %w", err)
	}
	return nil
}

func (s *stateStore) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, stateKey(userID)).Err(); err != nil {
		s.log.Error("failed to clear conversation state", logger.String("user_id", userID), logger.Error(err))
		return fmt.Errorf("failed to clear conversation state: %w", err)
	}
	return nil
}
