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

type locationCache struct {
	client    *goredis.Client
	log       logger.ILogger
	locTTL    time.Duration
	intentTTL time.Duration
}

func newLocationCache(client *goredis.Client, log logger.ILogger, locTTL, intentTTL time.Duration) storage.ILocationCacheStorage {
	return &locationCache{client: client, log: log, locTTL: locTTL, intentTTL: intentTTL}
}

func locationKey(userID string) string {
	return "loc:" + userID
}

func intentKey(userID string, mode models.NearbyMode) string {
	return "intent:" + string(mode) + ":" + userID
}

func (c *locationCache) GetLocation(ctx context.Context, userID string) (*models.CachedLocation, error) {
	raw, err := c.client.Get(ctx, locationKey(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to read cached location", logger.String("user_id", userID), logger.Error(err))
		return nil, fmt.Errorf("failed to read cached location: %w", err)
	}

	var loc models.CachedLocation
	if err := json.Unmarshal(raw, &loc); err != nil {
		_ = c.client.Del(ctx, locationKey(userID)).Err()
		return nil, nil
	}
	return &loc, nil
}

func (c *locationCache) SaveLocation(ctx context.Context, userID string, point models.Point, at time.Time) error {
	if err := point.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(models.CachedLocation{UserID: userID, Location: point, CachedAt: at})
	if err != nil {
		return fmt.Errorf("failed to marshal cached location: %w", err)
	}
	if err := c.client.Set(ctx, locationKey(userID), raw, c.locTTL).Err(); err != nil {
		c.log.Error("failed to cache location", logger.String("user_id", userID), logger.Error(err))
		return fmt.Errorf("failed to cache location: %w", err)
	}
	return nil
}

func (c *locationCache) GetRecentIntent(ctx context.Context, userID string, mode models.NearbyMode) (*models.NearbyIntent, error) {
	raw, err := c.client.Get(ctx, intentKey(userID, mode)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to read recent intent", logger.String("user_id", userID), logger.Error(err))
		return nil, fmt.Errorf("failed to read recent intent: %w", err)
	}

	var intent models.NearbyIntent
	if err := json.Unmarshal(raw, &intent); err != nil {
		_ = c.client.Del(ctx, intentKey(userID, mode)).Err()
		return nil, nil
	}
	return &intent, nil
}

func (c *locationCache) SaveRecentIntent(ctx context.Context, userID string, mode models.NearbyMode, intent models.NearbyIntent) error {
	raw, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("failed to marshal recent intent: %w", err)
	}
	if err := c.client.Set(ctx, intentKey(userID, mode), raw, c.intentTTL).Err(); err != nil {
		c.log.Error("failed to save recent intent", logger.String("user_id", userID), logger.Error(err))
		return fmt.Errorf("failed to save recent intent: %w", err)
	}
	return nil
}
