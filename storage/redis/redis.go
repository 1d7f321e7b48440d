package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"mobibot/config"
	"mobibot/pkg/logger"
	"mobibot/storage"
)

// Store holds the volatile per-user data: conversation state, the last shared
// location, and the most recent nearby search intent. Everything here is
// disposable; losing it only costs the user a re-prompt.
type Store struct {
	client *goredis.Client
	log    logger.ILogger

	state    storage.IStateStorage
	location storage.ILocationCacheStorage
}

func New(ctx context.Context, cfg config.Config, log logger.ILogger) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Store{
		client:   client,
		log:      log,
		state:    newStateStore(client, log, 24*time.Hour),
		location: newLocationCache(client, log, cfg.LocationCacheTTL, 48*time.Hour),
	}, nil
}

func (s *Store) State() storage.IStateStorage {
	return s.state
}

func (s *Store) Location() storage.ILocationCacheStorage {
	return s.location
}

func (s *Store) Close() error {
	return s.client.Close()
}
