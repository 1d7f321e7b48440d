package main

import (
	"context"
	"fmt"

	"mobibot/config"
	"mobibot/pkg/logger"
	"mobibot/storage/postgres"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName)
	pg, err := postgres.New(context.Background(), cfg, log)
	if err != nil {
		panic(err)
	}
	defer pg.Close()

	// Profiles stay; everything referencing them goes.
	_, err = pg.GetPool().Exec(context.Background(),
		"TRUNCATE TABLE trips, favorites, recurring_trips, trip_notifications CASCADE")
	if err != nil {
		log.Error(fmt.Sprintf("failed to truncate tables: %v", err))
	} else {
		log.Info("truncated trips, favorites, recurring_trips, trip_notifications")
	}
}
