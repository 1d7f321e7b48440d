package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"mobibot/pkg/logger"
	"mobibot/pkg/models"
	"mobibot/storage"
)

type recurringRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewRecurringRepo(db *pgxpool.Pool, log logger.ILogger) storage.IRecurringStorage {
	return &recurringRepo{db: db, log: log}
}

func (r *recurringRepo) Create(ctx context.Context, trip *models.RecurringTrip) (string, error) {
	id := uuid.NewString()
	query := `
		INSERT INTO recurring_trips (id, user_id, origin_favorite_id, dest_favorite_id,
			days_of_week, time_local, timezone, recurrence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		id,
		trip.UserID,
		trip.OriginFavoriteID,
		trip.DestFavoriteID,
		trip.DaysOfWeek,
		trip.TimeLocal,
		trip.Timezone,
		trip.Recurrence,
		time.Now(),
	)
	if err != nil {
		r.log.Error("failed to create recurring trip", logger.String("user_id", trip.UserID), logger.Error(err))
		return "", fmt.Errorf("failed to create recurring trip: %w", err)
	}
	return id, nil
}

func (r *recurringRepo) ListByUser(ctx context.Context, userID string) ([]*models.RecurringTrip, error) {
	query := `
		SELECT id, user_id, origin_favorite_id, dest_favorite_id,
		       days_of_week, time_local, timezone, recurrence, created_at
		FROM recurring_trips
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("failed to list recurring trips", logger.String("user_id", userID), logger.Error(err))
		return nil, fmt.Errorf("failed to list recurring trips: %w", err)
	}
	defer rows.Close()

	var trips []*models.RecurringTrip
	for rows.Next() {
		var t models.RecurringTrip
		if err := rows.Scan(&t.ID, &t.UserID, &t.OriginFavoriteID, &t.DestFavoriteID,
			&t.DaysOfWeek, &t.TimeLocal, &t.Timezone, &t.Recurrence, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recurring trip: %w", err)
		}
		trips = append(trips, &t)
	}
	return trips, rows.Err()
}
