package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"mobibot/pkg/logger"
	"mobibot/storage"
)

type notificationRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewNotificationRepo(db *pgxpool.Pool, log logger.ILogger) storage.INotificationStorage {
	return &notificationRepo{db: db, log: log}
}

// CountRecent backs the fan-out rate limit: how many alerts a recipient got
// since the given instant.
func (r *notificationRepo) CountRecent(ctx context.Context, recipientID string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM trip_notifications WHERE recipient_id = $1 AND sent_at > $2`,
		recipientID, since,
	).Scan(&count)
	if err != nil {
		r.log.Error("failed to count notifications", logger.String("recipient_id", recipientID), logger.Error(err))
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

func (r *notificationRepo) Record(ctx context.Context, tripID, recipientID string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO trip_notifications (id, trip_id, recipient_id, sent_at) VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), tripID, recipientID, time.Now(),
	)
	if err != nil {
		r.log.Error("failed to record notification", logger.String("trip_id", tripID), logger.Error(err))
		return fmt.Errorf("failed to record notification: %w", err)
	}
	return nil
}
