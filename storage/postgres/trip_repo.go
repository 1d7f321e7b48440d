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

// Trip lifetimes: immediate intents expire in minutes, scheduled trips keep
// standing value for days. Both are adjustable per deployment through the
// repo options.
type TripTTL struct {
	Nearby    time.Duration
	Scheduled time.Duration
}

type tripRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
	ttl TripTTL
}

func NewTripRepo(db *pgxpool.Pool, log logger.ILogger) storage.ITripStorage {
	return &tripRepo{
		db:  db,
		log: log,
		ttl: TripTTL{Nearby: 90 * time.Minute, Scheduled: 7 * 24 * time.Hour},
	}
}

func NewTripRepoWithTTL(db *pgxpool.Pool, log logger.ILogger, ttl TripTTL) storage.ITripStorage {
	return &tripRepo{db: db, log: log, ttl: ttl}
}

func (r *tripRepo) Create(ctx context.Context, input models.TripInput) (string, error) {
	// Invalid coordinates are a hard precondition failure, never silently
	// defaulted to (0,0).
	if err := input.Pickup.Validate(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	now := time.Now()

	status := models.TripOpen
	expiresAt := now.Add(r.ttl.Nearby)
	if input.ScheduledAt != nil {
		status = models.TripScheduled
		expiresAt = now.Add(r.ttl.Scheduled)
	}

	recurrence := input.Recurrence
	if recurrence == "" {
		recurrence = models.RecurNone
	}

	query := `
		INSERT INTO trips (id, creator_user_id, role, vehicle_type, pickup_lat, pickup_lng,
			pickup_text, pickup_radius_m, status, scheduled_at, recurrence, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.Exec(ctx, query,
		id,
		input.CreatorUserID,
		input.Role,
		input.VehicleType,
		input.Pickup.Lat,
		input.Pickup.Lng,
		input.PickupText,
		input.RadiusMeters,
		status,
		input.ScheduledAt,
		recurrence,
		now,
		expiresAt,
	)
	if err != nil {
		r.log.Error("failed to create trip", logger.String("role", string(input.Role)), logger.Error(err))
		return "", fmt.Errorf("failed to create trip: %w", err)
	}

	return id, nil
}

func (r *tripRepo) GetByID(ctx context.Context, id string) (*models.Trip, error) {
	var trip models.Trip
	var dropLat, dropLng *float64
	query := `
		SELECT id, creator_user_id, role, vehicle_type, pickup_lat, pickup_lng, pickup_text,
		       pickup_radius_m, dropoff_lat, dropoff_lng, dropoff_text, dropoff_radius_m,
		       status, scheduled_at, recurrence, created_at, expires_at
		FROM trips
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&trip.ID,
		&trip.CreatorUserID,
		&trip.Role,
		&trip.VehicleType,
		&trip.Pickup.Lat,
		&trip.Pickup.Lng,
		&trip.PickupText,
		&trip.PickupRadiusMeters,
		&dropLat,
		&dropLng,
		&trip.DropoffText,
		&trip.DropoffRadiusMeters,
		&trip.Status,
		&trip.ScheduledAt,
		&trip.Recurrence,
		&trip.CreatedAt,
		&trip.ExpiresAt,
	)
	if err != nil {
		r.log.Error("failed to get trip by id", logger.String("id", id), logger.Error(err))
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	if dropLat != nil && dropLng != nil {
		trip.Dropoff = &models.Point{Lat: *dropLat, Lng: *dropLng}
	}
	return &trip, nil
}

// SetDropoff is idempotent: repeating the call simply overwrites the
// previous dropoff.
func (r *tripRepo) SetDropoff(ctx context.Context, tripID string, point models.Point, radiusMeters int) error {
	if err := point.Validate(); err != nil {
		return err
	}

	res, err := r.db.Exec(ctx,
		`UPDATE trips SET dropoff_lat = $1, dropoff_lng = $2, dropoff_radius_m = $3 WHERE id = $4`,
		point.Lat, point.Lng, radiusMeters, tripID,
	)
	if err != nil {
		r.log.Error("failed to set trip dropoff", logger.String("trip_id", tripID), logger.Error(err))
		return fmt.Errorf("failed to set dropoff: %w", err)
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("trip %s not found", tripID)
	}
	return nil
}

func (r *tripRepo) Close(ctx context.Context, tripID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE trips SET status = 'closed' WHERE id = $1 AND status IN ('open', 'scheduled')`,
		tripID,
	)
	if err != nil {
		r.log.Error("failed to close trip", logger.String("trip_id", tripID), logger.Error(err))
		return fmt.Errorf("failed to close trip: %w", err)
	}
	return nil
}

// ExpireStale is the background sweep; query-time filters already exclude
// expired trips, this keeps the table tidy.
func (r *tripRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.Exec(ctx,
		`UPDATE trips SET status = 'expired' WHERE status IN ('open', 'scheduled') AND expires_at <= $1`,
		now,
	)
	if err != nil {
		r.log.Error("failed to expire stale trips", logger.Error(err))
		return 0, fmt.Errorf("failed to expire stale trips: %w", err)
	}
	return res.RowsAffected(), nil
}
