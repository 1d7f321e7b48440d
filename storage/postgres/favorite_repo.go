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

type favoriteRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewFavoriteRepo(db *pgxpool.Pool, log logger.ILogger) storage.IFavoriteStorage {
	return &favoriteRepo{db: db, log: log}
}

func (r *favoriteRepo) List(ctx context.Context, userID string) ([]*models.Favorite, error) {
	query := `
		SELECT id, user_id, kind, label, address, lat, lng, created_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("failed to list favorites", logger.String("user_id", userID), logger.Error(err))
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var favorites []*models.Favorite
	for rows.Next() {
		var f models.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.Kind, &f.Label, &f.Address,
			&f.Location.Lat, &f.Location.Lng, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, &f)
	}
	return favorites, rows.Err()
}

func (r *favoriteRepo) GetByID(ctx context.Context, userID, favoriteID string) (*models.Favorite, error) {
	var f models.Favorite
	query := `
		SELECT id, user_id, kind, label, address, lat, lng, created_at
		FROM favorites
		WHERE id = $1 AND user_id = $2
	`
	err := r.db.QueryRow(ctx, query, favoriteID, userID).Scan(
		&f.ID, &f.UserID, &f.Kind, &f.Label, &f.Address,
		&f.Location.Lat, &f.Location.Lng, &f.CreatedAt,
	)
	if err != nil {
		r.log.Error("failed to get favorite", logger.String("favorite_id", favoriteID), logger.Error(err))
		return nil, fmt.Errorf("failed to get favorite: %w", err)
	}
	return &f, nil
}

// Save upserts for the named kinds (home, work, school): re-saving replaces
// the stored location. Kind "other" always inserts a new row.
func (r *favoriteRepo) Save(ctx context.Context, userID string, kind models.FavoriteKind, label string, point models.Point) (*models.Favorite, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}

	f := &models.Favorite{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Label:     label,
		Location:  point,
		CreatedAt: time.Now(),
	}

	var query string
	if kind == models.FavoriteOther {
		query = `
			INSERT INTO favorites (id, user_id, kind, label, lat, lng, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at
		`
	} else {
		query = `
			INSERT INTO favorites (id, user_id, kind, label, lat, lng, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (user_id, kind) WHERE kind <> 'other'
			DO UPDATE SET label = EXCLUDED.label, lat = EXCLUDED.lat, lng = EXCLUDED.lng
			RETURNING id, created_at
		`
	}

	err := r.db.QueryRow(ctx, query,
		f.ID, f.UserID, f.Kind, f.Label, f.Location.Lat, f.Location.Lng, f.CreatedAt,
	).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		r.log.Error("failed to save favorite",
			logger.String("user_id", userID),
			logger.String("kind", string(kind)),
			logger.Error(err))
		return nil, fmt.Errorf("failed to save favorite: %w", err)
	}
	return f, nil
}
