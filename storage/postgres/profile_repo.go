package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"mobibot/pkg/logger"
	"mobibot/pkg/models"
	"mobibot/storage"
)

type profileRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewProfileRepo(db *pgxpool.Pool, log logger.ILogger) storage.IProfileStorage {
	return &profileRepo{db: db, log: log}
}

// GetOrCreate resolves a WhatsApp number to a profile, provisioning one on
// first contact. The ref code is the short public handle shown in match rows
// instead of the raw number.
func (r *profileRepo) GetOrCreate(ctx context.Context, whatsapp string) (*models.Profile, error) {
	now := time.Now()
	p := models.Profile{
		UserID:    uuid.NewString(),
		WhatsApp:  whatsapp,
		RefCode:   newRefCode(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
		INSERT INTO profiles (user_id, whatsapp, ref_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (whatsapp) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING user_id, whatsapp, ref_code, vehicle_type, vehicle_plate, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, p.UserID, p.WhatsApp, p.RefCode, p.CreatedAt, p.UpdatedAt).Scan(
		&p.UserID, &p.WhatsApp, &p.RefCode, &p.VehicleType, &p.VehiclePlate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		r.log.Error("failed to get or create profile", logger.Error(err))
		return nil, fmt.Errorf("failed to get or create profile: %w", err)
	}
	return &p, nil
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	query := `
		SELECT user_id, whatsapp, ref_code, vehicle_type, vehicle_plate, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.WhatsApp, &p.RefCode, &p.VehicleType, &p.VehiclePlate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		r.log.Error("failed to get profile", logger.String("user_id", userID), logger.Error(err))
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

func (r *profileRepo) GetVehicleType(ctx context.Context, userID string) (*string, error) {
	var vt *string
	err := r.db.QueryRow(ctx, `SELECT vehicle_type FROM profiles WHERE user_id = $1`, userID).Scan(&vt)
	if err != nil {
		r.log.Error("failed to get vehicle type", logger.String("user_id", userID), logger.Error(err))
		return nil, fmt.Errorf("failed to get vehicle type: %w", err)
	}
	return vt, nil
}

func (r *profileRepo) SetVehicleType(ctx context.Context, userID, vehicleType string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE profiles SET vehicle_type = $1, updated_at = now() WHERE user_id = $2`,
		vehicleType, userID,
	)
	if err != nil {
		r.log.Error("failed to set vehicle type", logger.String("user_id", userID), logger.Error(err))
		return fmt.Errorf("failed to set vehicle type: %w", err)
	}
	return nil
}

func (r *profileRepo) GetVehiclePlate(ctx context.Context, userID string) (*string, error) {
	var plate *string
	err := r.db.QueryRow(ctx, `SELECT vehicle_plate FROM profiles WHERE user_id = $1`, userID).Scan(&plate)
	if err != nil {
		r.log.Error("failed to get vehicle plate", logger.String("user_id", userID), logger.Error(err))
		return nil, fmt.Errorf("failed to get vehicle plate: %w", err)
	}
	return plate, nil
}

func (r *profileRepo) SetVehiclePlate(ctx context.Context, userID, plate string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE profiles SET vehicle_plate = $1, updated_at = now() WHERE user_id = $2`,
		strings.ToUpper(strings.TrimSpace(plate)), userID,
	)
	if err != nil {
		r.log.Error("failed to set vehicle plate", logger.String("user_id", userID), logger.Error(err))
		return fmt.Errorf("failed to set vehicle plate: %w", err)
	}
	return nil
}

func newRefCode() string {
	return "RD-" + strings.ToUpper(uuid.NewString()[:6])
}
