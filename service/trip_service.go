package service

import (
	"context"
	"time"

	"mobibot/config"
	"mobibot/pkg/geo"
	"mobibot/pkg/logger"
	"mobibot/pkg/models"
	"mobibot/pkg/observe"
	"mobibot/storage"
)

type TripService interface {
	CreateTrip(ctx context.Context, input models.TripInput) (string, error)
	GetByID(ctx context.Context, id string) (*models.Trip, error)
	SetDropoff(ctx context.Context, tripID string, point models.Point, radiusMeters int) error
	CloseTrip(ctx context.Context, tripID string) error
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

type tripService struct {
	stg storage.ITripStorage
	cfg config.Config
	rec *observe.Recorder
	log logger.ILogger
}

func NewTripService(stg storage.IStorage, cfg config.Config, rec *observe.Recorder, log logger.ILogger) TripService {
	return &tripService{
		stg: stg.Trip(),
		cfg: cfg,
		rec: rec,
		log: log,
	}
}

// CreateTrip validates coordinates, clamps the search radius into the
// configured band, and records the creation event.
func (s *tripService) CreateTrip(ctx context.Context, input models.TripInput) (string, error) {
	if err := input.Pickup.Validate(); err != nil {
		return "", err
	}

	input.RadiusMeters = int(geo.ClampRadius(
		float64(input.RadiusMeters),
		float64(s.cfg.DefaultRadiusMeters),
		float64(s.cfg.MaxRadiusMeters),
	))

	id, err := s.stg.Create(ctx, input)
	if err != nil {
		return "", err
	}

	s.rec.TripCreatedEvent(id, string(input.Role), string(input.VehicleType), input.RadiusMeters)
	return id, nil
}

func (s *tripService) GetByID(ctx context.Context, id string) (*models.Trip, error) {
	return s.stg.GetByID(ctx, id)
}

func (s *tripService) SetDropoff(ctx context.Context, tripID string, point models.Point, radiusMeters int) error {
	radius := int(geo.ClampRadius(
		float64(radiusMeters),
		float64(s.cfg.DefaultRadiusMeters),
		float64(s.cfg.MaxRadiusMeters),
	))
	return s.stg.SetDropoff(ctx, tripID, point, radius)
}

func (s *tripService) CloseTrip(ctx context.Context, tripID string) error {
	return s.stg.Close(ctx, tripID)
}

func (s *tripService) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	return s.stg.ExpireStale(ctx, now)
}
