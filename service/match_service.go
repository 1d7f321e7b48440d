package service

import (
	"context"
	"errors"
	"fmt"

	"mobibot/config"
	"mobibot/pkg/logger"
	"mobibot/pkg/models"
	"mobibot/pkg/observe"
	"mobibot/storage"
)

// ErrQueryFailed marks a match-engine failure. Callers must branch on it:
// a failed query gets an apologetic retry message, never the "no matches
// found" empty state.
var ErrQueryFailed = errors.New("match query failed")

type MatchService interface {
	// FindForTrip runs the match query anchored on the given trip, looking
	// for counterparts of the opposite role. The returned slice is ranked
	// nearest-first and capped at the configured maximum.
	FindForTrip(ctx context.Context, flow string, trip *models.Trip) ([]models.MatchResult, error)
}

type matchService struct {
	stg storage.IMatchStorage
	cfg config.Config
	rec *observe.Recorder
	log logger.ILogger
}

func NewMatchService(stg storage.IStorage, cfg config.Config, rec *observe.Recorder, log logger.ILogger) MatchService {
	return &matchService{
		stg: stg.Match(),
		cfg: cfg,
		rec: rec,
		log: log,
	}
}

func (s *matchService) FindForTrip(ctx context.Context, flow string, trip *models.Trip) ([]models.MatchResult, error) {
	q := storage.MatchQuery{
		TripID:        trip.ID,
		Limit:         s.cfg.MaxResults,
		PreferDropoff: trip.Dropoff != nil,
		RadiusMeters:  trip.PickupRadiusMeters,
		WindowDays:    s.cfg.MatchWindowDays,
	}

	counterRole := trip.Role.Opposite()
	s.rec.MatchesCalledEvent(flow, string(counterRole), string(trip.VehicleType), trip.ID, q.RadiusMeters)

	var (
		results []models.MatchResult
		err     error
	)
	switch counterRole {
	case models.RoleDriver:
		results, err = s.stg.MatchDriversForTrip(ctx, q)
	default:
		results, err = s.stg.MatchPassengersForTrip(ctx, q)
	}
	if err != nil {
		s.rec.MatchesErrorEvent(flow, "query", string(trip.Role), string(trip.VehicleType),
			trip.CreatorUserID, err)
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}

	s.rec.MatchesResultEvent(flow, trip.ID, len(results))
	return results, nil
}
