package service

import (
	"mobibot/config"
	"mobibot/pkg/logger"
	"mobibot/pkg/observe"
	"mobibot/storage"
)

type IServiceManager interface {
	Trip() TripService
	Match() MatchService
}

type service struct {
	tripService  TripService
	matchService MatchService
}

func New(stg storage.IStorage, cfg config.Config, rec *observe.Recorder, log logger.ILogger) IServiceManager {
	return &service{
		tripService:  NewTripService(stg, cfg, rec, log),
		matchService: NewMatchService(stg, cfg, rec, log),
	}
}

func (s *service) Trip() TripService {
	return s.tripService
}

func (s *service) Match() MatchService {
	return s.matchService
}
