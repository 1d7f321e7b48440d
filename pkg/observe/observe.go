package observe

import (
	"mobibot/pkg/logger"
)

// Recorder emits the structured events the flow controllers report. A failing
// sink must never break the user-facing flow, so every method is fire-and-
// forget and the alert hook is best-effort.
type Recorder struct {
	log   logger.ILogger
	alert func(event string, fields []logger.Field)
}

func NewRecorder(log logger.ILogger) *Recorder {
	return &Recorder{log: log}
}

// WithAlert installs a best-effort alert hook, invoked on match-query
// failures in addition to the structured log line.
func (r *Recorder) WithAlert(alert func(event string, fields []logger.Field)) *Recorder {
	r.alert = alert
	return r
}

func (r *Recorder) MatchesCalledEvent(flow, mode, vehicle, tripID string, radiusMeters int) {
	MatchesCalled.WithLabelValues(flow).Inc()
	r.log.Info("matches_called",
		logger.String("flow", flow),
		logger.String("mode", mode),
		logger.String("vehicle", vehicle),
		logger.String("trip_id", tripID),
		logger.Int("radius_m", radiusMeters),
	)
}

func (r *Recorder) MatchesResultEvent(flow, tripID string, count int) {
	MatchesReturned.WithLabelValues(flow).Observe(float64(count))
	r.log.Info("matches_result",
		logger.String("flow", flow),
		logger.String("trip_id", tripID),
		logger.Int("count", count),
	)
}

// MatchesErrorEvent logs a query failure with enough context to reproduce.
// userID is the internal profile id; phone numbers never reach the sink.
func (r *Recorder) MatchesErrorEvent(flow, stage, role, vehicle, userID string, err error) {
	MatchErrors.WithLabelValues(flow, stage).Inc()
	fields := []logger.Field{
		logger.String("flow", flow),
		logger.String("stage", stage),
		logger.String("role", role),
		logger.String("vehicle", vehicle),
		logger.String("user_id", userID),
		logger.Error(err),
	}
	r.log.Error("matches_error", fields...)
	if r.alert != nil {
		func() {
			defer func() { _ = recover() }()
			r.alert("matches_error", fields)
		}()
	}
}

func (r *Recorder) MatchSelectedEvent(flow, tripID, counterpartTripID string) {
	MatchesSelected.Inc()
	r.log.Info("match_selected",
		logger.String("flow", flow),
		logger.String("trip_id", tripID),
		logger.String("counterpart_trip_id", counterpartTripID),
	)
}

func (r *Recorder) TripCreatedEvent(tripID, role, vehicle string, radiusMeters int) {
	TripsCreated.WithLabelValues(role, vehicle).Inc()
	r.log.Info("trip_created",
		logger.String("trip_id", tripID),
		logger.String("role", role),
		logger.String("vehicle", vehicle),
		logger.Int("radius_m", radiusMeters),
	)
}
