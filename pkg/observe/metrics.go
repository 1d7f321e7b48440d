package observe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchesCalled = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mobibot", Name: "matches_called_total", Help: "Match queries issued"},
		[]string{"flow"},
	)
	MatchesReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mobibot",
			Name:      "matches_returned",
			Help:      "Match results per query",
			Buckets:   []float64{0, 1, 2, 3, 5, 9},
		},
		[]string{"flow"},
	)
	MatchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mobibot", Name: "match_errors_total", Help: "Match query failures"},
		[]string{"flow", "stage"},
	)
	MatchesSelected = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "mobibot", Name: "matches_selected_total", Help: "Match rows selected by users"},
	)
	TripsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mobibot", Name: "trips_created_total", Help: "Trips persisted"},
		[]string{"role", "vehicle"},
	)
)
