package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mobibot/pkg/models"
)

func km(v float64) *float64 { return &v }

func TestSortMatchesByDistance(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	results := []models.MatchResult{
		{TripID: "c", DistanceKm: km(5.2), CreatedAt: base},
		{TripID: "a", DistanceKm: nil, CreatedAt: base.Add(time.Hour)},
		{TripID: "b", DistanceKm: km(0.4), CreatedAt: base},
		{TripID: "d", DistanceKm: km(0.4), CreatedAt: base.Add(30 * time.Minute)},
	}

	SortMatches(results, SortByDistance)

	// Nearest first; equal distances break on recency; missing distance last.
	assert.Equal(t, "d", results[0].TripID)
	assert.Equal(t, "b", results[1].TripID)
	assert.Equal(t, "c", results[2].TripID)
	assert.Equal(t, "a", results[3].TripID)
}

func TestSortMatchesByTime(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	later := base.Add(2 * time.Hour)

	results := []models.MatchResult{
		{TripID: "old", DistanceKm: km(0.1), CreatedAt: base},
		{TripID: "new", DistanceKm: km(9.9), CreatedAt: later},
		{TripID: "tie-far", DistanceKm: km(3.0), CreatedAt: later},
	}

	SortMatches(results, SortByTime)

	assert.Equal(t, "tie-far", results[0].TripID) // same instant, nearer wins
	assert.Equal(t, "new", results[1].TripID)
	assert.Equal(t, "old", results[2].TripID)
}

func TestSortMatchesDeterministic(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	mk := func() []models.MatchResult {
		return []models.MatchResult{
			{TripID: "b", DistanceKm: km(1.0), CreatedAt: base},
			{TripID: "a", DistanceKm: km(1.0), CreatedAt: base},
			{TripID: "c", DistanceKm: km(1.0), CreatedAt: base},
		}
	}

	first := mk()
	SortMatches(first, SortByDistance)
	second := []models.MatchResult{first[2], first[0], first[1]}
	SortMatches(second, SortByDistance)

	for i := range first {
		assert.Equal(t, first[i].TripID, second[i].TripID)
	}
	assert.Equal(t, "a", first[0].TripID)
}

func TestTruncateMatches(t *testing.T) {
	var results []models.MatchResult
	for i := 0; i < 15; i++ {
		results = append(results, models.MatchResult{TripID: string(rune('a' + i))})
	}

	capped := TruncateMatches(results)
	assert.Len(t, capped, maxListRows)

	short := TruncateMatches(results[:3])
	assert.Len(t, short, 3)
}

func TestRenderMatchRows(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	pickup := "Kimironko"
	results := []models.MatchResult{
		{
			TripID:            "trip-1",
			CounterpartUserID: "user-1",
			ContactHandle:     "+250788123456",
			ReferenceCode:     "RD-AB12CD",
			DistanceKm:        km(1.3),
			PickupText:        &pickup,
			CreatedAt:         now.Add(-10 * time.Minute),
		},
		{
			TripID:            "trip-2",
			CounterpartUserID: "user-2",
			ContactHandle:     "+250788987654",
			CreatedAt:         now.Add(-2 * time.Hour),
		},
	}

	rows, stateRows := RenderMatchRows(results, now)
	require.Len(t, rows, 2)
	require.Len(t, stateRows, 2)

	assert.Equal(t, "RD-AB12CD · 1.3 km", rows[0].Title)
	assert.Contains(t, rows[0].Description, "Kimironko")
	assert.Contains(t, rows[0].Description, "10 mins ago")

	// No ref code falls back to the masked handle; the raw number never
	// appears in the visible label.
	assert.Equal(t, "***7654", rows[1].Title)
	assert.NotContains(t, rows[1].Title, "250788987654")

	// State rows keep the full handle for the later handoff.
	assert.Equal(t, "+250788123456", stateRows[0].Contact)
	assert.Equal(t, "trip-1", stateRows[0].TripID)
}
