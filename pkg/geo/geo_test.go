package geo

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mobibot/pkg/models"
)

func TestHaversineMeters(t *testing.T) {
	kigali := models.Point{Lat: -1.9441, Lng: 30.0619}
	huye := models.Point{Lat: -2.5967, Lng: 29.7394}

	d := HaversineMeters(kigali, huye)
	// Roughly 80 km as the crow flies.
	assert.InDelta(t, 80500, d, 2000)

	assert.Zero(t, HaversineMeters(kigali, kigali))

	// Symmetry.
	assert.InDelta(t, d, HaversineMeters(huye, kigali), 1e-6)
}

func TestClampRadius(t *testing.T) {
	const def, max = 10000.0, 25000.0

	testCases := []struct {
		name      string
		requested float64
		want      float64
	}{
		{"zero falls back to default", 0, def},
		{"negative falls back to default", -5, def},
		{"NaN falls back to default", math.NaN(), def},
		{"Inf falls back to default", math.Inf(1), def},
		{"below floor clamps up", 2000, def},
		{"inside range passes through", 15000, 15000},
		{"above ceiling clamps down", 90000, max},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClampRadius(tc.requested, def, max)
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got, def)
			assert.LessOrEqual(t, got, max)
		})
	}
}

func TestIsCacheValid(t *testing.T) {
	now := time.Now()
	ttl := 30 * time.Minute

	assert.True(t, IsCacheValid(now.Add(-5*time.Minute), ttl, now))
	assert.False(t, IsCacheValid(now.Add(-31*time.Minute), ttl, now))
	assert.False(t, IsCacheValid(time.Time{}, ttl, now))
}

func TestTimeAgo(t *testing.T) {
	now := time.Now()

	assert.Equal(t, "just now", TimeAgo(now.Add(-10*time.Second), now))
	assert.Equal(t, "1 min ago", TimeAgo(now.Add(-90*time.Second), now))
	assert.Equal(t, "5 mins ago", TimeAgo(now.Add(-5*time.Minute), now))
	assert.Equal(t, "2 hours ago", TimeAgo(now.Add(-2*time.Hour), now))
	assert.Equal(t, "3 days ago", TimeAgo(now.Add(-72*time.Hour), now))
	assert.Equal(t, "just now", TimeAgo(time.Time{}, now))
}

func TestDistanceLabel(t *testing.T) {
	km := func(v float64) *float64 { return &v }

	assert.Equal(t, "2.4 km", DistanceLabel(km(2.35)))
	assert.Equal(t, "1.0 km", DistanceLabel(km(1.0)))
	assert.Equal(t, "350 m", DistanceLabel(km(0.35)))
	assert.Equal(t, "", DistanceLabel(nil))
	assert.Equal(t, "", DistanceLabel(km(math.NaN())))
}

func TestZonedDayTime(t *testing.T) {
	loc, err := time.LoadLocation("Africa/Kigali")
	assert.NoError(t, err)

	// 23:30 UTC is already the next day in Kigali (UTC+2).
	now := time.Date(2025, 6, 10, 23, 30, 0, 0, time.UTC)
	date, hhmm := ZonedDayTime(now, 1, "07:30", loc)
	assert.Equal(t, "2025-06-12", date)
	assert.Equal(t, "07:30", hhmm)

	date, _ = ZonedDayTime(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC), 1, "18:00", loc)
	assert.Equal(t, "2025-06-11", date)
}

func TestZonedOffset(t *testing.T) {
	loc, err := time.LoadLocation("Africa/Kigali")
	assert.NoError(t, err)

	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	date, hhmm := ZonedOffset(now, 30*time.Minute, loc)
	assert.Equal(t, "2025-06-10", date)
	assert.Equal(t, "11:30", hhmm)
}
