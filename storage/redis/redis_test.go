package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mobibot/pkg/logger"
	"mobibot/pkg/models"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestStateStoreRoundTrip(t *testing.T) {
	_, client := setupMiniredis(t)
	store := newStateStore(client, logger.New("test"), time.Hour)
	ctx := context.Background()

	// No state yet: nil, no error.
	state, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, state)

	pickup := models.Point{Lat: -1.9441, Lng: 30.0619}
	in := models.ConversationState{
		Step: models.StepNearbyResults,
		Nearby: &models.NearbyState{
			Mode:    models.ModeDrivers,
			Vehicle: models.VehicleMoto,
			Pickup:  &pickup,
			TripID:  "trip-1",
			Rows: []models.StateRow{
				{ID: "MTCH::trip-9", TripID: "trip-9", Contact: "+250788000001", Ref: "RD-AAA"},
			},
		},
	}
	require.NoError(t, store.Set(ctx, "u1", in))

	out, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, models.StepNearbyResults, out.Step)
	require.NotNil(t, out.Nearby)
	assert.Equal(t, models.ModeDrivers, out.Nearby.Mode)
	require.NotNil(t, out.Nearby.Pickup)
	assert.InDelta(t, pickup.Lat, out.Nearby.Pickup.Lat, 1e-9)
	require.Len(t, out.Nearby.Rows, 1)
	assert.Equal(t, "+250788000001", out.Nearby.Rows[0].Contact)
	assert.Nil(t, out.Schedule, "only the active flow payload is set")

	require.NoError(t, store.Clear(ctx, "u1"))
	out, err = store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestStateStoreDropsCorruptEntry(t *testing.T) {
	mr, client := setupMiniredis(t)
	store := newStateStore(client, logger.New("test"), time.Hour)
	ctx := context.Background()

	require.NoError(t, mr.Set("state:u1", "{not json"))

	state, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, state)
	assert.False(t, mr.Exists("state:u1"), "corrupt entry should be deleted")
}

func TestLocationCacheExpiry(t *testing.T) {
	mr, client := setupMiniredis(t)
	cache := newLocationCache(client, logger.New("test"), 30*time.Minute, time.Hour)
	ctx := context.Background()

	point := models.Point{Lat: -1.9441, Lng: 30.0619}
	require.NoError(t, cache.SaveLocation(ctx, "u1", point, time.Now()))

	loc, err := cache.GetLocation(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.InDelta(t, point.Lng, loc.Location.Lng, 1e-9)

	mr.FastForward(31 * time.Minute)
	loc, err = cache.GetLocation(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestRecentIntentPerMode(t *testing.T) {
	_, client := setupMiniredis(t)
	cache := newLocationCache(client, logger.New("test"), 30*time.Minute, time.Hour)
	ctx := context.Background()

	intent := models.NearbyIntent{
		Vehicle:   models.VehicleCab,
		Pickup:    models.Point{Lat: -1.95, Lng: 30.06},
		CreatedAt: time.Now(),
	}
	require.NoError(t, cache.SaveRecentIntent(ctx, "u1", models.ModeDrivers, intent))

	got, err := cache.GetRecentIntent(ctx, "u1", models.ModeDrivers)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.VehicleCab, got.Vehicle)

	// The other mode keeps its own slot.
	other, err := cache.GetRecentIntent(ctx, "u1", models.ModePassengers)
	require.NoError(t, err)
	assert.Nil(t, other)
}
