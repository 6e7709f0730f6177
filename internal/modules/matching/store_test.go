package matching

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"join/internal/modules/trip"
)

func TestStore_NearbyRoundTrip(t *testing.T) {
	redisAddr := os.Getenv("JOIN_TEST_REDIS_ADDR")
	if redisAddr == "" {
		t.Skip("JOIN_TEST_REDIS_ADDR not set; skipping integration test")
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()
	store := NewStore(rdb)
	ctx := context.Background()

	const date = "2099-01-08"
	t.Cleanup(func() { rdb.Del(ctx, geoKey(date)) })

	near := newTrip("near", "u1", trip.RideOffer, parkview)
	far := newTrip("far", "u2", trip.RideOffer, pretoria)
	near.Date, far.Date = date, date
	require.NoError(t, store.IndexTrip(ctx, near))
	require.NoError(t, store.IndexTrip(ctx, far))
	require.NoError(t, store.IndexTrip(ctx, trip.Record{ID: "no-origin", Date: date}))

	hits, err := store.Nearby(ctx, date, rosebank, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "near", hits[0].TripID.String())
	assert.Greater(t, hits[0].DistanceKm, 0.0)

	require.NoError(t, store.RemoveTrip(ctx, near))
	hits, err = store.Nearby(ctx, date, rosebank, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
