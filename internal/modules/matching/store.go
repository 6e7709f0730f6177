// README: Nearby-trip index backed by Redis GEO sets, one per trip date.
package matching

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"join/internal/modules/trip"
	"join/internal/types"
)

type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

// IndexTrip adds a trip's origin to its date's GEO set.
func (s *Store) IndexTrip(ctx context.Context, rec trip.Record) error {
	if rec.Origin == nil {
		return nil
	}
	key := geoKey(rec.Date)
	pipe := s.redis.Pipeline()
	pipe.GeoAdd(ctx, key, &redis.GeoLocation{
		Name:      string(rec.ID),
		Longitude: rec.Origin.Lng,
		Latitude:  rec.Origin.Lat,
	})
	pipe.Expire(ctx, key, keyTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) RemoveTrip(ctx context.Context, rec trip.Record) error {
	return s.redis.ZRem(ctx, geoKey(rec.Date), string(rec.ID)).Err()
}

// Nearby returns indexed trips within radiusKm of p, nearest first.
func (s *Store) Nearby(ctx context.Context, date string, p types.Point, radiusKm float64) ([]Hit, error) {
	results, err := s.redis.GeoSearchLocation(ctx, geoKey(date), &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  p.Lng,
			Latitude:   p.Lat,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
		},
		WithDist: true,
	}).Result()
	if err != nil {
		return nil, err
	}
	hits := make([]Hit, len(results))
	for i, r := range results {
		hits[i] = Hit{TripID: types.ID(r.Name), DistanceKm: r.Dist}
	}
	return hits, nil
}

func geoKey(date string) string {
	return fmt.Sprintf(geoKeyPrefix, date)
}
