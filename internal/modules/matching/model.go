// README: Nearby-trip queries and pairing results.
package matching

import (
	"time"

	"join/internal/modules/trip"
	"join/internal/types"
)

const (
	geoKeyPrefix = "matching:trips:%s"
	// keyTTL keeps a day's index around past the day itself.
	keyTTL = 72 * time.Hour
)

// Hit is one member returned from the GEO index.
type Hit struct {
	TripID     types.ID
	DistanceKm float64
}

type NearbyQuery struct {
	Date  string
	Point types.Point
	// Precision is a geohash-style level 1..9; 0 means the configured default.
	Precision int
	// RadiusKm overrides Precision when positive.
	RadiusKm float64
	// RideType limits results to one kind when set.
	RideType trip.RideType
	// ExcludeUser drops the caller's own trips.
	ExcludeUser types.ID
}

type Candidate struct {
	Trip       trip.Record
	DistanceKm float64
}

type Pairing struct {
	Request trip.Record
	Offer   trip.Record
}
