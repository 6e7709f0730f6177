// README: Pure geographic computation helpers.
package location

import (
	"math"

	"join/internal/types"
)

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func HaversineKm(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// precisionCellKm holds the approximate width of a geohash cell per precision level.
var precisionCellKm = [...]float64{
	1: 5000,
	2: 1250,
	3: 156,
	4: 39.1,
	5: 4.89,
	6: 1.22,
	7: 0.153,
	8: 0.0382,
	9: 0.00477,
}

// PrecisionRadiusKm maps a geohash-style precision (1..9) to a search radius.
// Values outside the range are clamped.
func PrecisionRadiusKm(precision int) float64 {
	if precision < 1 {
		precision = 1
	}
	if precision > 9 {
		precision = 9
	}
	return precisionCellKm[precision]
}

// SortByDistance performs an insertion sort (fine for small N) on any slice
// where each element exposes a distance via the accessor function.
func SortByDistance[T any](items []T, dist func(T) float64) {
	for i := 1; i < len(items); i++ {
		key := items[i]
		j := i - 1
		for j >= 0 && dist(items[j]) > dist(key) {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = key
	}
}
