// README: Company directory entries riders commute to.
package company

import "join/internal/types"

type Company struct {
	ID        types.ID
	Name      string
	Location  types.Point
	RideCount int
}

// Ranked is a company with its distance from a query point.
type Ranked struct {
	Company
	DistanceKm float64
}
