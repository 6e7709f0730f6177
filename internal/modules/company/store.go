// README: Company store reads the Company node of the realtime database.
package company

import (
	"context"
	"fmt"
	"math"

	"firebase.google.com/go/v4/db"

	"join/internal/types"
)

const companiesPath = "Company"

type Store struct {
	db *db.Client
}

func NewStore(client *db.Client) *Store {
	return &Store{db: client}
}

// ListCompanies returns every complete entry; entries missing a name,
// coordinates or ride count are left out.
func (s *Store) ListCompanies(ctx context.Context) ([]Company, error) {
	var data map[string]any
	if err := s.db.NewRef(companiesPath).Get(ctx, &data); err != nil {
		return nil, fmt.Errorf("reading companies: %w", err)
	}
	out := make([]Company, 0, len(data))
	for id, v := range data {
		if c, ok := decodeCompany(types.ID(id), v); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func decodeCompany(id types.ID, v any) (Company, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return Company{}, false
	}
	name, _ := m["name"].(string)
	lat, okLat := m["latitude"].(float64)
	lng, okLng := m["longitude"].(float64)
	rides, okRides := m["rideCount"].(float64)
	if name == "" || !okLat || !okLng || !okRides || rides != math.Trunc(rides) {
		return Company{}, false
	}
	c := Company{
		ID:        id,
		Name:      name,
		Location:  types.Point{Lat: lat, Lng: lng},
		RideCount: int(rides),
	}
	if !c.Location.Valid() {
		return Company{}, false
	}
	return c, true
}
