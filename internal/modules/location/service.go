// README: Location service resolves typed addresses into coordinates for trip requests.
package location

import (
	"context"
	"errors"
	"strings"

	"join/internal/maps"
	"join/internal/types"
)

var (
	ErrEmptyQuery   = errors.New("empty search query")
	ErrPlaceMissing = errors.New("place id is required")
	ErrUnavailable  = errors.New("place search is not configured")
)

// PlaceFinder is the subset of the Places API the service needs.
type PlaceFinder interface {
	Autocomplete(ctx context.Context, input string, near *types.Point) ([]maps.Prediction, error)
	Details(ctx context.Context, placeID string) (maps.Place, error)
}

type Service struct {
	places PlaceFinder
}

func NewService(places PlaceFinder) *Service {
	return &Service{places: places}
}

// Search returns autocomplete predictions for the query, closest-biased when near is set.
func (s *Service) Search(ctx context.Context, query string, near *types.Point) ([]maps.Prediction, error) {
	if s.places == nil {
		return nil, ErrUnavailable
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if near != nil && !near.Valid() {
		near = nil
	}
	return s.places.Autocomplete(ctx, query, near)
}

// Resolve turns a prediction's place ID into a coordinate-bearing place.
func (s *Service) Resolve(ctx context.Context, placeID string) (maps.Place, error) {
	if s.places == nil {
		return maps.Place{}, ErrUnavailable
	}
	if strings.TrimSpace(placeID) == "" {
		return maps.Place{}, ErrPlaceMissing
	}
	return s.places.Details(ctx, placeID)
}
