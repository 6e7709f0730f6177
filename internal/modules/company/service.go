// README: Company service lists companies and ranks them by distance.
package company

import (
	"context"
	"errors"
	"sort"

	"join/internal/modules/location"
	"join/internal/types"
)

var ErrInvalidPoint = errors.New("point out of range")

type Source interface {
	ListCompanies(ctx context.Context) ([]Company, error)
}

type Service struct {
	src Source
}

func NewService(src Source) *Service {
	return &Service{src: src}
}

// List returns all companies ordered by name.
func (s *Service) List(ctx context.Context) ([]Company, error) {
	cs, err := s.src.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Name != cs[j].Name {
			return cs[i].Name < cs[j].Name
		}
		return cs[i].ID < cs[j].ID
	})
	return cs, nil
}

// Nearest returns up to limit companies closest to p. A limit of zero or
// less returns them all.
func (s *Service) Nearest(ctx context.Context, p types.Point, limit int) ([]Ranked, error) {
	if !p.Valid() {
		return nil, ErrInvalidPoint
	}
	cs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	ranked := make([]Ranked, len(cs))
	for i, c := range cs {
		ranked[i] = Ranked{Company: c, DistanceKm: location.HaversineKm(p, c.Location)}
	}
	location.SortByDistance(ranked, func(r Ranked) float64 { return r.DistanceKm })
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
