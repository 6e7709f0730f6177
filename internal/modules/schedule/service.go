// README: Schedule service reads a day's trips and aggregates them for one user.
package schedule

import (
	"context"
	"fmt"
	"time"

	"join/internal/modules/timeslot"
	"join/internal/modules/trip"
	"join/internal/types"
)

type TripLister interface {
	ListByDate(ctx context.Context, dateKey string) ([]trip.Raw, error)
}

type Service struct {
	trips TripLister
	agg   *Aggregator
}

func NewService(trips TripLister, loc *time.Location) *Service {
	return &Service{trips: trips, agg: NewAggregator(loc)}
}

// ForDate returns userID's schedule for dateKey.
func (s *Service) ForDate(ctx context.Context, dateKey string, userID types.ID) (Result, error) {
	if !timeslot.ValidDate(dateKey) {
		return Result{}, fmt.Errorf("%w: invalid date %q", trip.ErrBadRequest, dateKey)
	}
	if userID == "" {
		return Result{}, fmt.Errorf("%w: user is required", trip.ErrBadRequest)
	}
	raws, err := s.trips.ListByDate(ctx, dateKey)
	if err != nil {
		return Result{}, err
	}
	return s.agg.Aggregate(raws, dateKey, userID), nil
}
