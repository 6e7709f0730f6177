// README: Matching service finds nearby open trips and pairs requests with offers.
package matching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"join/internal/config"
	"join/internal/modules/location"
	"join/internal/modules/timeslot"
	"join/internal/modules/trip"
	"join/internal/types"
)

var (
	ErrSameOwner    = errors.New("cannot pair trips of the same user")
	ErrIncompatible = errors.New("trips cannot be paired")
)

type GeoIndex interface {
	Nearby(ctx context.Context, date string, p types.Point, radiusKm float64) ([]Hit, error)
	IndexTrip(ctx context.Context, rec trip.Record) error
	RemoveTrip(ctx context.Context, rec trip.Record) error
}

type TripSource interface {
	Lookup(ctx context.Context, id types.ID) (trip.Record, error)
	Open(ctx context.Context, dateKey string) ([]trip.Record, error)
	MarkMatched(ctx context.Context, id, counterpart types.ID) (trip.Record, error)
}

type Service struct {
	index GeoIndex
	trips TripSource
	cfg   config.MatchingConfig
}

func NewService(index GeoIndex, trips TripSource, cfg config.MatchingConfig) *Service {
	return &Service{index: index, trips: trips, cfg: cfg}
}

// RadiusFor resolves the search radius of a query, capped at the configured maximum.
func (s *Service) RadiusFor(q NearbyQuery) float64 {
	radius := q.RadiusKm
	if radius <= 0 {
		precision := q.Precision
		if precision == 0 {
			precision = s.cfg.DefaultPrecision
		}
		radius = location.PrecisionRadiusKm(precision)
	}
	if s.cfg.MaxRadiusKm > 0 && radius > s.cfg.MaxRadiusKm {
		radius = s.cfg.MaxRadiusKm
	}
	return radius
}

// Nearby lists Pending trips on q.Date whose origin lies within the query
// radius of q.Point, nearest first. When the index has nothing for the area
// the trip store is scanned and matches are indexed again.
func (s *Service) Nearby(ctx context.Context, q NearbyQuery) ([]Candidate, error) {
	if !q.Point.Valid() {
		return nil, fmt.Errorf("%w: point out of range", trip.ErrBadRequest)
	}
	if !timeslot.ValidDate(q.Date) {
		return nil, fmt.Errorf("%w: invalid date %q", trip.ErrBadRequest, q.Date)
	}
	if q.Precision < 0 || q.Precision > 9 {
		return nil, fmt.Errorf("%w: precision must be between 1 and 9", trip.ErrBadRequest)
	}

	radius := s.RadiusFor(q)
	hits, err := s.index.Nearby(ctx, q.Date, q.Point, radius)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return s.scanOpen(ctx, q, radius)
	}

	out := make([]Candidate, 0, len(hits))
	for _, h := range hits {
		rec, err := s.trips.Lookup(ctx, h.TripID)
		if err != nil {
			if !isStale(err) {
				return nil, fmt.Errorf("loading trip %s: %w", h.TripID, err)
			}
			slog.Debug("dropping stale index entry", "trip_id", h.TripID, "error", err)
			s.evict(ctx, trip.Record{ID: h.TripID, Date: q.Date})
			continue
		}
		if rec.Status != trip.StatusPending {
			s.evict(ctx, rec)
			continue
		}
		dist := h.DistanceKm
		if rec.Origin != nil {
			dist = location.HaversineKm(q.Point, *rec.Origin)
		}
		if c, ok := candidate(q, rec, dist); ok {
			out = append(out, c)
		}
	}
	location.SortByDistance(out, func(c Candidate) float64 { return c.DistanceKm })
	return out, nil
}

// scanOpen answers a nearby query from the trip store.
func (s *Service) scanOpen(ctx context.Context, q NearbyQuery, radius float64) ([]Candidate, error) {
	open, err := s.trips.Open(ctx, q.Date)
	if err != nil {
		return nil, fmt.Errorf("listing open trips for %s: %w", q.Date, err)
	}
	out := []Candidate{}
	for _, rec := range open {
		if rec.Origin == nil {
			continue
		}
		dist := location.HaversineKm(q.Point, *rec.Origin)
		if dist > radius {
			continue
		}
		if err := s.index.IndexTrip(ctx, rec); err != nil {
			slog.Warn("re-indexing trip failed", "trip_id", rec.ID, "error", err)
		}
		if c, ok := candidate(q, rec, dist); ok {
			out = append(out, c)
		}
	}
	location.SortByDistance(out, func(c Candidate) float64 { return c.DistanceKm })
	return out, nil
}

func candidate(q NearbyQuery, rec trip.Record, dist float64) (Candidate, bool) {
	if q.RideType != "" && rec.RideType != q.RideType {
		return Candidate{}, false
	}
	if q.ExcludeUser != "" && rec.UserID == q.ExcludeUser {
		return Candidate{}, false
	}
	return Candidate{Trip: rec, DistanceKm: dist}, true
}

func (s *Service) evict(ctx context.Context, rec trip.Record) {
	if err := s.index.RemoveTrip(ctx, rec); err != nil {
		slog.Warn("removing trip from index failed", "trip_id", rec.ID, "error", err)
	}
}

// isStale reports whether a lookup failure means the indexed trip is gone
// or unreadable, as opposed to the store being unreachable.
func isStale(err error) bool {
	var verr *trip.ValidationError
	return errors.Is(err, trip.ErrNotFound) || errors.As(err, &verr)
}

// Pair links caller's Pending trip with a Pending counterpart of the
// opposite ride type on the same date and time slot. Both end Confirmed.
func (s *Service) Pair(ctx context.Context, tripID, counterpartID, caller types.ID) (Pairing, error) {
	mine, err := s.trips.Lookup(ctx, tripID)
	if err != nil {
		return Pairing{}, err
	}
	if mine.UserID != caller {
		return Pairing{}, trip.ErrForbidden
	}
	other, err := s.trips.Lookup(ctx, counterpartID)
	if err != nil {
		return Pairing{}, err
	}
	if err := compatible(mine, other); err != nil {
		return Pairing{}, err
	}

	first, err := s.trips.MarkMatched(ctx, mine.ID, other.ID)
	if err != nil {
		return Pairing{}, err
	}
	second, err := s.trips.MarkMatched(ctx, other.ID, mine.ID)
	if err != nil {
		slog.Error("pairing left one side confirmed",
			"trip_id", mine.ID, "counterpart_id", other.ID, "error", err)
		return Pairing{}, fmt.Errorf("trip %s confirmed but counterpart %s was not: %w", mine.ID, other.ID, err)
	}

	if first.RideType == trip.RideRequest {
		return Pairing{Request: first, Offer: second}, nil
	}
	return Pairing{Request: second, Offer: first}, nil
}

func compatible(a, b trip.Record) error {
	switch {
	case a.ID == b.ID:
		return fmt.Errorf("%w: same trip", ErrIncompatible)
	case a.UserID == b.UserID:
		return ErrSameOwner
	case a.Status != trip.StatusPending || b.Status != trip.StatusPending:
		return trip.ErrInvalidState
	case b.RideType != a.RideType.Counterpart():
		return fmt.Errorf("%w: both are %s", ErrIncompatible, a.RideType)
	case a.Date != b.Date || a.TimeSlot != b.TimeSlot:
		return fmt.Errorf("%w: different date or time slot", ErrIncompatible)
	}
	return nil
}
