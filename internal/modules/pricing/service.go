// README: Pricing service computes fare estimates and issues cached per-class quotes.
package pricing

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"join/internal/config"
	"join/internal/maps"
	"join/internal/modules/location"
	"join/internal/types"
)

var (
	ErrInvalidPassengers   = errors.New("passenger count must be at least 1")
	ErrNegativeDuration    = errors.New("trip duration must not be negative")
	ErrInvalidCoordinate   = errors.New("coordinate out of range")
	ErrUnknownVehicleClass = errors.New("unknown vehicle class")
	ErrQuoteNotFound       = errors.New("quote not found or expired")
)

// Estimate returns the per-passenger fee for a single vehicle class.
// It is a pure function of its inputs.
func Estimate(req EstimateRequest, p Policy) (types.Money, error) {
	if req.Passengers < 1 {
		return types.Money{}, ErrInvalidPassengers
	}
	if req.DurationMin < 0 || math.IsNaN(req.DurationMin) || math.IsInf(req.DurationMin, 0) {
		return types.Money{}, ErrNegativeDuration
	}
	if !req.Origin.Valid() || !req.Destination.Valid() {
		return types.Money{}, ErrInvalidCoordinate
	}
	if req.Class.Name == "" {
		return types.Money{}, ErrUnknownVehicleClass
	}

	distanceKm := decimal.NewFromFloat(location.HaversineKm(req.Origin, req.Destination))
	minutes := decimal.NewFromFloat(req.DurationMin)

	tripCost := req.Class.BaseFare.
		Add(distanceKm.Mul(req.Class.RatePerKm)).
		Add(minutes.Mul(req.Class.RatePerMinute))
	total := tripCost.Mul(decimal.NewFromInt(1).Add(p.ServiceFee))
	perPassenger := total.Div(decimal.NewFromInt(int64(req.Passengers)))

	fee := decimal.Max(perPassenger, p.Minimum).Round(2)
	return types.Money{Amount: fee, Currency: p.Currency}, nil
}

// RouteEstimator supplies driving durations when the caller has none.
type RouteEstimator interface {
	TravelEstimate(ctx context.Context, origin, destination types.Point) (maps.Route, error)
}

// QuoteStore keeps issued quotes until they expire.
type QuoteStore interface {
	SaveQuote(ctx context.Context, q Quote, ttl time.Duration) error
	GetQuote(ctx context.Context, id types.ID) (Quote, error)
}

type Service struct {
	store           QuoteStore
	routes          RouteEstimator
	policy          Policy
	defaultDuration float64
	ttl             time.Duration
	now             func() time.Time
}

func NewService(store QuoteStore, routes RouteEstimator, cfg config.FareConfig) *Service {
	policy := DefaultPolicy()
	policy.ServiceFee = decimal.NewFromFloat(cfg.ServiceFee)
	policy.Minimum = decimal.NewFromFloat(cfg.Minimum)
	if cfg.Currency != "" {
		policy.Currency = cfg.Currency
	}
	ttl := cfg.QuoteTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Service{
		store:           store,
		routes:          routes,
		policy:          policy,
		defaultDuration: cfg.DefaultDurationMin,
		ttl:             ttl,
		now:             time.Now,
	}
}

func (s *Service) Policy() Policy {
	return s.policy
}

// Estimate prices one class under the configured policy.
func (s *Service) Estimate(_ context.Context, req EstimateRequest) (types.Money, error) {
	return Estimate(req, s.policy)
}

// Quote prices every vehicle class for the trip and stores the result so a
// later booking can be charged the displayed fee.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (Quote, error) {
	if !req.Origin.Valid() || !req.Destination.Valid() {
		return Quote{}, ErrInvalidCoordinate
	}
	if req.Passengers < 1 {
		return Quote{}, ErrInvalidPassengers
	}
	if req.DurationMin != nil && *req.DurationMin < 0 {
		return Quote{}, ErrNegativeDuration
	}

	duration := s.resolveDuration(ctx, req)
	q := Quote{
		ID:          types.ID(uuid.NewString()),
		Origin:      req.Origin,
		Destination: req.Destination,
		DistanceKm:  location.HaversineKm(req.Origin, req.Destination),
		DurationMin: duration,
		Passengers:  req.Passengers,
		ExpiresAt:   s.now().Add(s.ttl),
	}
	for _, class := range Catalog() {
		fee, err := Estimate(EstimateRequest{
			Origin:      req.Origin,
			Destination: req.Destination,
			Class:       class,
			DurationMin: duration,
			Passengers:  req.Passengers,
		}, s.policy)
		if err != nil {
			return Quote{}, err
		}
		q.Options = append(q.Options, QuoteOption{Class: class, Fee: fee})
	}

	if s.store != nil {
		if err := s.store.SaveQuote(ctx, q, s.ttl); err != nil {
			return Quote{}, err
		}
	}
	return q, nil
}

// LookupQuote returns a previously issued, unexpired quote.
func (s *Service) LookupQuote(ctx context.Context, id types.ID) (Quote, error) {
	if s.store == nil || id == "" {
		return Quote{}, ErrQuoteNotFound
	}
	q, err := s.store.GetQuote(ctx, id)
	if err != nil {
		return Quote{}, err
	}
	if !q.ExpiresAt.IsZero() && s.now().After(q.ExpiresAt) {
		return Quote{}, ErrQuoteNotFound
	}
	return q, nil
}

func (s *Service) resolveDuration(ctx context.Context, req QuoteRequest) float64 {
	if req.DurationMin != nil {
		return *req.DurationMin
	}
	if s.routes != nil {
		route, err := s.routes.TravelEstimate(ctx, req.Origin, req.Destination)
		if err == nil {
			return route.Duration.Minutes()
		}
		slog.Warn("route estimate failed, using default duration", "error", err)
	}
	return s.defaultDuration
}
