// README: Trip service implements booking, status transitions and history.
package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"join/internal/modules/pricing"
	"join/internal/modules/timeslot"
	"join/internal/types"
)

var (
	ErrNotFound        = errors.New("trip not found")
	ErrInvalidState    = errors.New("invalid state transition")
	ErrConflict        = errors.New("trip state conflict")
	ErrBadRequest      = errors.New("bad request")
	ErrForbidden       = errors.New("trip belongs to another user")
	ErrDateInPast      = errors.New("trip date is in the past")
	ErrSlotUnavailable = errors.New("time slot is no longer available")
)

// Repository is the trip persistence boundary.
type Repository interface {
	Create(ctx context.Context, rec *Record) (types.ID, error)
	Get(ctx context.Context, id types.ID) (Raw, error)
	ListByDate(ctx context.Context, dateKey string) ([]Raw, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, patch map[string]any) (bool, error)
}

type EventLog interface {
	AppendEvent(ctx context.Context, e *Event) error
	ListEvents(ctx context.Context, tripID types.ID) ([]Event, error)
}

type Pricing interface {
	Policy() pricing.Policy
	Estimate(ctx context.Context, req pricing.EstimateRequest) (types.Money, error)
	LookupQuote(ctx context.Context, id types.ID) (pricing.Quote, error)
}

// Indexer keeps the nearby-trip index in step with trip status.
type Indexer interface {
	IndexTrip(ctx context.Context, rec Record) error
	RemoveTrip(ctx context.Context, rec Record) error
}

type Service struct {
	repo    Repository
	events  EventLog
	pricing Pricing
	index   Indexer
	loc     *time.Location
	now     func() time.Time
}

func NewService(repo Repository, events EventLog, pricing Pricing, index Indexer, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:    repo,
		events:  events,
		pricing: pricing,
		index:   index,
		loc:     loc,
		now:     time.Now,
	}
}

type CreateCommand struct {
	UserID   types.ID
	RideType RideType
	Pickup   string
	Dropoff  string
	Date     string
	TimePref TimePref
	TimeSlot string

	Origin       *types.Point
	Destination  *types.Point
	VehicleClass string
	DurationMin  float64
	Passengers   int
	// QuoteID charges the fee of a previously issued quote.
	QuoteID types.ID
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (Record, error) {
	if err := s.validateCreate(cmd); err != nil {
		return Record{}, err
	}

	rec := Record{
		UserID:       cmd.UserID,
		RideType:     cmd.RideType,
		Pickup:       strings.TrimSpace(cmd.Pickup),
		Dropoff:      strings.TrimSpace(cmd.Dropoff),
		Date:         cmd.Date,
		TimePref:     cmd.TimePref,
		TimeSlot:     strings.TrimSpace(cmd.TimeSlot),
		Status:       StatusPending,
		Origin:       cmd.Origin,
		Destination:  cmd.Destination,
		VehicleClass: strings.ToLower(cmd.VehicleClass),
		CreatedAt:    s.now().UTC(),
	}
	if rec.VehicleClass == "" {
		rec.VehicleClass = pricing.ClassStandard
	}
	if err := s.applyFee(ctx, cmd, &rec); err != nil {
		return Record{}, err
	}

	id, err := s.repo.Create(ctx, &rec)
	if err != nil {
		return Record{}, err
	}
	rec.ID = id

	s.appendEvent(ctx, &Event{
		TripID:     id,
		FromStatus: StatusNone,
		ToStatus:   StatusPending,
		ActorType:  ActorRider,
		ActorID:    &cmd.UserID,
		CreatedAt:  rec.CreatedAt,
	})
	if s.index != nil && rec.Origin != nil {
		if err := s.index.IndexTrip(ctx, rec); err != nil {
			slog.Warn("indexing trip failed", "trip_id", id, "error", err)
		}
	}
	return rec, nil
}

func (s *Service) validateCreate(cmd CreateCommand) error {
	switch {
	case cmd.UserID == "":
		return fmt.Errorf("%w: user is required", ErrBadRequest)
	case !cmd.RideType.Valid():
		return fmt.Errorf("%w: ride type must be Request or Offer", ErrBadRequest)
	case strings.TrimSpace(cmd.Pickup) == "":
		return fmt.Errorf("%w: pickup is required", ErrBadRequest)
	case strings.TrimSpace(cmd.Dropoff) == "":
		return fmt.Errorf("%w: dropoff is required", ErrBadRequest)
	case !cmd.TimePref.Valid():
		return fmt.Errorf("%w: unknown time preference %q", ErrBadRequest, cmd.TimePref)
	case cmd.Origin != nil && !cmd.Origin.Valid(), cmd.Destination != nil && !cmd.Destination.Valid():
		return fmt.Errorf("%w: %v", ErrBadRequest, pricing.ErrInvalidCoordinate)
	}

	day, err := timeslot.ParseDate(cmd.Date, s.loc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	slot, err := timeslot.Parse(cmd.TimeSlot)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	now := s.now().In(s.loc)
	if day.Before(startOfDay(now)) {
		return ErrDateInPast
	}
	for _, open := range timeslot.Available(day, now) {
		if open.StartHour == slot.StartHour {
			return nil
		}
	}
	return ErrSlotUnavailable
}

// applyFee prices the trip from a quote, from its coordinates, or falls back
// to the minimum fare when neither is given.
func (s *Service) applyFee(ctx context.Context, cmd CreateCommand, rec *Record) error {
	if s.pricing == nil {
		return nil
	}
	policy := s.pricing.Policy()
	rec.Fee = types.Money{Amount: policy.Minimum, Currency: policy.Currency}

	class, ok := pricing.LookupClass(rec.VehicleClass)
	if !ok {
		return fmt.Errorf("%w: %v %q", ErrBadRequest, pricing.ErrUnknownVehicleClass, rec.VehicleClass)
	}

	if cmd.QuoteID != "" {
		q, err := s.pricing.LookupQuote(ctx, cmd.QuoteID)
		if err != nil {
			return err
		}
		opt, ok := q.Option(class.Name)
		if !ok {
			return fmt.Errorf("%w: quote has no %s option", ErrBadRequest, class.Name)
		}
		rec.Fee = opt.Fee
		if rec.Origin == nil {
			origin := q.Origin
			rec.Origin = &origin
		}
		if rec.Destination == nil {
			dest := q.Destination
			rec.Destination = &dest
		}
		return nil
	}

	if rec.Origin == nil || rec.Destination == nil {
		return nil
	}
	passengers := cmd.Passengers
	if passengers == 0 {
		passengers = 1
	}
	fee, err := s.pricing.Estimate(ctx, pricing.EstimateRequest{
		Origin:      *rec.Origin,
		Destination: *rec.Destination,
		Class:       class,
		DurationMin: cmd.DurationMin,
		Passengers:  passengers,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	rec.Fee = fee
	return nil
}

// Get returns a trip owned by caller.
func (s *Service) Get(ctx context.Context, id, caller types.ID) (Record, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if rec.UserID != caller {
		return Record{}, ErrForbidden
	}
	return rec, nil
}

// Lookup returns a trip regardless of owner.
func (s *Service) Lookup(ctx context.Context, id types.ID) (Record, error) {
	return s.load(ctx, id)
}

// Open returns every Pending trip on dateKey, from any user. Entries that
// fail to decode are logged and left out.
func (s *Service) Open(ctx context.Context, dateKey string) ([]Record, error) {
	if !timeslot.ValidDate(dateKey) {
		return nil, fmt.Errorf("%w: invalid date %q", ErrBadRequest, dateKey)
	}
	raws, err := s.repo.ListByDate(ctx, dateKey)
	if err != nil {
		return nil, err
	}
	var out []Record
	for _, raw := range raws {
		rec, err := Decode(raw)
		if err != nil {
			slog.Warn("skipping invalid trip", "trip_id", raw.ID, "error", err)
			continue
		}
		if rec.Status != StatusPending || rec.Date != dateKey {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Service) Cancel(ctx context.Context, id, caller types.ID) (Record, error) {
	return s.riderTransition(ctx, id, caller, StatusCancelled)
}

func (s *Service) Confirm(ctx context.Context, id, caller types.ID) (Record, error) {
	return s.riderTransition(ctx, id, caller, StatusConfirmed)
}

func (s *Service) Complete(ctx context.Context, id, caller types.ID) (Record, error) {
	return s.riderTransition(ctx, id, caller, StatusCompleted)
}

// MarkMatched confirms a Pending trip on behalf of the system and links it
// to its counterpart.
func (s *Service) MarkMatched(ctx context.Context, id, counterpart types.ID) (Record, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if rec.Status != StatusPending {
		return Record{}, ErrInvalidState
	}
	patch := map[string]any{FieldMatchedTripID: string(counterpart)}
	if err := s.transition(ctx, &rec, StatusConfirmed, ActorSystem, nil, patch); err != nil {
		return Record{}, err
	}
	rec.MatchedTripID = counterpart
	return rec, nil
}

// History returns the status events of a trip owned by caller.
func (s *Service) History(ctx context.Context, id, caller types.ID) ([]Event, error) {
	if _, err := s.Get(ctx, id, caller); err != nil {
		return nil, err
	}
	if s.events == nil {
		return []Event{}, nil
	}
	events, err := s.events.ListEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []Event{}
	}
	return events, nil
}

func (s *Service) riderTransition(ctx context.Context, id, caller types.ID, to Status) (Record, error) {
	rec, err := s.Get(ctx, id, caller)
	if err != nil {
		return Record{}, err
	}
	if err := s.transition(ctx, &rec, to, ActorRider, &caller, nil); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) transition(ctx context.Context, rec *Record, to Status, actorType string, actorID *types.ID, patch map[string]any) error {
	from := rec.Status
	if !CanTransition(from, to) {
		return ErrInvalidState
	}
	ok, err := s.repo.UpdateStatus(ctx, rec.ID, from, to, patch)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	rec.Status = to

	s.appendEvent(ctx, &Event{
		TripID:     rec.ID,
		FromStatus: from,
		ToStatus:   to,
		ActorType:  actorType,
		ActorID:    actorID,
		CreatedAt:  s.now().UTC(),
	})
	if s.index != nil && to != StatusPending {
		if err := s.index.RemoveTrip(ctx, *rec); err != nil {
			slog.Warn("removing trip from index failed", "trip_id", rec.ID, "error", err)
		}
	}
	return nil
}

func (s *Service) load(ctx context.Context, id types.ID) (Record, error) {
	if id == "" {
		return Record{}, ErrNotFound
	}
	raw, err := s.repo.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	return Decode(raw)
}

func (s *Service) appendEvent(ctx context.Context, e *Event) {
	if s.events == nil {
		return
	}
	if err := s.events.AppendEvent(ctx, e); err != nil {
		slog.Warn("recording trip status event failed",
			"trip_id", e.TripID, "to", e.ToStatus, "error", err)
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
