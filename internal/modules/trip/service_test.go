package trip

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"join/internal/config"
	"join/internal/modules/pricing"
	"join/internal/types"
)

type memRepo struct {
	mu    sync.Mutex
	seq   int
	trips map[types.ID]map[string]any
}

func newMemRepo() *memRepo {
	return &memRepo{trips: map[types.ID]map[string]any{}}
}

func (m *memRepo) Create(_ context.Context, rec *Record) (types.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := types.ID(fmt.Sprintf("t%03d", m.seq))
	m.trips[id] = rec.Fields()
	return id, nil
}

func (m *memRepo) Get(_ context.Context, id types.ID) (Raw, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.trips[id]
	if !ok {
		return Raw{}, ErrNotFound
	}
	return Raw{ID: id, Fields: copyFields(f)}, nil
}

func (m *memRepo) ListByDate(_ context.Context, dateKey string) ([]Raw, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data := map[string]any{}
	for id, f := range m.trips {
		if f[FieldDate] == dateKey {
			data[string(id)] = copyFields(f)
		}
	}
	return toRaws(data), nil
}

func (m *memRepo) UpdateStatus(_ context.Context, id types.ID, from, to Status, patch map[string]any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.trips[id]
	if !ok {
		return false, ErrNotFound
	}
	if f[FieldStatus] != string(from) {
		return false, nil
	}
	f[FieldStatus] = string(to)
	for k, v := range patch {
		f[k] = v
	}
	return true, nil
}

func copyFields(f map[string]any) map[string]any {
	out := make(map[string]any, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

type memEvents struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (m *memEvents) AppendEvent(_ context.Context, e *Event) error {
	if m.fail {
		return errors.New("postgres down")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *e)
	return nil
}

func (m *memEvents) ListEvents(_ context.Context, id types.ID) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, e := range m.events {
		if e.TripID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

type memQuotes struct {
	quotes map[types.ID]pricing.Quote
}

func (m *memQuotes) SaveQuote(_ context.Context, q pricing.Quote, _ time.Duration) error {
	m.quotes[q.ID] = q
	return nil
}

func (m *memQuotes) GetQuote(_ context.Context, id types.ID) (pricing.Quote, error) {
	q, ok := m.quotes[id]
	if !ok {
		return pricing.Quote{}, pricing.ErrQuoteNotFound
	}
	return q, nil
}

type recordingIndex struct {
	indexed []types.ID
	removed []types.ID
}

func (r *recordingIndex) IndexTrip(_ context.Context, rec Record) error {
	r.indexed = append(r.indexed, rec.ID)
	return nil
}

func (r *recordingIndex) RemoveTrip(_ context.Context, rec Record) error {
	r.removed = append(r.removed, rec.ID)
	return nil
}

var (
	joburg    = mustLoc("Africa/Johannesburg")
	joburgCBD = types.Point{Lat: -26.2041, Lng: 28.0473}
	sandton   = types.Point{Lat: -26.1076, Lng: 28.0567}
)

func mustLoc(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

type fixture struct {
	svc     *Service
	repo    *memRepo
	events  *memEvents
	index   *recordingIndex
	pricing *pricing.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:   newMemRepo(),
		events: &memEvents{},
		index:  &recordingIndex{},
	}
	f.pricing = pricing.NewService(&memQuotes{quotes: map[types.ID]pricing.Quote{}}, nil, config.FareConfig{
		ServiceFee: 0.20,
		Minimum:    50,
		Currency:   "ZAR",
		QuoteTTL:   time.Minute,
	})
	f.svc = NewService(f.repo, f.events, f.pricing, f.index, joburg)
	f.svc.now = func() time.Time { return time.Date(2025, 1, 8, 8, 15, 0, 0, joburg) }
	return f
}

func baseCommand() CreateCommand {
	return CreateCommand{
		UserID:   "u1",
		RideType: RideRequest,
		Pickup:   "123 Main St",
		Dropoff:  "Office",
		Date:     "2025-01-08",
		TimePref: ArriveBetween,
		TimeSlot: "09:00 - 10:00",
	}
}

func TestCreate_DefaultsToMinimumFare(t *testing.T) {
	f := newFixture(t)

	rec, err := f.svc.Create(context.Background(), baseCommand())
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, StatusPending, rec.Status)
	assert.Equal(t, "50", rec.Fee.Amount.String())
	assert.Equal(t, "ZAR", rec.Fee.Currency)
	assert.Equal(t, pricing.ClassStandard, rec.VehicleClass)
	assert.Empty(t, f.index.indexed, "trips without coordinates are not indexed")

	require.Len(t, f.events.events, 1)
	assert.Equal(t, StatusNone, f.events.events[0].FromStatus)
	assert.Equal(t, StatusPending, f.events.events[0].ToStatus)
}

func TestCreate_EstimatesFromCoordinates(t *testing.T) {
	f := newFixture(t)
	cmd := baseCommand()
	cmd.Origin = &joburgCBD
	cmd.Destination = &sandton
	cmd.DurationMin = 20

	rec, err := f.svc.Create(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "124.63", rec.Fee.Amount.StringFixed(2))
	assert.Equal(t, []types.ID{rec.ID}, f.index.indexed)
}

func TestCreate_ChargesQuotedFee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	duration := 20.0
	q, err := f.pricing.Quote(ctx, pricing.QuoteRequest{
		Origin: joburgCBD, Destination: sandton, DurationMin: &duration, Passengers: 2,
	})
	require.NoError(t, err)

	cmd := baseCommand()
	cmd.QuoteID = q.ID
	rec, err := f.svc.Create(ctx, cmd)
	require.NoError(t, err)

	opt, ok := q.Option(pricing.ClassStandard)
	require.True(t, ok)
	assert.True(t, opt.Fee.Amount.Equal(rec.Fee.Amount))
	require.NotNil(t, rec.Origin)
	assert.Equal(t, joburgCBD, *rec.Origin)

	cmd.QuoteID = "expired"
	_, err = f.svc.Create(ctx, cmd)
	assert.ErrorIs(t, err, pricing.ErrQuoteNotFound)
}

func TestCreate_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateCommand)
		want   error
	}{
		{"no user", func(c *CreateCommand) { c.UserID = "" }, ErrBadRequest},
		{"bad ride type", func(c *CreateCommand) { c.RideType = "Lift" }, ErrBadRequest},
		{"blank pickup", func(c *CreateCommand) { c.Pickup = " " }, ErrBadRequest},
		{"blank dropoff", func(c *CreateCommand) { c.Dropoff = "" }, ErrBadRequest},
		{"bad time pref", func(c *CreateCommand) { c.TimePref = "Soon" }, ErrBadRequest},
		{"bad date", func(c *CreateCommand) { c.Date = "2025-13-01" }, ErrBadRequest},
		{"bad slot", func(c *CreateCommand) { c.TimeSlot = "06:00 - 07:00" }, ErrBadRequest},
		{"unknown class", func(c *CreateCommand) { c.VehicleClass = "limo" }, ErrBadRequest},
		{"past date", func(c *CreateCommand) { c.Date = "2025-01-07" }, ErrDateInPast},
		{"slot in progress", func(c *CreateCommand) { c.TimeSlot = "08:00 - 09:00" }, ErrSlotUnavailable},
		{"slot over", func(c *CreateCommand) { c.TimeSlot = "07:00 - 08:00" }, ErrSlotUnavailable},
		{"bad origin", func(c *CreateCommand) { c.Origin = &types.Point{Lat: 91} }, ErrBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			cmd := baseCommand()
			tc.mutate(&cmd)
			_, err := f.svc.Create(context.Background(), cmd)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, f.repo.trips)
		})
	}
}

func TestCreate_FutureDateAllowsEarlySlot(t *testing.T) {
	f := newFixture(t)
	cmd := baseCommand()
	cmd.Date = "2025-01-09"
	cmd.TimeSlot = "07:00 - 08:00"

	_, err := f.svc.Create(context.Background(), cmd)
	assert.NoError(t, err)
}

func TestCreate_EventLogFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.events.fail = true

	_, err := f.svc.Create(context.Background(), baseCommand())
	assert.NoError(t, err)
}

func TestTripFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cmd := baseCommand()
	cmd.Origin = &joburgCBD
	cmd.Destination = &sandton
	rec, err := f.svc.Create(ctx, cmd)
	require.NoError(t, err)

	got, err := f.svc.Confirm(ctx, rec.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)

	_, err = f.svc.Confirm(ctx, rec.ID, "u1")
	assert.ErrorIs(t, err, ErrInvalidState)

	got, err = f.svc.Complete(ctx, rec.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)

	_, err = f.svc.Cancel(ctx, rec.ID, "u1")
	assert.ErrorIs(t, err, ErrInvalidState, "completed trips are terminal")

	history, err := f.svc.History(ctx, rec.ID, "u1")
	require.NoError(t, err)
	var path []Status
	for _, e := range history {
		path = append(path, e.ToStatus)
	}
	assert.Equal(t, []Status{StatusPending, StatusConfirmed, StatusCompleted}, path)
	assert.Equal(t, []types.ID{rec.ID, rec.ID}, f.index.removed)
}

func TestCancel_KeepsRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Create(ctx, baseCommand())
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, rec.ID, "u1")
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, rec.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
}

func TestOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Create(ctx, baseCommand())
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, rec.ID, "u2")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.Cancel(ctx, rec.ID, "u2")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.History(ctx, rec.ID, "u2")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Get(ctx, "missing", "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransition_ConflictWhenStatusMoved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Create(ctx, baseCommand())
	require.NoError(t, err)

	loaded, err := f.svc.Get(ctx, rec.ID, "u1")
	require.NoError(t, err)
	// Another writer cancels between read and write.
	f.repo.trips[rec.ID][FieldStatus] = string(StatusCancelled)

	err = f.svc.transition(ctx, &loaded, StatusConfirmed, ActorRider, nil, nil)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestMarkMatched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Create(ctx, baseCommand())
	require.NoError(t, err)

	got, err := f.svc.MarkMatched(ctx, rec.ID, "t999")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)
	assert.Equal(t, types.ID("t999"), got.MatchedTripID)

	stored, err := f.svc.Lookup(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ID("t999"), stored.MatchedTripID)

	last := f.events.events[len(f.events.events)-1]
	assert.Equal(t, ActorSystem, last.ActorType)
	assert.Nil(t, last.ActorID)

	_, err = f.svc.MarkMatched(ctx, rec.ID, "t998")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mine, err := f.svc.Create(ctx, baseCommand())
	require.NoError(t, err)

	other := baseCommand()
	other.UserID = "u2"
	theirs, err := f.svc.Create(ctx, other)
	require.NoError(t, err)

	gone := baseCommand()
	gone.UserID = "u3"
	cancelled, err := f.svc.Create(ctx, gone)
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, cancelled.ID, "u3")
	require.NoError(t, err)

	f.repo.trips["broken"] = map[string]any{FieldUserUID: "u1", FieldDate: "2025-01-08"}

	open, err := f.svc.Open(ctx, "2025-01-08")
	require.NoError(t, err)
	var ids []types.ID
	for _, rec := range open {
		ids = append(ids, rec.ID)
	}
	assert.ElementsMatch(t, []types.ID{mine.ID, theirs.ID}, ids)

	_, err = f.svc.Open(ctx, "tomorrow")
	assert.ErrorIs(t, err, ErrBadRequest)
}
