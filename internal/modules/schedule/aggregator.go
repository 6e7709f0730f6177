// README: Aggregator turns raw trip entries into an ordered day schedule.
package schedule

import (
	"log/slog"
	"sort"
	"time"

	"join/internal/modules/timeslot"
	"join/internal/modules/trip"
	"join/internal/types"
)

// Skip records an entry that matched the query but failed validation.
type Skip struct {
	TripID types.ID
	Err    error
}

type Result struct {
	Events  []ScheduledEvent
	Skipped []Skip
}

type Aggregator struct {
	loc *time.Location
}

func NewAggregator(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{loc: loc}
}

// Aggregate keeps the entries owned by userID on dateKey and orders them by
// slot start, then trip ID. Entries that fail decoding land in Skipped.
func (a *Aggregator) Aggregate(raws []trip.Raw, dateKey string, userID types.ID) Result {
	res := Result{Events: []ScheduledEvent{}}
	for _, raw := range raws {
		if uid, date := raw.Owner(); uid != userID || date != dateKey {
			continue
		}
		rec, err := trip.Decode(raw)
		if err != nil {
			slog.Warn("skipping invalid trip", "trip_id", raw.ID, "date", dateKey, "error", err)
			res.Skipped = append(res.Skipped, Skip{TripID: raw.ID, Err: err})
			continue
		}
		ev, err := a.project(rec)
		if err != nil {
			slog.Warn("skipping invalid trip", "trip_id", raw.ID, "date", dateKey, "error", err)
			res.Skipped = append(res.Skipped, Skip{TripID: raw.ID, Err: err})
			continue
		}
		res.Events = append(res.Events, ev)
	}

	sort.SliceStable(res.Events, func(i, j int) bool {
		ei, ej := res.Events[i], res.Events[j]
		if !ei.Start.Equal(ej.Start) {
			return ei.Start.Before(ej.Start)
		}
		return ei.ID < ej.ID
	})
	return res
}

func (a *Aggregator) project(rec trip.Record) (ScheduledEvent, error) {
	day, err := timeslot.ParseDate(rec.Date, a.loc)
	if err != nil {
		return ScheduledEvent{}, err
	}
	slot, err := timeslot.Parse(rec.TimeSlot)
	if err != nil {
		return ScheduledEvent{}, err
	}
	return ScheduledEvent{
		ID:          rec.ID,
		UserID:      rec.UserID,
		RideType:    rec.RideType,
		Date:        rec.Date,
		Direction:   rec.TimePref,
		Pickup:      rec.Pickup,
		Dropoff:     rec.Dropoff,
		TimePref:    rec.TimePref,
		TimeSlot:    rec.TimeSlot,
		Start:       slot.Start(day),
		End:         slot.End(day),
		Fee:         rec.Fee,
		Status:      rec.Status,
		StatusColor: StatusColor(rec.Status),
	}, nil
}
