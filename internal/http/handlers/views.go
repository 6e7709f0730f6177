// README: JSON views of module types.
package handlers

import (
	"time"

	"join/internal/modules/company"
	"join/internal/modules/matching"
	"join/internal/modules/pricing"
	"join/internal/modules/schedule"
	"join/internal/modules/timeslot"
	"join/internal/modules/trip"
	"join/internal/types"
)

type moneyView struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Display  string `json:"display"`
}

func newMoneyView(m types.Money) moneyView {
	return moneyView{Amount: m.Amount.StringFixed(2), Currency: m.Currency, Display: m.String()}
}

type tripView struct {
	ID            types.ID     `json:"trip_id"`
	UserID        types.ID     `json:"user_id"`
	RideType      string       `json:"ride_type"`
	Pickup        string       `json:"pickup"`
	Dropoff       string       `json:"dropoff"`
	Date          string       `json:"date"`
	TimePref      string       `json:"time_pref"`
	TimeSlot      string       `json:"time_slot"`
	Status        string       `json:"status"`
	Fee           moneyView    `json:"fee"`
	VehicleClass  string       `json:"vehicle_class,omitempty"`
	Origin        *types.Point `json:"origin,omitempty"`
	Destination   *types.Point `json:"destination,omitempty"`
	MatchedTripID types.ID     `json:"matched_trip_id,omitempty"`
	DistanceKm    *float64     `json:"distance_km,omitempty"`
}

func newTripView(r trip.Record) tripView {
	return tripView{
		ID:            r.ID,
		UserID:        r.UserID,
		RideType:      string(r.RideType),
		Pickup:        r.Pickup,
		Dropoff:       r.Dropoff,
		Date:          r.Date,
		TimePref:      string(r.TimePref),
		TimeSlot:      r.TimeSlot,
		Status:        string(r.Status),
		Fee:           newMoneyView(r.Fee),
		VehicleClass:  r.VehicleClass,
		Origin:        r.Origin,
		Destination:   r.Destination,
		MatchedTripID: r.MatchedTripID,
	}
}

func newCandidateView(c matching.Candidate) tripView {
	v := newTripView(c.Trip)
	d := c.DistanceKm
	v.DistanceKm = &d
	return v
}

type tripEventView struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	ActorType string    `json:"actor_type"`
	ActorID   *types.ID `json:"actor_id,omitempty"`
	At        time.Time `json:"at"`
}

func newTripEventView(e trip.Event) tripEventView {
	return tripEventView{
		From:      string(e.FromStatus),
		To:        string(e.ToStatus),
		ActorType: e.ActorType,
		ActorID:   e.ActorID,
		At:        e.CreatedAt,
	}
}

type quoteOptionView struct {
	Class     string    `json:"class"`
	Title     string    `json:"title"`
	ImageName string    `json:"image_name"`
	Fee       moneyView `json:"fee"`
}

type quoteView struct {
	ID          types.ID          `json:"quote_id"`
	DistanceKm  float64           `json:"distance_km"`
	DurationMin float64           `json:"duration_min"`
	Passengers  int               `json:"passengers"`
	Options     []quoteOptionView `json:"options"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

func newQuoteView(q pricing.Quote) quoteView {
	v := quoteView{
		ID:          q.ID,
		DistanceKm:  q.DistanceKm,
		DurationMin: q.DurationMin,
		Passengers:  q.Passengers,
		Options:     make([]quoteOptionView, 0, len(q.Options)),
		ExpiresAt:   q.ExpiresAt,
	}
	for _, o := range q.Options {
		v.Options = append(v.Options, quoteOptionView{
			Class:     o.Class.Name,
			Title:     o.Class.Title,
			ImageName: o.Class.ImageName,
			Fee:       newMoneyView(o.Fee),
		})
	}
	return v
}

type slotView struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func newSlotView(s timeslot.Slot, day time.Time) slotView {
	return slotView{Label: s.Label, Start: s.Start(day), End: s.End(day)}
}

type scheduledEventView struct {
	ID          types.ID  `json:"trip_id"`
	RideType    string    `json:"ride_type"`
	Direction   string    `json:"direction"`
	Pickup      string    `json:"pickup"`
	Dropoff     string    `json:"dropoff"`
	TimeSlot    string    `json:"time_slot"`
	StartLabel  string    `json:"start_label"`
	EndLabel    string    `json:"end_label"`
	DateLabel   string    `json:"date_label"`
	Fee         moneyView `json:"fee"`
	Status      string    `json:"status"`
	StatusColor string    `json:"status_color"`
}

type skippedView struct {
	TripID types.ID `json:"trip_id"`
	Reason string   `json:"reason"`
}

type scheduleView struct {
	Date    string               `json:"date"`
	Events  []scheduledEventView `json:"events"`
	Skipped []skippedView        `json:"skipped"`
}

func newScheduleView(date string, res schedule.Result) scheduleView {
	v := scheduleView{
		Date:    date,
		Events:  make([]scheduledEventView, 0, len(res.Events)),
		Skipped: make([]skippedView, 0, len(res.Skipped)),
	}
	for _, e := range res.Events {
		v.Events = append(v.Events, scheduledEventView{
			ID:          e.ID,
			RideType:    string(e.RideType),
			Direction:   string(e.Direction),
			Pickup:      e.Pickup,
			Dropoff:     e.Dropoff,
			TimeSlot:    e.TimeSlot,
			StartLabel:  e.StartLabel(),
			EndLabel:    e.EndLabel(),
			DateLabel:   e.DateLabel(),
			Fee:         newMoneyView(e.Fee),
			Status:      string(e.Status),
			StatusColor: e.StatusColor,
		})
	}
	for _, s := range res.Skipped {
		v.Skipped = append(v.Skipped, skippedView{TripID: s.TripID, Reason: s.Err.Error()})
	}
	return v
}

type companyView struct {
	ID         types.ID    `json:"company_id"`
	Name       string      `json:"name"`
	Location   types.Point `json:"location"`
	RideCount  int         `json:"ride_count"`
	DistanceKm *float64    `json:"distance_km,omitempty"`
}

func newCompanyView(c company.Company) companyView {
	return companyView{ID: c.ID, Name: c.Name, Location: c.Location, RideCount: c.RideCount}
}
