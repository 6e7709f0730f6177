// README: Trip record, enums and status definitions.
package trip

import (
	"time"

	"join/internal/types"
)

type RideType string

const (
	RideRequest RideType = "Request"
	RideOffer   RideType = "Offer"
)

func (r RideType) Valid() bool {
	return r == RideRequest || r == RideOffer
}

// Counterpart is the ride type a trip pairs with.
func (r RideType) Counterpart() RideType {
	if r == RideRequest {
		return RideOffer
	}
	return RideRequest
}

type TimePref string

const (
	ArriveBetween TimePref = "Arrive between"
	LeaveBetween  TimePref = "Leave between"
)

func (t TimePref) Valid() bool {
	return t == ArriveBetween || t == LeaveBetween
}

type Status string

const (
	StatusNone      Status = ""
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Record is a persisted ride request or offer.
type Record struct {
	ID            types.ID
	UserID        types.ID
	RideType      RideType
	Pickup        string
	Dropoff       string
	Date          string
	TimePref      TimePref
	TimeSlot      string
	Status        Status
	Fee           types.Money
	Origin        *types.Point
	Destination   *types.Point
	VehicleClass  string
	MatchedTripID types.ID
	CreatedAt     time.Time
}

// Raw is a trip entry exactly as the realtime database returned it.
type Raw struct {
	ID     types.ID
	Fields map[string]any
}

type Event struct {
	ID         int64
	TripID     types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}

const (
	ActorRider  = "rider"
	ActorSystem = "system"
)

// AllowedTransitions represents the trip status flow as code. Cancellation
// is a status, never a removal; Completed and Cancelled are terminal.
var AllowedTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
