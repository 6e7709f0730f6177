// README: Presentation projection of a trip for the schedule view.
package schedule

import (
	"time"

	"join/internal/modules/trip"
	"join/internal/types"
)

const (
	timeLabelLayout = "15:04"
	dateLabelLayout = "Mon 2 Jan"
)

// ScheduledEvent is derived from a trip on every read and never stored.
type ScheduledEvent struct {
	ID       types.ID
	UserID   types.ID
	RideType trip.RideType
	Date     string
	// Direction mirrors TimePref; the schedule view labels it separately.
	Direction   trip.TimePref
	Pickup      string
	Dropoff     string
	TimePref    trip.TimePref
	TimeSlot    string
	Start       time.Time
	End         time.Time
	Fee         types.Money
	Status      trip.Status
	StatusColor string
}

func (e ScheduledEvent) StartLabel() string { return e.Start.Format(timeLabelLayout) }
func (e ScheduledEvent) EndLabel() string   { return e.End.Format(timeLabelLayout) }
func (e ScheduledEvent) DateLabel() string  { return e.Start.Format(dateLabelLayout) }

func StatusColor(s trip.Status) string {
	switch s {
	case trip.StatusPending:
		return "orange"
	case trip.StatusConfirmed:
		return "green"
	case trip.StatusCompleted:
		return "gray"
	case trip.StatusCancelled:
		return "red"
	}
	return "black"
}
