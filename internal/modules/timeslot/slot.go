// README: Fixed catalog of hour-long pickup windows and slot availability.
package timeslot

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	firstHour = 7
	lastHour  = 19
)

var ErrUnknownSlot = errors.New("unknown time slot")

// Slot is one of the twelve one-hour windows between 07:00 and 19:00.
type Slot struct {
	StartHour int
	Label     string
}

var catalog = func() []Slot {
	slots := make([]Slot, 0, lastHour-firstHour)
	for h := firstHour; h < lastHour; h++ {
		slots = append(slots, Slot{
			StartHour: h,
			Label:     fmt.Sprintf("%02d:00 - %02d:00", h, h+1),
		})
	}
	return slots
}()

// Catalog returns every slot in chronological order.
func Catalog() []Slot {
	out := make([]Slot, len(catalog))
	copy(out, catalog)
	return out
}

// Parse resolves a label such as "09:00 - 10:00" to its catalog slot.
func Parse(label string) (Slot, error) {
	label = strings.TrimSpace(label)
	for _, s := range catalog {
		if s.Label == label {
			return s, nil
		}
	}
	return Slot{}, fmt.Errorf("%w: %q", ErrUnknownSlot, label)
}

func IsValid(label string) bool {
	_, err := Parse(label)
	return err == nil
}

// Start is the slot's opening instant on day, in day's location.
func (s Slot) Start(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, s.StartHour, 0, 0, 0, day.Location())
}

func (s Slot) End(day time.Time) time.Time {
	return s.Start(day).Add(time.Hour)
}

func (s Slot) String() string { return s.Label }

// Available lists the slots a rider may still book on day.
//
// For today every slot that has already started or is in progress is
// excluded, so at 08:15 both "07:00 - 08:00" and "08:00 - 09:00" are gone.
// The legacy client compared the start hour lexically against currentHour+1,
// which agrees for two-digit hours but misorders "9" vs "10"; that comparison
// is not reproduced. Past days have nothing available.
func Available(day, now time.Time) []Slot {
	today := startOfDay(now)
	target := startOfDay(day.In(now.Location()))

	switch {
	case target.Before(today):
		return []Slot{}
	case target.After(today):
		return Catalog()
	}

	out := make([]Slot, 0, len(catalog))
	for _, s := range catalog {
		if s.Start(today).After(now) {
			out = append(out, s)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
