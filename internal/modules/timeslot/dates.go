// README: Calendar-date keys trips are stored under, and upcoming booking dates.
package timeslot

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day key trips are stored under (yyyy-MM-dd).
const DateLayout = "2006-01-02"

// DateKey formats t's calendar day in its own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a yyyy-MM-dd key as midnight in loc.
func ParseDate(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want yyyy-MM-dd", key)
	}
	return t, nil
}

// ValidDate reports whether key is a well-formed calendar date.
func ValidDate(key string) bool {
	_, err := time.Parse(DateLayout, key)
	return err == nil
}

// UpcomingDates returns the next n calendar days starting with today.
func UpcomingDates(now time.Time, n int) []time.Time {
	today := startOfDay(now)
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, today.AddDate(0, 0, i))
	}
	return out
}
