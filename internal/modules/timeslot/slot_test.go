package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Label
	}
	return out
}

func TestCatalog(t *testing.T) {
	slots := Catalog()
	require.Len(t, slots, 12)
	assert.Equal(t, "07:00 - 08:00", slots[0].Label)
	assert.Equal(t, "09:00 - 10:00", slots[2].Label)
	assert.Equal(t, "18:00 - 19:00", slots[11].Label)

	slots[0].Label = "mutated"
	assert.Equal(t, "07:00 - 08:00", Catalog()[0].Label)
}

func TestParse(t *testing.T) {
	s, err := Parse(" 09:00 - 10:00 ")
	require.NoError(t, err)
	assert.Equal(t, 9, s.StartHour)

	for _, bad := range []string{"", "9:00 - 10:00", "19:00 - 20:00", "06:00 - 07:00", "09:00-10:00"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrUnknownSlot, "label %q", bad)
	}
}

func TestSlotBounds(t *testing.T) {
	loc := time.FixedZone("SAST", 2*60*60)
	day := time.Date(2025, 1, 8, 15, 42, 0, 0, loc)
	s, err := Parse("09:00 - 10:00")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 1, 8, 9, 0, 0, 0, loc), s.Start(day))
	assert.Equal(t, time.Date(2025, 1, 8, 10, 0, 0, 0, loc), s.End(day))
}

func TestAvailable(t *testing.T) {
	loc := time.FixedZone("SAST", 2*60*60)
	now := time.Date(2025, 1, 8, 8, 15, 0, 0, loc)

	tests := []struct {
		name      string
		day       time.Time
		now       time.Time
		wantFirst string
		wantLen   int
	}{
		{
			name:      "today at 08:15 drops the 07:00 and 08:00 windows",
			day:       now,
			now:       now,
			wantFirst: "09:00 - 10:00",
			wantLen:   10,
		},
		{
			name:      "today exactly on the hour treats that window as started",
			day:       now,
			now:       time.Date(2025, 1, 8, 9, 0, 0, 0, loc),
			wantFirst: "10:00 - 11:00",
			wantLen:   9,
		},
		{
			name:      "today before the first window offers everything",
			day:       now,
			now:       time.Date(2025, 1, 8, 6, 59, 0, 0, loc),
			wantFirst: "07:00 - 08:00",
			wantLen:   12,
		},
		{
			name:    "today after the last window offers nothing",
			day:     now,
			now:     time.Date(2025, 1, 8, 18, 30, 0, 0, loc),
			wantLen: 0,
		},
		{
			name:      "tomorrow offers the full catalog",
			day:       now.AddDate(0, 0, 1),
			now:       now,
			wantFirst: "07:00 - 08:00",
			wantLen:   12,
		},
		{
			name:    "yesterday offers nothing",
			day:     now.AddDate(0, 0, -1),
			now:     now,
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Available(tt.day, tt.now)
			require.Len(t, got, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, got[0].Label)
			}
		})
	}
}

func TestAvailable_DayInOtherZoneUsesNowsCalendar(t *testing.T) {
	sast := time.FixedZone("SAST", 2*60*60)
	now := time.Date(2025, 1, 8, 8, 15, 0, 0, sast)
	// 23:30 UTC on the 7th is already the 8th in SAST.
	day := time.Date(2025, 1, 7, 23, 30, 0, 0, time.UTC)

	got := Available(day, now)
	assert.NotContains(t, labels(got), "08:00 - 09:00")
	assert.Len(t, got, 10)
}

func TestDates(t *testing.T) {
	loc := time.FixedZone("SAST", 2*60*60)
	d, err := ParseDate("2025-01-08", loc)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-08", DateKey(d))
	assert.Equal(t, loc, d.Location())

	_, err = ParseDate("08/01/2025", loc)
	assert.Error(t, err)

	assert.True(t, ValidDate("2024-02-29"))
	assert.False(t, ValidDate("2025-02-29"))

	days := UpcomingDates(time.Date(2025, 1, 30, 13, 0, 0, 0, loc), 7)
	require.Len(t, days, 7)
	assert.Equal(t, "2025-01-30", DateKey(days[0]))
	assert.Equal(t, "2025-02-05", DateKey(days[6]))
}
