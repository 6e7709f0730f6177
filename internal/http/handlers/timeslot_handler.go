// README: Time-slot handler lists bookable windows for a day.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"join/internal/modules/timeslot"
)

type TimeslotHandler struct {
	loc *time.Location
	now func() time.Time
}

func NewTimeslotHandler(loc *time.Location) *TimeslotHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TimeslotHandler{loc: loc, now: time.Now}
}

// List returns the slots still open on ?date= (default today).
func (h *TimeslotHandler) List(c *gin.Context) {
	now := h.now().In(h.loc)
	key := c.DefaultQuery("date", timeslot.DateKey(now))
	day, err := timeslot.ParseDate(key, h.loc)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	open := timeslot.Available(day, now)
	out := make([]slotView, 0, len(open))
	for _, s := range open {
		out = append(out, newSlotView(s, day))
	}
	writeJSON(c, http.StatusOK, gin.H{"date": key, "slots": out})
}

// Dates lists the next week of bookable calendar days.
func (h *TimeslotHandler) Dates(c *gin.Context) {
	days := timeslot.UpcomingDates(h.now().In(h.loc), 7)
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = timeslot.DateKey(d)
	}
	writeJSON(c, http.StatusOK, gin.H{"dates": out})
}
