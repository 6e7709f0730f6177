// README: Schedule handler renders the caller's day.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"join/internal/modules/schedule"
	"join/internal/modules/timeslot"
)

type ScheduleHandler struct {
	schedule *schedule.Service
	loc      *time.Location
}

func NewScheduleHandler(svc *schedule.Service, loc *time.Location) *ScheduleHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleHandler{schedule: svc, loc: loc}
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	date := c.DefaultQuery("date", timeslot.DateKey(time.Now().In(h.loc)))
	res, err := h.schedule.ForDate(c.Request.Context(), date, caller(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, newScheduleView(date, res))
}
