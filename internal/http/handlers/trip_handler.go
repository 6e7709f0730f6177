// README: Trip handlers for booking, status changes, nearby search and pairing.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"join/internal/modules/matching"
	"join/internal/modules/pricing"
	"join/internal/modules/trip"
	"join/internal/types"
)

type TripHandler struct {
	trips    *trip.Service
	matching *matching.Service
}

func NewTripHandler(trips *trip.Service, matchingSvc *matching.Service) *TripHandler {
	return &TripHandler{trips: trips, matching: matchingSvc}
}

type createTripReq struct {
	RideType     string       `json:"ride_type"`
	Pickup       string       `json:"pickup"`
	Dropoff      string       `json:"dropoff"`
	Date         string       `json:"date"`
	TimePref     string       `json:"time_pref"`
	TimeSlot     string       `json:"time_slot"`
	Origin       *types.Point `json:"origin"`
	Destination  *types.Point `json:"destination"`
	VehicleClass string       `json:"vehicle_class"`
	DurationMin  *float64     `json:"duration_min"`
	Passengers   *int         `json:"passengers"`
	QuoteID      string       `json:"quote_id"`
}

func (h *TripHandler) Create(c *gin.Context) {
	var req createTripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	passengers := 1
	if req.Passengers != nil {
		passengers = *req.Passengers
	}
	if passengers < 1 {
		writeServiceError(c, pricing.ErrInvalidPassengers)
		return
	}
	var duration float64
	if req.DurationMin != nil {
		duration = *req.DurationMin
	}
	if duration < 0 {
		writeServiceError(c, pricing.ErrNegativeDuration)
		return
	}

	rec, err := h.trips.Create(c.Request.Context(), trip.CreateCommand{
		UserID:       caller(c),
		RideType:     trip.RideType(req.RideType),
		Pickup:       req.Pickup,
		Dropoff:      req.Dropoff,
		Date:         req.Date,
		TimePref:     trip.TimePref(req.TimePref),
		TimeSlot:     req.TimeSlot,
		Origin:       req.Origin,
		Destination:  req.Destination,
		VehicleClass: req.VehicleClass,
		DurationMin:  duration,
		Passengers:   passengers,
		QuoteID:      types.ID(req.QuoteID),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, newTripView(rec))
}

func (h *TripHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rec, err := h.trips.Get(c.Request.Context(), id, caller(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, newTripView(rec))
}

func (h *TripHandler) Events(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	events, err := h.trips.History(c.Request.Context(), id, caller(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]tripEventView, 0, len(events))
	for _, e := range events {
		out = append(out, newTripEventView(e))
	}
	writeJSON(c, http.StatusOK, gin.H{"trip_id": id, "events": out})
}

func (h *TripHandler) Cancel(c *gin.Context)   { h.transition(c, h.trips.Cancel) }
func (h *TripHandler) Confirm(c *gin.Context)  { h.transition(c, h.trips.Confirm) }
func (h *TripHandler) Complete(c *gin.Context) { h.transition(c, h.trips.Complete) }

func (h *TripHandler) transition(c *gin.Context, fn func(context.Context, types.ID, types.ID) (trip.Record, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rec, err := fn(c.Request.Context(), id, caller(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, newTripView(rec))
}

// Nearby lists open trips around lat/lng on a date.
func (h *TripHandler) Nearby(c *gin.Context) {
	point, ok, err := queryPoint(c)
	if err != nil || !ok {
		writeError(c, http.StatusBadRequest, "lat and lng are required")
		return
	}
	q := matching.NearbyQuery{
		Date:        c.Query("date"),
		Point:       point,
		RideType:    trip.RideType(c.Query("ride_type")),
		ExcludeUser: caller(c),
	}
	if v := c.Query("precision"); v != "" {
		if q.Precision, err = strconv.Atoi(v); err != nil {
			writeError(c, http.StatusBadRequest, "precision must be an integer")
			return
		}
	}
	if v := c.Query("radius_km"); v != "" {
		if q.RadiusKm, err = strconv.ParseFloat(v, 64); err != nil || q.RadiusKm <= 0 {
			writeError(c, http.StatusBadRequest, "radius_km must be a positive number")
			return
		}
	}
	if q.RideType != "" && !q.RideType.Valid() {
		writeError(c, http.StatusBadRequest, "ride_type must be Request or Offer")
		return
	}

	candidates, err := h.matching.Nearby(c.Request.Context(), q)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]tripView, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, newCandidateView(cand))
	}
	writeJSON(c, http.StatusOK, gin.H{
		"date":      q.Date,
		"radius_km": h.matching.RadiusFor(q),
		"trips":     out,
	})
}

type pairReq struct {
	CounterpartID string `json:"counterpart_id"`
}

func (h *TripHandler) Pair(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req pairReq
	if err := c.ShouldBindJSON(&req); err != nil || !isValidID(req.CounterpartID) {
		writeError(c, http.StatusBadRequest, "counterpart_id is required")
		return
	}
	p, err := h.matching.Pair(c.Request.Context(), id, types.ID(req.CounterpartID), caller(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"request": newTripView(p.Request),
		"offer":   newTripView(p.Offer),
	})
}
