// README: Base handler utilities (JSON helpers, caller identity, error mapping).
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"join/internal/http/middleware"
	"join/internal/modules/company"
	"join/internal/modules/location"
	"join/internal/modules/matching"
	"join/internal/modules/pricing"
	"join/internal/modules/profile"
	"join/internal/modules/trip"
	"join/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func caller(c *gin.Context) types.ID {
	return types.ID(middleware.CallerUID(c))
}

// isValidID accepts realtime-database push keys and uuids.
func isValidID(v string) bool {
	if v == "" || len(v) > 64 {
		return false
	}
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func pathID(c *gin.Context) (types.ID, bool) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid id")
		return "", false
	}
	return types.ID(id), true
}

// queryPoint reads lat/lng query parameters. ok is false when either is
// missing; err is set when present but malformed.
func queryPoint(c *gin.Context) (p types.Point, ok bool, err error) {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr == "" || lngStr == "" {
		return types.Point{}, false, nil
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return types.Point{}, false, err
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return types.Point{}, false, err
	}
	return types.Point{Lat: lat, Lng: lng}, true, nil
}

var statusByError = []struct {
	err    error
	status int
}{
	{trip.ErrBadRequest, http.StatusBadRequest},
	{pricing.ErrInvalidPassengers, http.StatusBadRequest},
	{pricing.ErrNegativeDuration, http.StatusBadRequest},
	{pricing.ErrInvalidCoordinate, http.StatusBadRequest},
	{pricing.ErrUnknownVehicleClass, http.StatusBadRequest},
	{location.ErrEmptyQuery, http.StatusBadRequest},
	{location.ErrPlaceMissing, http.StatusBadRequest},
	{profile.ErrInvalidProfile, http.StatusBadRequest},
	{company.ErrInvalidPoint, http.StatusBadRequest},
	{trip.ErrForbidden, http.StatusForbidden},
	{trip.ErrNotFound, http.StatusNotFound},
	{profile.ErrNotFound, http.StatusNotFound},
	{trip.ErrInvalidState, http.StatusConflict},
	{trip.ErrConflict, http.StatusConflict},
	{matching.ErrSameOwner, http.StatusConflict},
	{matching.ErrIncompatible, http.StatusConflict},
	{pricing.ErrQuoteNotFound, http.StatusGone},
	{trip.ErrDateInPast, http.StatusUnprocessableEntity},
	{trip.ErrSlotUnavailable, http.StatusUnprocessableEntity},
	{location.ErrUnavailable, http.StatusServiceUnavailable},
}

func writeServiceError(c *gin.Context, err error) {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			writeError(c, m.status, err.Error())
			return
		}
	}
	slog.Error("request failed", "path", c.FullPath(), "error", err)
	writeError(c, http.StatusInternalServerError, err.Error())
}
