// README: Place handlers for address autocomplete and resolution.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"join/internal/modules/location"
	"join/internal/types"
)

type PlaceHandler struct {
	location *location.Service
}

func NewPlaceHandler(svc *location.Service) *PlaceHandler {
	return &PlaceHandler{location: svc}
}

func (h *PlaceHandler) Autocomplete(c *gin.Context) {
	var near *types.Point
	p, ok, err := queryPoint(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "lat and lng must be numbers")
		return
	}
	if ok {
		near = &p
	}
	preds, err := h.location.Search(c.Request.Context(), c.Query("q"), near)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"predictions": preds})
}

func (h *PlaceHandler) Details(c *gin.Context) {
	place, err := h.location.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, place)
}
