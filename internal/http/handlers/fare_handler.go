// README: Fare handlers issue per-class quotes.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"join/internal/modules/pricing"
	"join/internal/types"
)

type FareHandler struct {
	pricing *pricing.Service
}

func NewFareHandler(svc *pricing.Service) *FareHandler {
	return &FareHandler{pricing: svc}
}

type quoteReq struct {
	Origin      *types.Point `json:"origin"`
	Destination *types.Point `json:"destination"`
	DurationMin *float64     `json:"duration_min"`
	Passengers  *int         `json:"passengers"`
}

func (h *FareHandler) Quote(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Origin == nil || req.Destination == nil {
		writeError(c, http.StatusBadRequest, "origin and destination are required")
		return
	}
	passengers := 1
	if req.Passengers != nil {
		passengers = *req.Passengers
	}

	q, err := h.pricing.Quote(c.Request.Context(), pricing.QuoteRequest{
		Origin:      *req.Origin,
		Destination: *req.Destination,
		DurationMin: req.DurationMin,
		Passengers:  passengers,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, newQuoteView(q))
}

func (h *FareHandler) Classes(c *gin.Context) {
	policy := h.pricing.Policy()
	out := make([]gin.H, 0, 3)
	for _, class := range pricing.Catalog() {
		out = append(out, gin.H{
			"class":           class.Name,
			"title":           class.Title,
			"image_name":      class.ImageName,
			"base_fare":       class.BaseFare.StringFixed(2),
			"rate_per_km":     class.RatePerKm.StringFixed(2),
			"rate_per_minute": class.RatePerMinute.StringFixed(2),
		})
	}
	writeJSON(c, http.StatusOK, gin.H{
		"currency":     policy.Currency,
		"service_fee":  policy.ServiceFee.String(),
		"minimum_fare": policy.Minimum.StringFixed(2),
		"classes":      out,
	})
}
