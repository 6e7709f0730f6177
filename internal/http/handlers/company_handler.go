// README: Company handler lists the directory, optionally ranked by distance.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"join/internal/modules/company"
)

type CompanyHandler struct {
	companies *company.Service
}

func NewCompanyHandler(svc *company.Service) *CompanyHandler {
	return &CompanyHandler{companies: svc}
}

func (h *CompanyHandler) List(c *gin.Context) {
	p, near, err := queryPoint(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "lat and lng must be numbers")
		return
	}
	if !near {
		cs, err := h.companies.List(c.Request.Context())
		if err != nil {
			writeServiceError(c, err)
			return
		}
		out := make([]companyView, 0, len(cs))
		for _, co := range cs {
			out = append(out, newCompanyView(co))
		}
		writeJSON(c, http.StatusOK, gin.H{"companies": out})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "limit must be an integer")
		return
	}
	ranked, err := h.companies.Nearest(c.Request.Context(), p, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]companyView, 0, len(ranked))
	for _, r := range ranked {
		v := newCompanyView(r.Company)
		d := r.DistanceKm
		v.DistanceKm = &d
		out = append(out, v)
	}
	writeJSON(c, http.StatusOK, gin.H{"companies": out})
}
