// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"join/internal/http/handlers"
	"join/internal/http/middleware"
	"join/internal/infra"
	"join/internal/modules/company"
	"join/internal/modules/location"
	"join/internal/modules/matching"
	"join/internal/modules/pricing"
	"join/internal/modules/profile"
	"join/internal/modules/schedule"
	"join/internal/modules/trip"
)

type RouterDeps struct {
	Verifier  infra.TokenVerifier
	Trips     *trip.Service
	Matching  *matching.Service
	Pricing   *pricing.Service
	Schedule  *schedule.Service
	Locations *location.Service
	Companies *company.Service
	Profiles  *profile.Service
	Location  *time.Location
	Logger    *slog.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging(deps.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api", middleware.Auth(deps.Verifier))

	slots := handlers.NewTimeslotHandler(deps.Location)
	api.GET("/timeslots", slots.List)
	api.GET("/dates", slots.Dates)

	fares := handlers.NewFareHandler(deps.Pricing)
	api.GET("/fares/classes", fares.Classes)
	api.POST("/fares/quote", fares.Quote)

	trips := handlers.NewTripHandler(deps.Trips, deps.Matching)
	api.POST("/trips", trips.Create)
	api.GET("/trips/nearby", trips.Nearby)
	api.GET("/trips/:id", trips.Get)
	api.GET("/trips/:id/events", trips.Events)
	api.POST("/trips/:id/cancel", trips.Cancel)
	api.POST("/trips/:id/confirm", trips.Confirm)
	api.POST("/trips/:id/complete", trips.Complete)
	api.POST("/trips/:id/pair", trips.Pair)

	sched := handlers.NewScheduleHandler(deps.Schedule, deps.Location)
	api.GET("/schedule", sched.Get)

	places := handlers.NewPlaceHandler(deps.Locations)
	api.GET("/places/autocomplete", places.Autocomplete)
	api.GET("/places/:id", places.Details)

	companies := handlers.NewCompanyHandler(deps.Companies)
	api.GET("/companies", companies.List)

	profiles := handlers.NewProfileHandler(deps.Profiles)
	api.GET("/profile", profiles.Get)
	api.PUT("/profile", profiles.Update)

	return r
}
