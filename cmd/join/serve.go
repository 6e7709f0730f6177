// README: serve command wires stores and services and runs the HTTP API.
package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"join/internal/config"
	httptransport "join/internal/http"
	"join/internal/infra"
	"join/internal/maps"
	"join/internal/modules/company"
	"join/internal/modules/location"
	"join/internal/modules/matching"
	"join/internal/modules/pricing"
	"join/internal/modules/profile"
	"join/internal/modules/schedule"
	"join/internal/modules/trip"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides http.addr)")
	_ = viper.BindPFlag("http.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	loc := cfg.Location()

	fb, err := infra.NewFirebase(ctx, infra.FirebaseSettings{
		ProjectID:       cfg.Firebase.ProjectID,
		DatabaseURL:     cfg.Firebase.DatabaseURL,
		CredentialsFile: cfg.Firebase.CredentialsFile,
	})
	if err != nil {
		return fmt.Errorf("firebase init: %w", err)
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	var routes pricing.RouteEstimator
	var places location.PlaceFinder
	if cfg.Maps.APIKey != "" {
		rs, err := maps.NewRouteService(cfg.Maps.APIKey, "za")
		if err != nil {
			return err
		}
		ps, err := maps.NewPlacesService(cfg.Maps.APIKey, "za")
		if err != nil {
			return err
		}
		routes, places = rs, ps
	} else {
		slog.Warn("maps api key not set; place search disabled and quotes use the default duration")
	}

	pricingSvc := pricing.NewService(pricing.NewStore(redisClient), routes, cfg.Fare)

	tripStore := trip.NewStore(fb.Database)
	geoIndex := matching.NewStore(redisClient)
	tripSvc := trip.NewService(tripStore, trip.NewEventStore(dbPool), pricingSvc, geoIndex, loc)
	matchingSvc := matching.NewService(geoIndex, tripSvc, cfg.Matching)

	companySvc := company.NewService(company.NewStore(fb.Database))

	if viper.GetString("logging.level") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httptransport.NewRouter(httptransport.RouterDeps{
		Verifier:  fb.Verifier,
		Trips:     tripSvc,
		Matching:  matchingSvc,
		Pricing:   pricingSvc,
		Schedule:  schedule.NewService(tripStore, loc),
		Locations: location.NewService(places),
		Companies: companySvc,
		Profiles:  profile.NewService(profile.NewStore(fb.Database), companySvc),
		Location:  loc,
		Logger:    slog.Default(),
	})

	return httptransport.NewServer(cfg.HTTP.Addr, router).Run(ctx)
}
