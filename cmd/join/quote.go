// README: quote command prints a fare table for every vehicle class.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"join/internal/maps"
	"join/internal/modules/pricing"
	"join/internal/types"
)

func quoteCmd() *cobra.Command {
	var (
		from, to   string
		duration   float64
		passengers int
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Print the fare for every vehicle class",
		Example: `  join quote --from -26.2041,28.0473 --to -26.1076,28.0567 --duration 20
  join quote --from -26.2041,28.0473 --to -26.1076,28.0567 --passengers 3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			origin, err := parsePoint(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			dest, err := parsePoint(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}

			req := pricing.QuoteRequest{Origin: origin, Destination: dest, Passengers: passengers}
			if cmd.Flags().Changed("duration") {
				req.DurationMin = &duration
			}
			var routes pricing.RouteEstimator
			if req.DurationMin == nil && cfg.Maps.APIKey != "" {
				rs, err := maps.NewRouteService(cfg.Maps.APIKey, "za")
				if err != nil {
					return err
				}
				routes = rs
			}

			q, err := pricing.NewService(nil, routes, cfg.Fare).Quote(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Printf("Distance %.2f km, duration %.0f min, %d passenger(s)\n\n", q.DistanceKm, q.DurationMin, q.Passengers)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CLASS\tTITLE\tFEE")
			for _, o := range q.Options {
				fmt.Fprintf(w, "%s\t%s\t%s\n", o.Class.Name, o.Class.Title, o.Fee)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "origin as lat,lng")
	cmd.Flags().StringVar(&to, "to", "", "destination as lat,lng")
	cmd.Flags().Float64Var(&duration, "duration", 0, "trip duration in minutes (looked up when omitted)")
	cmd.Flags().IntVar(&passengers, "passengers", 1, "passengers sharing the fare")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func parsePoint(s string) (types.Point, error) {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return types.Point{}, fmt.Errorf("want lat,lng, got %q", s)
	}
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return types.Point{}, err
	}
	ln, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return types.Point{}, err
	}
	p := types.Point{Lat: la, Lng: ln}
	if !p.Valid() {
		return types.Point{}, fmt.Errorf("coordinate out of range: %q", s)
	}
	return p, nil
}
