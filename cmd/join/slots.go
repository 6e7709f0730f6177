// README: slots command lists the time slots still bookable on a date.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"join/internal/modules/timeslot"
)

func slotsCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List the time slots still bookable on a date",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			loc := cfg.Location()
			now := time.Now().In(loc)
			if date == "" {
				date = timeslot.DateKey(now)
			}
			day, err := timeslot.ParseDate(date, loc)
			if err != nil {
				return err
			}

			open := timeslot.Available(day, now)
			fmt.Printf("%s (%s): %d of %d slots open\n", date, loc, len(open), len(timeslot.Catalog()))
			for _, s := range open {
				fmt.Println("  " + s.Label)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day as yyyy-MM-dd (default today)")
	return cmd
}
