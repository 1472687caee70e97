package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tripcraft/tripcraft/internal/types"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan a new trip with the AI collaborator",
	Long: `Generate a multi-day itinerary from your route and preferences.

Every generated stop starts selected; deselect the ones you want to skip
with 'tripcraft toggle', then 'tripcraft start' when you hit the road.

Examples:
  tripcraft plan --from "Seattle, WA" --to "Portland, OR"
  tripcraft plan --from "Munich" --to "Innsbruck" --to "Zurich" \
      --ages "Kid (6-12)" --stops "Parks & Playgrounds" \
      --date 2026-07-10 --drive-limit 5`,
	Run: func(cmd *cobra.Command, args []string) {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetStringArray("to")
		ages, _ := cmd.Flags().GetStringArray("ages")
		stops, _ := cmd.Flags().GetStringArray("stops")
		date, _ := cmd.Flags().GetString("date")
		start, _ := cmd.Flags().GetString("start")
		driveLimit, _ := cmd.Flags().GetFloat64("drive-limit")
		legLimit, _ := cmd.Flags().GetFloat64("leg-limit")

		prefs := &types.Preferences{
			Source:          from,
			Destinations:    to,
			StartDate:       date,
			StartTime:       start,
			DailyDriveLimit: driveLimit,
			MaxLegDuration:  legLimit,
		}
		for _, a := range ages {
			prefs.AgeGroups = append(prefs.AgeGroups, types.AgeGroup(a))
		}
		for _, s := range stops {
			prefs.StopTypes = append(prefs.StopTypes, types.StopType(s))
		}
		if err := prefs.Validate(); err != nil {
			fatal(err)
		}

		ctx := context.Background()
		fmt.Println("Planning your route, this can take a minute...")
		trip, err := getPlanner().GenerateTrip(ctx, prefs)
		if err != nil {
			fatal(err)
		}
		if err := sess.Adopt(ctx, trip); err != nil {
			fatal(err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Planned %s (%d stops over %d days)\n",
			green("✓"), trip.TripName, trip.StopCount(), len(trip.Days))

		// Packing list is best effort; a trip without one is still a trip.
		if list, err := getPlanner().GeneratePackingList(ctx, trip); err != nil {
			fmt.Fprintf(os.Stderr, "Note: packing list unavailable: %v\n", err)
		} else {
			if _, err := sess.Apply(ctx, func(t *types.Trip) (*types.Trip, error) {
				updated := t.Clone()
				updated.PackingList = list
				return updated, nil
			}); err != nil {
				fatal(err)
			}
			fmt.Printf("%s Packing list ready (%d items)\n", green("✓"), list.ItemCount())
		}

		printTrip(sess.Current())
	},
}

func init() {
	planCmd.Flags().String("from", "", "starting location (required)")
	planCmd.Flags().StringArray("to", nil, "destination, repeatable (required)")
	planCmd.Flags().StringArray("ages", nil, "traveler age bracket, repeatable")
	planCmd.Flags().StringArray("stops", nil, "preferred stop category, repeatable")
	planCmd.Flags().String("date", "", "start date (YYYY-MM-DD)")
	planCmd.Flags().String("start", types.DefaultDayStart, "daily start time (HH:MM)")
	planCmd.Flags().Float64("drive-limit", 6, "max driving hours per day")
	planCmd.Flags().Float64("leg-limit", 2, "max hours between stops")

	rootCmd.AddCommand(planCmd)
}
