package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tripcraft/tripcraft/internal/schedule"
	"github.com/tripcraft/tripcraft/internal/types"
)

var packingCmd = &cobra.Command{
	Use:   "packing",
	Short: "Show the current trip's packing list",
	Run: func(cmd *cobra.Command, args []string) {
		trip := currentTrip()
		if trip.PackingList == nil {
			fmt.Println("No packing list yet. Try 'tripcraft packing gen'.")
			return
		}
		printPacking(trip.PackingList)
	},
}

var packingGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate (or regenerate) the packing list",
	Run: func(cmd *cobra.Command, args []string) {
		trip := currentTrip()
		ctx := context.Background()
		list, err := getPlanner().GeneratePackingList(ctx, trip)
		if err != nil {
			fatal(err)
		}
		if _, err := sess.Apply(ctx, func(t *types.Trip) (*types.Trip, error) {
			updated := t.Clone()
			updated.PackingList = list
			return updated, nil
		}); err != nil {
			fatal(err)
		}
		printPacking(list)
	},
}

var packCmd = &cobra.Command{
	Use:   "pack <item>",
	Short: "Check or uncheck a packing item",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		currentTrip()
		updated, err := sess.Apply(context.Background(), func(t *types.Trip) (*types.Trip, error) {
			return schedule.TogglePackingItem(t, args[0])
		})
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Packed %d of %d items\n",
			updated.PackingList.PackedCount(), updated.PackingList.ItemCount())
	},
}

func init() {
	packingCmd.AddCommand(packingGenCmd)
	rootCmd.AddCommand(packingCmd)
	rootCmd.AddCommand(packCmd)
}
