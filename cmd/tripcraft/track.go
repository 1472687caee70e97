package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tripcraft/tripcraft/internal/schedule"
	"github.com/tripcraft/tripcraft/internal/types"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start tracking the current trip",
	Long: `Switch the current trip into tracking mode.

While tracking, stop selection is locked; completion toggles stay
available so you can check off stops as you reach them.`,
	Run: func(cmd *cobra.Command, args []string) {
		setActive(true)
	},
}

var endCmd = &cobra.Command{
	Use:   "end",
	Short: "End tracking and return to draft mode",
	Run: func(cmd *cobra.Command, args []string) {
		setActive(false)
	},
}

func setActive(active bool) {
	currentTrip()
	updated, err := sess.Apply(context.Background(), func(t *types.Trip) (*types.Trip, error) {
		return schedule.SetActive(t, active), nil
	})
	if err != nil {
		fatal(err)
	}

	green := color.New(color.FgGreen).SprintFunc()
	if active {
		fmt.Printf("%s Trip started. Safe travels!\n", green("✓"))
		if next := schedule.NextStop(updated); next != nil {
			fmt.Printf("Next stop: %s at %s\n", next.Name, next.Time)
		}
	} else {
		fmt.Printf("%s Trip ended. Progress was %d%%.\n", green("✓"), schedule.Progress(updated))
	}
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(endCmd)
}
