package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tripcraft/tripcraft/internal/schedule"
	"github.com/tripcraft/tripcraft/internal/types"
)

var startTimeCmd = &cobra.Command{
	Use:   "start-time <day> <HH:MM>",
	Short: "Shift a day's start time, moving every stop with it",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		day, err := strconv.Atoi(args[0])
		if err != nil {
			fatal(fmt.Errorf("not a day number: %q", args[0]))
		}
		currentTrip()
		updated, err := sess.Apply(context.Background(), func(t *types.Trip) (*types.Trip, error) {
			return schedule.SetDayStartTime(t, day-1, args[1])
		})
		if err != nil {
			fatal(err)
		}
		printTripDay(&updated.Days[day-1])
	},
}

var durationCmd = &cobra.Command{
	Use:   "duration <stop> <minutes>",
	Short: "Change a stop's duration, shifting the stops after it",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		minutes, err := strconv.Atoi(args[1])
		if err != nil {
			fatal(fmt.Errorf("not a number of minutes: %q", args[1]))
		}
		applyToStop(args[0], func(t *types.Trip, d, s int) (*types.Trip, error) {
			return schedule.SetStopDuration(t, d, s, minutes)
		})
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <stop>",
	Short: "Select or deselect a stop (draft trips only)",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fatal(fmt.Errorf("usage: tripcraft toggle <stop>"))
		}
		applyToStop(args[0], schedule.ToggleStopSelection)
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <stop>",
	Short: "Mark a stop completed (or uncomplete it)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		updated := applyToStop(args[0], schedule.ToggleStopCompletion)
		fmt.Printf("Progress: %d%%\n", schedule.Progress(updated))
	},
}

// applyToStop resolves the stop reference inside the mutation so the
// indices always match the trip being edited.
func applyToStop(ref string, op func(*types.Trip, int, int) (*types.Trip, error)) *types.Trip {
	currentTrip()
	updated, err := sess.Apply(context.Background(), func(t *types.Trip) (*types.Trip, error) {
		d, s := stopByRef(t, ref)
		return op(t, d, s)
	})
	if err != nil {
		fatal(err)
	}
	return updated
}

func init() {
	rootCmd.AddCommand(startTimeCmd)
	rootCmd.AddCommand(durationCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(doneCmd)
}
