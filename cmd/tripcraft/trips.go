package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var tripsCmd = &cobra.Command{
	Use:   "trips",
	Short: "List saved trips",
	Run: func(cmd *cobra.Command, args []string) {
		trips := sess.Trips()
		if len(trips) == 0 {
			fmt.Println("No saved trips yet. Try 'tripcraft plan'.")
			return
		}
		current := sess.Current()
		for i, t := range trips {
			marker := " "
			if current != nil && t.ID == current.ID {
				marker = color.New(color.FgGreen).Sprint("*")
			}
			fmt.Printf("%s %d. %s  (%d days, updated %s)\n",
				marker, i+1, t.TripName, len(t.Days), t.LastUpdated.Format("2006-01-02 15:04"))
			fmt.Printf("     id %s\n", t.ID)
		}
	},
}

var openCmd = &cobra.Command{
	Use:   "open <n|id>",
	Short: "Switch to a saved trip",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		trip := tripByRef(args[0])
		if err := sess.SetCurrent(context.Background(), trip.ID); err != nil {
			fatal(err)
		}
		printTrip(sess.Current())
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current itinerary",
	Run: func(cmd *cobra.Command, args []string) {
		printTrip(currentTrip())
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Progress, next stop, and journey time",
	Run: func(cmd *cobra.Command, args []string) {
		printStatus(currentTrip())
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <n|id>",
	Short: "Delete a saved trip",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		trip := tripByRef(args[0])
		if err := sess.Delete(context.Background(), trip.ID); err != nil {
			fatal(err)
		}
		fmt.Printf("Deleted %s\n", trip.TripName)
	},
}

func init() {
	rootCmd.AddCommand(tripsCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(deleteCmd)
}
