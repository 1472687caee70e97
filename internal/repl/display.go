package repl

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/tripcraft/tripcraft/internal/schedule"
	"github.com/tripcraft/tripcraft/internal/types"
)

func (r *REPL) cmdShow(args []string) error {
	trip, err := r.currentTrip()
	if err != nil {
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	fmt.Printf("\n%s", bold(trip.TripName))
	if trip.IsActive {
		fmt.Printf("  %s", color.New(color.FgGreen).Sprint("[tracking]"))
	}
	fmt.Println()
	if trip.Summary != "" {
		fmt.Println(trip.Summary)
	}
	if trip.TotalDistance != "" || trip.TotalDuration != "" {
		fmt.Printf("%s  %s\n", trip.TotalDistance, trip.TotalDuration)
	}
	for i := range trip.Days {
		printDay(&trip.Days[i])
	}
	if len(trip.Sources) > 0 {
		faint := color.New(color.Faint).SprintFunc()
		fmt.Println()
		for _, src := range trip.Sources {
			fmt.Printf("  %s\n", faint(src.Title+" - "+src.URI))
		}
	}
	fmt.Println()
	return nil
}

func printDay(day *types.Day) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	title := fmt.Sprintf("Day %d", day.DayNumber)
	if day.Title != "" {
		title += ": " + day.Title
	}
	fmt.Printf("\n%s (starts %s)\n", cyan(title), day.Start())

	faint := color.New(color.Faint).SprintFunc()
	for i := range day.Stops {
		stop := &day.Stops[i]
		printStop(stop, faint)
	}
}

func printStop(stop *types.Stop, faint func(a ...interface{}) string) {
	mark := " "
	switch {
	case stop.IsCompleted:
		mark = color.New(color.FgGreen).Sprint("✓")
	case !stop.IsSelected:
		mark = faint("-")
	}
	line := fmt.Sprintf("  %s %s  %s (%dm)", mark, stop.Time, stop.Name, stop.Duration)
	if !stop.IsSelected {
		line = faint(line)
	}
	fmt.Println(line)
	if stop.Description != "" {
		fmt.Printf("      %s\n", faint(stop.Description))
	}
	if stop.DriveTimeToNext != "" {
		fmt.Printf("      %s\n", faint("drive "+stop.DriveTimeToNext))
	}
	fmt.Printf("      %s\n", faint("id "+stop.ID))
}

func printPackingList(list *types.PackingList) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	fmt.Printf("\n%s (%d of %d packed)\n", bold("Packing List"), list.PackedCount(), list.ItemCount())
	for _, cat := range list.Categories {
		fmt.Printf("\n  %s\n", bold(cat.Name))
		for _, item := range cat.Items {
			box := "[ ]"
			if item.IsPacked {
				box = green("[x]")
			}
			fmt.Printf("    %s %s", box, item.Name)
			if item.Reason != "" {
				fmt.Printf("  %s", faint(item.Reason))
			}
			fmt.Printf("  %s\n", faint("id "+item.ID))
		}
	}
	fmt.Println()
}

func (r *REPL) cmdStatus(args []string) error {
	trip, err := r.currentTrip()
	if err != nil {
		return err
	}
	views := schedule.ComputeViews(trip)

	bold := color.New(color.Bold).SprintFunc()
	fmt.Printf("\n%s\n", bold(trip.TripName))
	fmt.Printf("  Stops:    %d selected of %d\n", len(views.SelectedStops), len(views.AllStops))
	fmt.Printf("  Progress: %d%%\n", views.Progress)
	fmt.Printf("  Journey:  %s\n", views.Journey)
	if trip.IsActive {
		if views.NextStop != nil {
			fmt.Printf("  Next:     %s at %s\n", views.NextStop.Name, views.NextStop.Time)
		} else {
			fmt.Println("  Next:     all stops done")
		}
	} else {
		fmt.Println("  Tracking: off (use 'start')")
	}
	fmt.Println()
	return nil
}
