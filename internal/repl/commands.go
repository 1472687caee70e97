package repl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/tripcraft/tripcraft/internal/export"
	"github.com/tripcraft/tripcraft/internal/schedule"
	"github.com/tripcraft/tripcraft/internal/share"
	"github.com/tripcraft/tripcraft/internal/types"
)

func (r *REPL) currentTrip() (*types.Trip, error) {
	trip := r.sess.Current()
	if trip == nil {
		return nil, fmt.Errorf("no current trip (try 'plan' or 'open')")
	}
	return trip, nil
}

// resolveTrip accepts a 1-based list position or a trip id.
func resolveTrip(trips []*types.Trip, ref string) *types.Trip {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(trips) {
		return trips[n-1]
	}
	for _, t := range trips {
		if t.ID == ref {
			return t
		}
	}
	return nil
}

// resolveStop accepts a stop id or a "day.stop" pair of 1-based positions.
func resolveStop(trip *types.Trip, ref string) (dayIdx, stopIdx int, err error) {
	if stop, d, s := trip.FindStop(ref); stop != nil {
		return d, s, nil
	}
	if day, pos, found := strings.Cut(ref, "."); found {
		d, err1 := strconv.Atoi(day)
		s, err2 := strconv.Atoi(pos)
		if err1 == nil && err2 == nil {
			return d - 1, s - 1, nil
		}
	}
	return 0, 0, fmt.Errorf("no stop matching %q (use a stop id or day.stop like 2.3)", ref)
}

func (r *REPL) cmdPlan(args []string) error {
	prefs, err := r.collectPreferences()
	if err != nil {
		return err
	}

	fmt.Println("Planning your route, this can take a minute...")
	trip, err := r.gen.GenerateTrip(r.ctx, prefs)
	if err != nil {
		return err
	}
	if err := r.sess.Adopt(r.ctx, trip); err != nil {
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Planned %s (%d stops over %d days)\n",
		green("✓"), trip.TripName, trip.StopCount(), len(trip.Days))

	// Packing list is best effort; a trip without one is still a trip.
	if list, err := r.gen.GeneratePackingList(r.ctx, trip); err != nil {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("%s packing list unavailable: %v\n", yellow("Note:"), err)
	} else {
		if _, err := r.sess.Apply(r.ctx, func(t *types.Trip) (*types.Trip, error) {
			updated := t.Clone()
			updated.PackingList = list
			return updated, nil
		}); err != nil {
			return err
		}
		fmt.Printf("%s Packing list ready (%d items)\n", green("✓"), list.ItemCount())
	}

	return r.cmdShow(nil)
}

func (r *REPL) collectPreferences() (*types.Preferences, error) {
	origin, err := r.promptLine("Starting from: ")
	if err != nil {
		return nil, err
	}
	destLine, err := r.promptLine("Destinations (comma separated): ")
	if err != nil {
		return nil, err
	}
	var destinations []string
	for _, d := range strings.Split(destLine, ",") {
		if d = strings.TrimSpace(d); d != "" {
			destinations = append(destinations, d)
		}
	}

	ages, err := pickMany(r, "Traveler ages", toStrings(types.AgeGroups()))
	if err != nil {
		return nil, err
	}
	stops, err := pickMany(r, "Stop types", toStrings(types.StopTypes()))
	if err != nil {
		return nil, err
	}

	date, err := r.promptLine("Start date (YYYY-MM-DD, optional): ")
	if err != nil {
		return nil, err
	}
	start, err := r.promptLine("Daily start time [09:00]: ")
	if err != nil {
		return nil, err
	}
	if start == "" {
		start = types.DefaultDayStart
	}
	driveLimit, err := r.promptFloat("Max driving hours per day [6]: ", 6)
	if err != nil {
		return nil, err
	}
	legLimit, err := r.promptFloat("Max hours between stops [2]: ", 2)
	if err != nil {
		return nil, err
	}

	prefs := &types.Preferences{
		Source:          origin,
		Destinations:    destinations,
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
		return nil, err
	}
	return prefs, nil
}

func toStrings[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

// pickMany shows a numbered list and reads a comma-separated selection.
func pickMany(r *REPL, label string, options []string) ([]string, error) {
	fmt.Printf("%s:\n", label)
	for i, opt := range options {
		fmt.Printf("  %d. %s\n", i+1, opt)
	}
	line, err := r.promptLine("Pick numbers (comma separated, empty for none): ")
	if err != nil {
		return nil, err
	}
	var picked []string
	for _, part := range strings.Split(line, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 || n > len(options) {
			return nil, fmt.Errorf("invalid choice %q", part)
		}
		picked = append(picked, options[n-1])
	}
	return picked, nil
}

func (r *REPL) promptFloat(prompt string, fallback float64) (float64, error) {
	line, err := r.promptLine(prompt)
	if err != nil {
		return 0, err
	}
	if line == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", line)
	}
	return v, nil
}

func (r *REPL) cmdTrips(args []string) error {
	trips := r.sess.Trips()
	if len(trips) == 0 {
		fmt.Println("No saved trips yet. Try 'plan'.")
		return nil
	}
	current := r.sess.Current()
	for i, t := range trips {
		marker := " "
		if current != nil && t.ID == current.ID {
			marker = color.New(color.FgGreen).Sprint("*")
		}
		fmt.Printf("%s %d. %s  (%d days, updated %s)\n",
			marker, i+1, t.TripName, len(t.Days), t.LastUpdated.Format("2006-01-02 15:04"))
	}
	return nil
}

func (r *REPL) cmdOpen(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: open <n|id>")
	}
	trip := resolveTrip(r.sess.Trips(), args[0])
	if trip == nil {
		return fmt.Errorf("no trip matching %q", args[0])
	}
	if err := r.sess.SetCurrent(r.ctx, trip.ID); err != nil {
		return err
	}
	return r.cmdShow(nil)
}

func (r *REPL) cmdDelete(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <n|id>")
	}
	trip := resolveTrip(r.sess.Trips(), args[0])
	if trip == nil {
		return fmt.Errorf("no trip matching %q", args[0])
	}
	if err := r.sess.Delete(r.ctx, trip.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", trip.TripName)
	return nil
}

func (r *REPL) cmdStartTime(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: start-time <day> <HH:MM>")
	}
	day, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("not a day number: %q", args[0])
	}
	updated, err := r.sess.Apply(r.ctx, func(t *types.Trip) (*types.Trip, error) {
		return schedule.SetDayStartTime(t, day-1, args[1])
	})
	if err != nil {
		return err
	}
	printDay(&updated.Days[day-1])
	return nil
}

func (r *REPL) cmdDuration(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: duration <stop> <minutes>")
	}
	minutes, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("not a number of minutes: %q", args[1])
	}
	updated, err := r.applyToStop(args[0], func(t *types.Trip, d, s int) (*types.Trip, error) {
		return schedule.SetStopDuration(t, d, s, minutes)
	})
	if err != nil {
		return err
	}
	fmt.Printf("Updated schedule for %s\n", updated.TripName)
	return nil
}

func (r *REPL) cmdToggle(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: toggle <stop>")
	}
	_, err := r.applyToStop(args[0], schedule.ToggleStopSelection)
	return err
}

func (r *REPL) cmdDone(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: done <stop>")
	}
	updated, err := r.applyToStop(args[0], schedule.ToggleStopCompletion)
	if err != nil {
		return err
	}
	fmt.Printf("Progress: %d%%\n", schedule.Progress(updated))
	return nil
}

// applyToStop resolves a stop reference against the current trip inside the
// mutation, so the indices always match the trip being edited.
func (r *REPL) applyToStop(ref string, op func(*types.Trip, int, int) (*types.Trip, error)) (*types.Trip, error) {
	if _, err := r.currentTrip(); err != nil {
		return nil, err
	}
	return r.sess.Apply(r.ctx, func(t *types.Trip) (*types.Trip, error) {
		dayIdx, stopIdx, err := resolveStop(t, ref)
		if err != nil {
			return nil, err
		}
		return op(t, dayIdx, stopIdx)
	})
}

func (r *REPL) setActive(active bool) error {
	if _, err := r.currentTrip(); err != nil {
		return err
	}
	updated, err := r.sess.Apply(r.ctx, func(t *types.Trip) (*types.Trip, error) {
		return schedule.SetActive(t, active), nil
	})
	if err != nil {
		return err
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
	return nil
}

func (r *REPL) cmdStart(args []string) error { return r.setActive(true) }
func (r *REPL) cmdEnd(args []string) error   { return r.setActive(false) }

func (r *REPL) cmdPacking(args []string) error {
	trip, err := r.currentTrip()
	if err != nil {
		return err
	}
	if len(args) == 1 && args[0] == "gen" {
		list, err := r.gen.GeneratePackingList(r.ctx, trip)
		if err != nil {
			return err
		}
		if _, err := r.sess.Apply(r.ctx, func(t *types.Trip) (*types.Trip, error) {
			updated := t.Clone()
			updated.PackingList = list
			return updated, nil
		}); err != nil {
			return err
		}
		trip = r.sess.Current()
	}
	if trip.PackingList == nil {
		fmt.Println("No packing list yet. Try 'packing gen'.")
		return nil
	}
	printPackingList(trip.PackingList)
	return nil
}

func (r *REPL) cmdPack(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: pack <item>")
	}
	if _, err := r.currentTrip(); err != nil {
		return err
	}
	updated, err := r.sess.Apply(r.ctx, func(t *types.Trip) (*types.Trip, error) {
		return schedule.TogglePackingItem(t, args[0])
	})
	if err != nil {
		return err
	}
	fmt.Printf("Packed %d of %d items\n",
		updated.PackingList.PackedCount(), updated.PackingList.ItemCount())
	return nil
}

func (r *REPL) cmdShare(args []string) error {
	trip, err := r.currentTrip()
	if err != nil {
		return err
	}
	if len(args) == 2 && args[0] == "qr" {
		if err := share.WriteQRFile(r.shareBase, trip, 512, args[1]); err != nil {
			return err
		}
		fmt.Printf("QR code written to %s\n", args[1])
		return nil
	}
	url, err := share.URL(r.shareBase, trip)
	if err != nil {
		return err
	}
	fmt.Println(url)
	return nil
}

func (r *REPL) cmdImport(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: import <payload|url>")
	}
	trip, err := r.sess.ImportShared(r.ctx, share.PayloadFromURL(args[0]))
	if err != nil {
		return err
	}
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Imported %s\n", green("✓"), trip.TripName)
	return r.cmdShow(nil)
}

func (r *REPL) cmdExport(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: export <file.pdf>")
	}
	trip, err := r.currentTrip()
	if err != nil {
		return err
	}
	if err := export.WriteFile(trip, r.shareBase, args[0]); err != nil {
		return err
	}
	fmt.Printf("Itinerary written to %s\n", args[0])
	return nil
}

func (r *REPL) cmdSuggest(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: suggest <partial place name>")
	}
	input := strings.Join(args, " ")
	if r.suggester == nil {
		return fmt.Errorf("suggestions are not configured")
	}
	// Debounced: a quick follow-up 'suggest' supersedes this one.
	r.suggester.Query(r.ctx, input, func(query string, places []string, err error) {
		if err != nil {
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("\n%s suggestions for %q: %v\n", red("Error:"), query, err)
			return
		}
		if len(places) == 0 {
			fmt.Printf("\nNo suggestions for %q\n", query)
			return
		}
		fmt.Printf("\nSuggestions for %q:\n", query)
		for _, p := range places {
			fmt.Printf("  %s\n", p)
		}
	})
	return nil
}
