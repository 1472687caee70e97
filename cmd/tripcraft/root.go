package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tripcraft/tripcraft/internal/ai"
	"github.com/tripcraft/tripcraft/internal/config"
	"github.com/tripcraft/tripcraft/internal/session"
	"github.com/tripcraft/tripcraft/internal/storage"
	"github.com/tripcraft/tripcraft/internal/storage/sqlite"
	"github.com/tripcraft/tripcraft/internal/types"
)

var (
	cfg   *config.Config
	store storage.Storage
	sess  *session.Session

	// planner is built lazily; commands that never touch a provider work
	// without an API key.
	planner ai.Generator

	dbFlag       string
	providerFlag string
	modelFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "tripcraft",
	Short: "AI road-trip itinerary planner",
	Long: `tripcraft plans multi-day family road trips with an AI collaborator
and keeps every itinerary editable, trackable, and shareable.

Start with 'tripcraft plan' to generate a trip, then refine it:
shift day start times, resize stops, pick which stops to keep.
'tripcraft start' switches to tracking mode on the road.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initSession()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			store.Close()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "planning backend (anthropic or gemini)")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "model override")
}

func initSession() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fatal(err)
	}
	if dbFlag != "" {
		cfg.DBPath = dbFlag
	}
	if providerFlag != "" {
		cfg.Provider = providerFlag
	}
	if modelFlag != "" {
		cfg.Model = modelFlag
	}

	store, err = sqlite.New(cfg.DBPath)
	if err != nil {
		fatal(fmt.Errorf("opening trip database: %w", err))
	}

	sess = session.New(store)
	if err := sess.Load(context.Background()); err != nil {
		fatal(err)
	}
}

// getPlanner builds the provider client on first use.
func getPlanner() ai.Generator {
	if planner != nil {
		return planner
	}
	p, err := ai.NewPlanner(&ai.Config{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey,
		Model:    cfg.Model,
		Retry:    cfg.Retry,
	})
	if err != nil {
		fatal(err)
	}
	planner = p
	return planner
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// currentTrip returns the current trip or exits with guidance.
func currentTrip() *types.Trip {
	trip := sess.Current()
	if trip == nil {
		fatal(fmt.Errorf("no current trip (run 'tripcraft plan' or 'tripcraft open')"))
	}
	return trip
}

// tripByRef resolves a 1-based list position or a trip id.
func tripByRef(ref string) *types.Trip {
	trips := sess.Trips()
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(trips) {
		return trips[n-1]
	}
	for _, t := range trips {
		if t.ID == ref {
			return t
		}
	}
	fatal(fmt.Errorf("no trip matching %q (see 'tripcraft trips')", ref))
	return nil
}

// stopByRef resolves a stop id or a "day.stop" pair of 1-based positions
// against a trip.
func stopByRef(trip *types.Trip, ref string) (dayIdx, stopIdx int) {
	if stop, d, s := trip.FindStop(ref); stop != nil {
		return d, s
	}
	if day, pos, found := strings.Cut(ref, "."); found {
		d, err1 := strconv.Atoi(day)
		s, err2 := strconv.Atoi(pos)
		if err1 == nil && err2 == nil {
			return d - 1, s - 1
		}
	}
	fatal(fmt.Errorf("no stop matching %q (use a stop id or day.stop like 2.3)", ref))
	return 0, 0
}
