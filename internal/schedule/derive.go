package schedule

import (
	"fmt"
	"math"

	"github.com/tripcraft/tripcraft/internal/types"
)

// PositionedStop annotates a stop with its location in the itinerary, which
// mutations address positionally.
type PositionedStop struct {
	types.Stop
	DayIdx  int `json:"dayIdx"`
	StopIdx int `json:"stopIdx"`
}

// All views are recomputed from the trip on every call. They are cheap, and
// recomputing guarantees no view ever shows data from before the latest
// mutation.

// AllStops flattens the itinerary into day-then-stop order.
func AllStops(trip *types.Trip) []PositionedStop {
	var out []PositionedStop
	for i := range trip.Days {
		for j, stop := range trip.Days[i].Stops {
			out = append(out, PositionedStop{Stop: stop, DayIdx: i, StopIdx: j})
		}
	}
	return out
}

// SelectedStops returns the stops the traveler intends to visit, in
// itinerary order.
func SelectedStops(trip *types.Trip) []PositionedStop {
	var out []PositionedStop
	for _, s := range AllStops(trip) {
		if s.IsSelected {
			out = append(out, s)
		}
	}
	return out
}

// NextStop returns the first selected, not-yet-completed stop. It is only
// defined while the trip is being tracked; on a draft it returns nil.
func NextStop(trip *types.Trip) *PositionedStop {
	if !trip.IsActive {
		return nil
	}
	for _, s := range SelectedStops(trip) {
		if !s.IsCompleted {
			stop := s
			return &stop
		}
	}
	return nil
}

// Progress returns the percentage of selected stops completed, rounded to
// the nearest integer. A trip with no selected stops is 0% complete.
func Progress(trip *types.Trip) int {
	selected := SelectedStops(trip)
	if len(selected) == 0 {
		return 0
	}
	completed := 0
	for _, s := range selected {
		if s.IsCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(selected))))
}

// ActiveJourneyMinutes sums, over each day with at least one selected stop,
// the span from the day's start to the departure from its last selected stop.
// A day whose last selected stop departs before the day start contributes
// nothing rather than a negative span.
func ActiveJourneyMinutes(trip *types.Trip) int {
	total := 0
	for i := range trip.Days {
		day := &trip.Days[i]
		var last *types.Stop
		for j := range day.Stops {
			if day.Stops[j].IsSelected {
				last = &day.Stops[j]
			}
		}
		if last == nil {
			continue
		}
		duration := last.Duration
		if duration == 0 {
			duration = types.DefaultStopDuration
		}
		departure := TimeToMinutes(orDefault(last.Time)) + duration
		span := departure - TimeToMinutes(day.Start())
		if span > 0 {
			total += span
		}
	}
	return total
}

// ActiveJourneyDuration formats ActiveJourneyMinutes for display,
// e.g. "1h 45m active journey".
func ActiveJourneyDuration(trip *types.Trip) string {
	m := ActiveJourneyMinutes(trip)
	return fmt.Sprintf("%dh %dm active journey", m/60, m%60)
}

// Views bundles every derived projection for a single response payload.
type Views struct {
	AllStops       []PositionedStop `json:"allStops"`
	SelectedStops  []PositionedStop `json:"selectedStops"`
	NextStop       *PositionedStop  `json:"nextStop,omitempty"`
	Progress       int              `json:"progress"`
	JourneyMinutes int              `json:"journeyMinutes"`
	Journey        string           `json:"journey"`
}

// ComputeViews evaluates all projections against one trip snapshot.
func ComputeViews(trip *types.Trip) *Views {
	return &Views{
		AllStops:       AllStops(trip),
		SelectedStops:  SelectedStops(trip),
		NextStop:       NextStop(trip),
		Progress:       Progress(trip),
		JourneyMinutes: ActiveJourneyMinutes(trip),
		Journey:        ActiveJourneyDuration(trip),
	}
}
