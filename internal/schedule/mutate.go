package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/tripcraft/tripcraft/internal/types"
)

// Sentinel errors for rejected mutations. The engine fails fast on malformed
// indices rather than silently returning the trip unchanged, so a caller bug
// surfaces as an error instead of a lost edit.
var (
	ErrDayOutOfRange  = errors.New("day index out of range")
	ErrStopOutOfRange = errors.New("stop index out of range")
	ErrTripActive     = errors.New("trip is being tracked; selection is locked")
)

// Every operation below is pure: the input trip is never modified, and the
// returned trip is a fresh deep copy with exactly one edit applied. Callers
// replace their current trip with the result and persist it.

// SetDayStartTime changes one day's start time and shifts every stop in that
// day by the same delta, preserving the stops' relative offsets. Other days
// are untouched. LastUpdated advances.
func SetDayStartTime(trip *types.Trip, dayIdx int, newTime string) (*types.Trip, error) {
	if dayIdx < 0 || dayIdx >= len(trip.Days) {
		return nil, fmt.Errorf("%w: day %d of %d", ErrDayOutOfRange, dayIdx, len(trip.Days))
	}

	out := trip.Clone()
	day := &out.Days[dayIdx]
	delta := TimeToMinutes(newTime) - TimeToMinutes(day.Start())
	day.StartTime = newTime
	for i := range day.Stops {
		stop := &day.Stops[i]
		stop.Time = MinutesToTime(TimeToMinutes(orDefault(stop.Time)) + delta)
	}
	out.LastUpdated = time.Now()
	return out, nil
}

// SetStopDuration changes how long the traveler lingers at one stop and
// pushes every later stop in the same day by the difference. Stops at or
// before the target, and all other days, keep their times: the model does
// not simulate travel time, so only downstream arrivals move. LastUpdated
// advances.
func SetStopDuration(trip *types.Trip, dayIdx, stopIdx, newDuration int) (*types.Trip, error) {
	if dayIdx < 0 || dayIdx >= len(trip.Days) {
		return nil, fmt.Errorf("%w: day %d of %d", ErrDayOutOfRange, dayIdx, len(trip.Days))
	}
	day := &trip.Days[dayIdx]
	if stopIdx < 0 || stopIdx >= len(day.Stops) {
		return nil, fmt.Errorf("%w: stop %d of %d on day %d", ErrStopOutOfRange, stopIdx, len(day.Stops), dayIdx+1)
	}
	if newDuration <= 0 {
		return nil, fmt.Errorf("duration must be positive (got %d)", newDuration)
	}

	out := trip.Clone()
	stops := out.Days[dayIdx].Stops
	prev := stops[stopIdx].Duration
	if prev == 0 {
		prev = types.DefaultStopDuration
	}
	delta := newDuration - prev
	stops[stopIdx].Duration = newDuration
	for i := stopIdx + 1; i < len(stops); i++ {
		stops[i].Time = MinutesToTime(TimeToMinutes(orDefault(stops[i].Time)) + delta)
	}
	out.LastUpdated = time.Now()
	return out, nil
}

// ToggleStopSelection flips whether the traveler intends to visit a stop.
// Selection is only editable on a draft; tracking freezes it. Deliberately
// does NOT advance LastUpdated: draft selection churn is not treated as an
// edit worth re-dating the trip over.
func ToggleStopSelection(trip *types.Trip, dayIdx, stopIdx int) (*types.Trip, error) {
	if trip.IsActive {
		return nil, ErrTripActive
	}
	if dayIdx < 0 || dayIdx >= len(trip.Days) {
		return nil, fmt.Errorf("%w: day %d of %d", ErrDayOutOfRange, dayIdx, len(trip.Days))
	}
	if stopIdx < 0 || stopIdx >= len(trip.Days[dayIdx].Stops) {
		return nil, fmt.Errorf("%w: stop %d of %d on day %d", ErrStopOutOfRange, stopIdx, len(trip.Days[dayIdx].Stops), dayIdx+1)
	}

	out := trip.Clone()
	stop := &out.Days[dayIdx].Stops[stopIdx]
	stop.IsSelected = !stop.IsSelected
	return out, nil
}

// ToggleStopCompletion flips whether a stop has been visited. Permitted in
// both draft and tracking mode; completion is independent of selection, and
// the derived views only ever count completion among selected stops.
// LastUpdated advances.
func ToggleStopCompletion(trip *types.Trip, dayIdx, stopIdx int) (*types.Trip, error) {
	if dayIdx < 0 || dayIdx >= len(trip.Days) {
		return nil, fmt.Errorf("%w: day %d of %d", ErrDayOutOfRange, dayIdx, len(trip.Days))
	}
	if stopIdx < 0 || stopIdx >= len(trip.Days[dayIdx].Stops) {
		return nil, fmt.Errorf("%w: stop %d of %d on day %d", ErrStopOutOfRange, stopIdx, len(trip.Days[dayIdx].Stops), dayIdx+1)
	}

	out := trip.Clone()
	stop := &out.Days[dayIdx].Stops[stopIdx]
	stop.IsCompleted = !stop.IsCompleted
	out.LastUpdated = time.Now()
	return out, nil
}

// SetActive starts or ends tracking. No other field changes: stops already
// selected stay selected, completions are kept so an interrupted trip can be
// resumed. LastUpdated advances.
func SetActive(trip *types.Trip, active bool) *types.Trip {
	out := trip.Clone()
	out.IsActive = active
	out.LastUpdated = time.Now()
	return out
}

// TogglePackingItem flips the packed flag on one packing-list item.
// LastUpdated advances.
func TogglePackingItem(trip *types.Trip, itemID string) (*types.Trip, error) {
	if trip.PackingList == nil {
		return nil, fmt.Errorf("trip has no packing list")
	}
	out := trip.Clone()
	item := out.PackingList.FindItem(itemID)
	if item == nil {
		return nil, fmt.Errorf("packing item %q not found", itemID)
	}
	item.IsPacked = !item.IsPacked
	out.LastUpdated = time.Now()
	return out, nil
}

func orDefault(t string) string {
	if t == "" {
		return types.DefaultDayStart
	}
	return t
}
