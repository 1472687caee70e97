// Package types defines the core data model for tripcraft: trips, days,
// stops, traveler preferences, and packing lists. The model is deliberately
// dependency-free; all behavior that changes a trip lives in the schedule
// engine, which treats these values as immutable inputs.
package types

import (
	"fmt"
	"time"
)

// Stop is a single point of interest on the itinerary.
type Stop struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"` // a StopType value or free text from the generator
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`

	// Lat and Lng are both set or both absent.
	Lat *float64 `json:"lat,omitempty"`
	Lng *float64 `json:"lng,omitempty"`

	// Time is the scheduled arrival as a local "HH:MM" clock label.
	Time string `json:"time,omitempty"`
	// Duration is the planned stay in minutes. Zero means unset; the
	// schedule engine treats unset as DefaultStopDuration.
	Duration int `json:"duration,omitempty"`

	Rating        float64 `json:"rating,omitempty"`
	ReviewCount   int     `json:"reviewCount,omitempty"`
	ReviewSnippet string  `json:"reviewSnippet,omitempty"`
	Price         string  `json:"price,omitempty"`
	OpeningHours  string  `json:"openingHours,omitempty"`

	Temperature    string `json:"temperature,omitempty"`
	WeatherIcon    string `json:"weatherIcon,omitempty"`
	WeatherSummary string `json:"weatherSummary,omitempty"`

	DriveTimeToNext string `json:"driveTimeToNext,omitempty"`

	// IsSelected marks a stop the traveler intends to visit; editable only
	// while the trip is a draft. IsCompleted marks an actual visit and is
	// only meaningful while the trip is being tracked.
	IsSelected  bool `json:"isSelected"`
	IsCompleted bool `json:"isCompleted"`
}

// DefaultStopDuration is assumed for stops the generator left without an
// explicit stay length.
const DefaultStopDuration = 30

// DefaultDayStart is assumed when a day has no start time.
const DefaultDayStart = "09:00"

// Day is one itinerary day. Stop order is load-bearing: it is the order of
// travel, and the engine assumes it matches chronological order.
type Day struct {
	DayNumber  int    `json:"dayNumber"` // 1-based, must equal position+1
	Title      string `json:"title"`
	DaySummary string `json:"daySummary,omitempty"`
	Date       string `json:"date,omitempty"`
	StartTime  string `json:"startTime,omitempty"`
	Stops      []Stop `json:"stops"`

	WeatherSummary   string `json:"weatherSummary,omitempty"`
	WeatherIcon      string `json:"weatherIcon,omitempty"`
	TemperatureRange string `json:"temperatureRange,omitempty"`
}

// Start returns the day's start time, defaulted when absent.
func (d *Day) Start() string {
	if d.StartTime == "" {
		return DefaultDayStart
	}
	return d.StartTime
}

// Source is a grounding reference surfaced by the generator.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Trip is the complete multi-day itinerary, draft or actively tracked.
type Trip struct {
	ID            string       `json:"id"`
	TripName      string       `json:"tripName"`
	Summary       string       `json:"summary,omitempty"`
	TotalDistance string       `json:"totalDistance,omitempty"`
	TotalDuration string       `json:"totalDuration,omitempty"`
	Days          []Day        `json:"days"`
	LastUpdated   time.Time    `json:"lastUpdated"`
	IsActive      bool         `json:"isActive"`
	PackingList   *PackingList `json:"packingList,omitempty"`
	Preferences   *Preferences `json:"preferences,omitempty"`
	Sources       []Source     `json:"sources,omitempty"`
}

// Validate checks the trip's structural invariants. It is called on every
// trip that crosses a trust boundary (generator output, decoded share
// payloads, rows loaded from storage).
func (t *Trip) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("trip id is required")
	}
	if t.TripName == "" {
		return fmt.Errorf("trip name is required")
	}
	seen := make(map[string]bool)
	for i := range t.Days {
		day := &t.Days[i]
		if day.DayNumber != i+1 {
			return fmt.Errorf("day %d has number %d; days must be numbered contiguously from 1", i+1, day.DayNumber)
		}
		for j := range day.Stops {
			stop := &day.Stops[j]
			if stop.ID == "" {
				return fmt.Errorf("day %d stop %d has no id", i+1, j)
			}
			if seen[stop.ID] {
				return fmt.Errorf("duplicate stop id %q", stop.ID)
			}
			seen[stop.ID] = true
			if stop.Duration < 0 {
				return fmt.Errorf("stop %q has negative duration %d", stop.ID, stop.Duration)
			}
			if (stop.Lat == nil) != (stop.Lng == nil) {
				return fmt.Errorf("stop %q has only one coordinate; lat and lng must be set together", stop.ID)
			}
		}
	}
	return nil
}

// Clone returns a deep copy. The schedule engine mutates copies only, so the
// caller's trip is never touched.
func (t *Trip) Clone() *Trip {
	if t == nil {
		return nil
	}
	out := *t
	out.Days = make([]Day, len(t.Days))
	for i, day := range t.Days {
		cd := day
		cd.Stops = make([]Stop, len(day.Stops))
		for j, stop := range day.Stops {
			cs := stop
			if stop.Lat != nil {
				lat := *stop.Lat
				cs.Lat = &lat
			}
			if stop.Lng != nil {
				lng := *stop.Lng
				cs.Lng = &lng
			}
			cd.Stops[j] = cs
		}
		out.Days[i] = cd
	}
	if t.Sources != nil {
		out.Sources = append([]Source(nil), t.Sources...)
	}
	if t.Preferences != nil {
		p := t.Preferences.Clone()
		out.Preferences = p
	}
	if t.PackingList != nil {
		out.PackingList = t.PackingList.Clone()
	}
	return &out
}

// FindStop returns the stop with the given id along with its day and in-day
// indices, or nil if no stop matches.
func (t *Trip) FindStop(id string) (*Stop, int, int) {
	for i := range t.Days {
		for j := range t.Days[i].Stops {
			if t.Days[i].Stops[j].ID == id {
				return &t.Days[i].Stops[j], i, j
			}
		}
	}
	return nil, -1, -1
}

// StopCount returns the total number of stops across all days.
func (t *Trip) StopCount() int {
	n := 0
	for i := range t.Days {
		n += len(t.Days[i].Stops)
	}
	return n
}
