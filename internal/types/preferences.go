package types

import (
	"fmt"
	"strings"
)

// AgeGroup describes the traveler age brackets a trip caters to.
type AgeGroup string

const (
	AgeBaby    AgeGroup = "Baby (0-2)"
	AgeToddler AgeGroup = "Toddler (3-5)"
	AgeKid     AgeGroup = "Kid (6-12)"
	AgeTeen    AgeGroup = "Teen (13+)"
)

// IsValid checks if the age group is one of the known brackets.
func (a AgeGroup) IsValid() bool {
	switch a {
	case AgeBaby, AgeToddler, AgeKid, AgeTeen:
		return true
	}
	return false
}

// AgeGroups lists every valid bracket in display order.
func AgeGroups() []AgeGroup {
	return []AgeGroup{AgeBaby, AgeToddler, AgeKid, AgeTeen}
}

// StopType is a category of stop the traveler wants on the route. Generators
// may also emit free-text categories, so stops store plain strings; this
// enumeration covers the categories offered on the planning form.
type StopType string

const (
	StopRestaurant StopType = "Family-Friendly Dining"
	StopPlayground StopType = "Parks & Playgrounds"
	StopRestroom   StopType = "Clean Restroom Stops"
	StopMuseum     StopType = "Kid-Friendly Museums"
	StopActivity   StopType = "Active Fun (Zoos, Parks)"
	StopNecessity  StopType = "Supermarkets/Pharmacies"
	StopHotel      StopType = "Kid-Friendly Hotels & Stays"
	StopGasStation StopType = "Gas Stations & EV Charging"
)

// IsValid checks if the stop type is one of the known categories.
func (s StopType) IsValid() bool {
	switch s {
	case StopRestaurant, StopPlayground, StopRestroom, StopMuseum,
		StopActivity, StopNecessity, StopHotel, StopGasStation:
		return true
	}
	return false
}

// StopTypes lists every valid category in display order.
func StopTypes() []StopType {
	return []StopType{
		StopRestaurant, StopPlayground, StopRestroom, StopMuseum,
		StopActivity, StopNecessity, StopHotel, StopGasStation,
	}
}

// Preferences captures the planning form. A trip keeps the preferences it
// was generated from; they are never edited afterwards.
type Preferences struct {
	Source         string     `json:"source"`
	Destinations   []string   `json:"destinations"`
	AgeGroups      []AgeGroup `json:"ageGroups"`
	StopTypes      []StopType `json:"stopTypes"`
	StartDate      string     `json:"startDate"`
	StartTime      string     `json:"startTime"`
	DailyDriveLimit float64   `json:"dailyDriveLimit"` // hours of driving per day
	MaxLegDuration  float64   `json:"maxLegDuration"`  // hours before a mandatory break
}

// Validate checks the preferences are complete enough to plan from.
func (p *Preferences) Validate() error {
	if strings.TrimSpace(p.Source) == "" {
		return fmt.Errorf("starting location is required")
	}
	if len(p.Destinations) == 0 {
		return fmt.Errorf("at least one destination is required")
	}
	for i, d := range p.Destinations {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("destination %d is empty", i+1)
		}
	}
	for _, a := range p.AgeGroups {
		if !a.IsValid() {
			return fmt.Errorf("invalid age group: %s", a)
		}
	}
	for _, s := range p.StopTypes {
		if !s.IsValid() {
			return fmt.Errorf("invalid stop type: %s", s)
		}
	}
	if p.DailyDriveLimit <= 0 {
		return fmt.Errorf("daily drive limit must be positive (got %g)", p.DailyDriveLimit)
	}
	if p.MaxLegDuration <= 0 {
		return fmt.Errorf("max leg duration must be positive (got %g)", p.MaxLegDuration)
	}
	return nil
}

// Clone returns a deep copy of the preferences.
func (p *Preferences) Clone() *Preferences {
	if p == nil {
		return nil
	}
	out := *p
	out.Destinations = append([]string(nil), p.Destinations...)
	out.AgeGroups = append([]AgeGroup(nil), p.AgeGroups...)
	out.StopTypes = append([]StopType(nil), p.StopTypes...)
	return &out
}

// TripName derives the display name used for a generated trip:
// the city part of the origin and of the final destination.
func (p *Preferences) TripName() string {
	city := func(s string) string {
		if i := strings.Index(s, ","); i >= 0 {
			return strings.TrimSpace(s[:i])
		}
		return strings.TrimSpace(s)
	}
	last := p.Destinations[len(p.Destinations)-1]
	return fmt.Sprintf("%s to %s", city(p.Source), city(last))
}
