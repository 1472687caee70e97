package ai

import (
	"fmt"
	"strings"

	"github.com/tripcraft/tripcraft/internal/types"
)

func joinAgeGroups(groups []types.AgeGroup) string {
	if len(groups) == 0 {
		return "General family"
	}
	parts := make([]string, len(groups))
	for i, g := range groups {
		parts[i] = string(g)
	}
	return strings.Join(parts, ", ")
}

func joinStopTypes(kinds []types.StopType) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}

func buildTripPrompt(prefs *types.Preferences) string {
	var b strings.Builder
	b.WriteString("ACT AS: a family travel expert and logistical planner.\n")
	b.WriteString("TASK: plan a detailed, fun, and safe road trip itinerary.\n\n")
	fmt.Fprintf(&b, "ROUTE: starting from %q and visiting %q.\n",
		prefs.Source, strings.Join(prefs.Destinations, " then to "))
	fmt.Fprintf(&b, "START DATE: %s. START TIME: %s.\n", prefs.StartDate, prefs.StartTime)
	fmt.Fprintf(&b, "TRAVELERS: kids in these age groups: %s.\n", joinAgeGroups(prefs.AgeGroups))
	if len(prefs.StopTypes) > 0 {
		fmt.Fprintf(&b, "MUST-HAVE STOP CATEGORIES: %s.\n", joinStopTypes(prefs.StopTypes))
	}
	fmt.Fprintf(&b, "DRIVING LIMITS: at most %g hours of driving per day; a rest stop at least every %g hours.\n\n",
		prefs.DailyDriveLimit, prefs.MaxLegDuration)

	b.WriteString(`RULES, in priority order:
1. Only choose stops that are open during the suggested visit window.
2. Prefer well-reviewed, popular stops.
3. Estimate the driving time to the NEXT stop for every stop.
4. Provide latitude and longitude for every stop.
5. All "time" fields are 24-hour "HH:MM" (e.g. 09:15, 14:30).
6. Provide a realistic "duration" in minutes for every stop.
7. Give each day and each stop localized weather: temperature, an emoji
   weatherIcon, and a short weatherSummary. Vary it; do not repeat one
   forecast across a whole day.

Respond with ONLY a JSON object of this shape (no markdown, no commentary):
{
  "summary": string,
  "totalDistance": string,
  "totalDuration": string,
  "days": [{
    "dayNumber": int, "title": string, "daySummary": string,
    "date": "YYYY-MM-DD", "startTime": "HH:MM",
    "weatherSummary": string, "weatherIcon": string, "temperatureRange": string,
    "stops": [{
      "name": string, "type": string, "description": string, "address": string,
      "lat": number, "lng": number, "time": "HH:MM", "duration": int,
      "rating": number, "reviewCount": int, "reviewSnippet": string,
      "openingHours": string, "temperature": string, "weatherIcon": string,
      "weatherSummary": string, "driveTimeToNext": string
    }]
  }]
}`)
	return b.String()
}

func buildPackingPrompt(trip *types.Trip) string {
	var weather []string
	for _, day := range trip.Days {
		weather = append(weather, fmt.Sprintf("Day %d: %s (%s)", day.DayNumber, day.WeatherSummary, day.TemperatureRange))
	}
	ages := "General family"
	if trip.Preferences != nil {
		ages = joinAgeGroups(trip.Preferences.AgeGroups)
	}

	var b strings.Builder
	b.WriteString("ACT AS: a family travel organization expert.\n")
	b.WriteString("TASK: generate a comprehensive packing list for a road trip.\n\n")
	fmt.Fprintf(&b, "TRIP SUMMARY: %s\n", trip.Summary)
	fmt.Fprintf(&b, "WEATHER FORECAST: %s\n", strings.Join(weather, ", "))
	fmt.Fprintf(&b, "FAMILY AGES: %s\n\n", ages)
	b.WriteString(`CATEGORIES: Clothing, Kids Essentials, Car Gear, Health & Hygiene, Fun & Entertainment.

Respond with ONLY a JSON object (no markdown, no commentary):
{"categories": [{"name": string, "items": [{"name": string, "reason": string}]}]}`)
	return b.String()
}

func buildSuggestPrompt(input string) string {
	return fmt.Sprintf(`A traveler is typing a location into a road trip planner: %q.
Provide 5 diverse real-world location suggestions: a mix of street addresses,
famous landmarks, parks, and city names.
Respond with ONLY a JSON array of strings, for example:
["Central Park, New York, NY", "1600 Pennsylvania Avenue NW, Washington, DC", "Disneyland Park, Anaheim, CA"]`, input)
}
