// Package schedule is the trip-state engine: clock arithmetic, the pure
// mutation operations that keep an itinerary internally consistent, and the
// derived read-only views computed from it. Nothing in this package performs
// I/O; callers own persistence.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// defaultMinutes is 09:00, the fallback for empty or malformed clock labels.
// Itinerary times come from generator output and share payloads, so parsing
// degrades instead of erroring.
const defaultMinutes = 9 * 60

const minutesPerDay = 24 * 60

// TimeToMinutes parses an "HH:MM" label into minutes since midnight.
// Empty or unparseable input yields 09:00.
func TimeToMinutes(t string) int {
	if t == "" {
		return defaultMinutes
	}
	h, m, ok := strings.Cut(t, ":")
	if !ok {
		return defaultMinutes
	}
	hours, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return defaultMinutes
	}
	mins, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil {
		return defaultMinutes
	}
	return hours*60 + mins
}

// MinutesToTime formats minutes since midnight as a zero-padded "HH:MM",
// wrapping past midnight. Negative values wrap backwards, so shifting a
// 00:30 stop earlier by an hour lands on 23:30.
func MinutesToTime(m int) string {
	m %= minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
