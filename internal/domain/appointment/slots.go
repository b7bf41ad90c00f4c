package appointment

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time normalized to "HH:MM:SS". The fixed-width
// form makes lexicographic comparison equivalent to chronological comparison.
type TimeOfDay string

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS" and normalizes to "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	layouts := []string{"15:04:05", "15:04"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay(t.Format("15:04:05")), nil
		}
	}
	return "", fmt.Errorf("invalid time of day %q: expected HH:MM or HH:MM:SS", s)
}

func (t TimeOfDay) String() string { return string(t) }

func (t TimeOfDay) Before(o TimeOfDay) bool { return t < o }

func (t TimeOfDay) After(o TimeOfDay) bool { return t > o }

// Business hours for booking. Both bounds are inclusive: a 17:00:00
// appointment is accepted, 17:00:01 is not.
const (
	OpeningTime TimeOfDay = "09:00:00"
	ClosingTime TimeOfDay = "17:00:00"
)

// WithinBusinessHours reports whether t falls inside [OpeningTime, ClosingTime].
func (t TimeOfDay) WithinBusinessHours() bool {
	return !t.Before(OpeningTime) && !t.After(ClosingTime)
}

// DailySlots is the fixed bookable slot catalog: six one-hour slots with a
// lunch gap between 11:00 and 13:00. The catalog deliberately stops before
// the 17:00 closing bound, matching the clinic's walk-in policy: the late
// afternoon is reserved for directly arranged appointments.
func DailySlots() []TimeOfDay {
	return []TimeOfDay{
		"09:00:00",
		"10:00:00",
		"11:00:00",
		"13:00:00",
		"14:00:00",
		"15:00:00",
	}
}

// AvailableSlots returns the catalog minus the occupied times, preserving
// catalog order. Occupied times outside the catalog are ignored.
func AvailableSlots(occupied []TimeOfDay) []TimeOfDay {
	taken := make(map[TimeOfDay]struct{}, len(occupied))
	for _, t := range occupied {
		taken[t] = struct{}{}
	}

	available := make([]TimeOfDay, 0, 6)
	for _, slot := range DailySlots() {
		if _, ok := taken[slot]; !ok {
			available = append(available, slot)
		}
	}
	return available
}

// ParseDate parses an ISO "YYYY-MM-DD" date into a UTC midnight timestamp.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// Today returns the current date truncated to UTC midnight, for past-date checks.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
