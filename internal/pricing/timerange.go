package pricing

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeRange is a same-day [Start, End) window in minutes since midnight.
// Windows never wrap; a slot crossing midnight is represented by two
// separate schedule rows on consecutive days.
type TimeRange struct {
	Start int
	End   int
}

// ParseClock parses an "HH:MM" string into minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q; expected HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour*60 + minute, nil
}

// ParseRange parses the literal "HH:MM - HH:MM" form used across the API
// and stored on reserves.
func ParseRange(s string) (TimeRange, error) {
	parts := strings.Split(s, " - ")
	if len(parts) != 2 {
		return TimeRange{}, fmt.Errorf("invalid range %q; expected \"HH:MM - HH:MM\"", s)
	}
	start, err := ParseClock(parts[0])
	if err != nil {
		return TimeRange{}, err
	}
	end, err := ParseClock(parts[1])
	if err != nil {
		return TimeRange{}, err
	}
	return TimeRange{Start: start, End: end}, nil
}

// Contains reports whether other fits entirely inside r.
func (r TimeRange) Contains(other TimeRange) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// IsValidEndTime reports whether end is reachable from start when picking
// a slot. Hours 00-05 belong to the next calendar day: from an evening
// start any early-morning hour is a valid rollover end, but from an
// early-morning start the slot must finish before 06:00. The rollover is
// one-directional on purpose.
func IsValidEndTime(end, start string) bool {
	startMin, err := ParseClock(start)
	if err != nil {
		return false
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return false
	}
	startHour := startMin / 60
	endHour := endMin / 60

	if startHour <= 5 {
		return endHour > startHour && endHour <= 5
	}
	return endHour > startHour || endHour <= 5
}
