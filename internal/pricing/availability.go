package pricing

import (
	"time"

	"cancha/internal/models"
)

// DayStatus classifies a calendar date for a complex.
type DayStatus string

const (
	// DayOpen means the date accepts reservations.
	DayOpen DayStatus = "open"
	// DayBlocked means the date is in the unavailable-day list.
	DayBlocked DayStatus = "blocked"
	// DayClosed means the weekday is inactive (or its row is missing).
	DayClosed DayStatus = "closed"
)

const dateKeyLayout = "2006-01-02"

// DayCalendar answers whether a calendar date is bookable for a complex.
// It is built once per request from rows already fetched from storage.
type DayCalendar struct {
	complexID int64
	active    map[int]bool
	blocked   map[string]struct{}
}

// NewDayCalendar builds a calendar from the complex's schedule days and
// the unavailable-day list. Blocks scoped to other complexes are ignored;
// global blocks (nil ComplexID) always apply.
func NewDayCalendar(complexID int64, days []models.ScheduleDay, blocked []models.UnavailableDay) *DayCalendar {
	cal := &DayCalendar{
		complexID: complexID,
		active:    make(map[int]bool, len(days)),
		blocked:   make(map[string]struct{}, len(blocked)),
	}
	for _, d := range days {
		if d.ComplexID != complexID {
			continue
		}
		cal.active[d.DayOfWeek] = d.IsActive
	}
	for _, b := range blocked {
		if b.ComplexID != nil && *b.ComplexID != complexID {
			continue
		}
		cal.blocked[b.Date.Format(dateKeyLayout)] = struct{}{}
	}
	return cal
}

// Status classifies the date. Blocked dates win over the weekly flag.
// A missing schedule-day row reads as closed rather than an error; the
// seeding at complex creation should make that impossible.
func (c *DayCalendar) Status(date time.Time) DayStatus {
	if _, ok := c.blocked[date.Format(dateKeyLayout)]; ok {
		return DayBlocked
	}
	if !c.active[int(date.Weekday())] {
		return DayClosed
	}
	return DayOpen
}

// IsOpen reports whether the date accepts reservations.
func (c *DayCalendar) IsOpen(date time.Time) bool {
	return c.Status(date) == DayOpen
}
