package models

import "time"

// ScheduleDay is the weekly activation flag for a complex.
// Exactly one row exists per (complex, day_of_week); all seven are seeded
// inactive when the complex is created.
type ScheduleDay struct {
	ID        int64     `json:"id"`
	ComplexID int64     `json:"complex_id"`
	DayOfWeek int       `json:"day_of_week"` // 0-6 (Sunday-Saturday)
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UnavailableDay blocks a specific calendar date for reservations.
// ComplexID nil means the block applies to every complex.
type UnavailableDay struct {
	ID        int64     `json:"id"`
	ComplexID *int64    `json:"complex_id,omitempty"`
	Date      time.Time `json:"date"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Schedule is a recurring weekly booking window bound to a ScheduleDay.
// Windows never cross midnight; an evening-to-morning opening is modeled
// as two rows attached to consecutive days.
type Schedule struct {
	ID            int64   `json:"id"`
	ScheduleDayID int64   `json:"schedule_day_id"`
	ComplexID     int64   `json:"complex_id"`
	DayOfWeek     int     `json:"day_of_week"`
	DayActive     bool    `json:"day_active"`
	StartTime     string  `json:"start_time"` // "18:00"
	EndTime       string  `json:"end_time"`   // "23:00"
	SportType     string  `json:"sport_type"`
	CourtIDs      []int64 `json:"court_ids,omitempty"`
	Rates         []Rate  `json:"rates"` // ordered; position 0 is the rate the resolver picks
}

// Window returns the window in the "HH:MM - HH:MM" form used on reserves.
func (s *Schedule) Window() string {
	return s.StartTime + " - " + s.EndTime
}
