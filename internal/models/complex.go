package models

import "time"

// Complex represents a sports facility that owns courts, schedules and rates.
type Complex struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Court is a bookable playing field inside a complex.
type Court struct {
	ID        int64     `json:"id"`
	ComplexID int64     `json:"complex_id"`
	Name      string    `json:"name"`
	SportType string    `json:"sport_type"` // e.g. "futbol5", "futbol7", "padel"
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Customer is a person who books courts.
type Customer struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email,omitempty"`
	LastActivity time.Time `json:"last_activity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
