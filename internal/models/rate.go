package models

import "time"

// Rate is a named price point: full court price plus the deposit required
// to confirm a reservation. ComplexID nil means the rate is global.
type Rate struct {
	ID                int64     `json:"id"`
	ComplexID         *int64    `json:"complex_id,omitempty"`
	Name              string    `json:"name"`
	Price             float64   `json:"price"`
	ReservationAmount float64   `json:"reservation_amount"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
