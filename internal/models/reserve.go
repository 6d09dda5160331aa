package models

import "time"

// Reserve statuses. Kept in Spanish to stay wire-compatible with the
// existing client data.
const (
	StatusPendiente  = "PENDIENTE"
	StatusAprobado   = "APROBADO"
	StatusCancelado  = "CANCELADO"
	StatusCompletado = "COMPLETADO"
)

// Reserve is a booking record for a court on a specific date and window.
type Reserve struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"` // public UUID exposed to clients
	ComplexID   int64     `json:"complex_id"`
	CourtID     int64     `json:"court_id"`
	CustomerID  int64     `json:"customer_id"`
	PromotionID *int64    `json:"promotion_id,omitempty"`
	Date        time.Time `json:"date"`
	Schedule    string    `json:"schedule"` // matched window, "18:00 - 20:00"
	RateName    string    `json:"rate_name"`
	Price       float64   `json:"price"`    // final price after promotion
	Deposit     float64   `json:"deposit"`  // reservation amount to confirm
	Discount    float64   `json:"discount"` // applied discount, 0 if none
	Status      string    `json:"status"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int64     `json:"version"`
}

// IsActive reports whether the reserve still occupies its slot.
func (r *Reserve) IsActive() bool {
	return r.Status == StatusPendiente || r.Status == StatusAprobado
}

// CanTransitionTo reports whether a status change is legal.
// PENDIENTE may be approved or cancelled, APROBADO may be completed or
// cancelled; CANCELADO and COMPLETADO are terminal.
func (r *Reserve) CanTransitionTo(status string) bool {
	switch r.Status {
	case StatusPendiente:
		return status == StatusAprobado || status == StatusCancelado
	case StatusAprobado:
		return status == StatusCompletado || status == StatusCancelado
	default:
		return false
	}
}
