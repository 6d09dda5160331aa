package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"cancha/internal/database"
	"cancha/internal/metrics"
)

// UnavailableDayRequest is the body for managing blocked dates.
// A nil complex_id blocks the date for every complex.
type UnavailableDayRequest struct {
	ComplexID *int64 `json:"complex_id,omitempty"`
	Date      string `json:"date"`
	Reason    string `json:"reason,omitempty"`
}

// ScheduleDayRequest toggles a weekday for a complex.
type ScheduleDayRequest struct {
	ComplexID int64 `json:"complex_id"`
	DayOfWeek int   `json:"day_of_week"` // 0-6 (Sunday-Saturday)
	Active    bool  `json:"active"`
}

// BlockCustomerRequest is the body for blocking a customer.
type BlockCustomerRequest struct {
	CustomerID int64  `json:"customer_id"`
	Reason     string `json:"reason"`
	BlockedBy  int64  `json:"blocked_by"`
}

// handleUnavailableDays adds (POST) or removes (DELETE) a blocked date.
// POST|DELETE /api/admin/unavailable-days
func (s *HTTPServer) handleUnavailableDays(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("admin_unavailable_days")

	var req UnavailableDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	date, ok := parseDateField(w, req.Date)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		if err := s.store.AddUnavailableDay(r.Context(), req.ComplexID, date, req.Reason); err != nil {
			s.log.Error().Err(err).Str("date", req.Date).Msg("Failed to add unavailable day")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	case http.MethodDelete:
		err := s.store.RemoveUnavailableDay(r.Context(), req.ComplexID, date)
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unavailable day not found")
			return
		}
		if err != nil {
			s.log.Error().Err(err).Str("date", req.Date).Msg("Failed to remove unavailable day")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST or DELETE")
		return
	}

	s.invalidateCatalog(r, req.ComplexID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleScheduleDays toggles a weekday activation flag.
// POST /api/admin/schedule-days
func (s *HTTPServer) handleScheduleDays(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("admin_schedule_days")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req ScheduleDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ComplexID <= 0 || req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		writeError(w, http.StatusBadRequest, "complex_id and day_of_week (0-6) are required")
		return
	}

	if err := s.store.ToggleScheduleDay(r.Context(), req.ComplexID, req.DayOfWeek, req.Active); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "schedule day not found")
			return
		}
		s.log.Error().Err(err).Int64("complex_id", req.ComplexID).Msg("Failed to toggle schedule day")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.catalog.Invalidate(r.Context(), req.ComplexID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleBlockCustomer adds a customer to the blocklist.
// POST /api/admin/customers/block
func (s *HTTPServer) handleBlockCustomer(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("admin_block_customer")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req BlockCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.CustomerID <= 0 {
		writeError(w, http.StatusBadRequest, "customer_id is required")
		return
	}

	if err := s.access.BlockCustomer(r.Context(), req.CustomerID, req.Reason, req.BlockedBy); err != nil {
		s.log.Error().Err(err).Int64("customer_id", req.CustomerID).Msg("Failed to block customer")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleUnblockCustomer removes a customer from the blocklist.
// POST /api/admin/customers/unblock
func (s *HTTPServer) handleUnblockCustomer(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("admin_unblock_customer")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req BlockCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.CustomerID <= 0 {
		writeError(w, http.StatusBadRequest, "customer_id is required")
		return
	}

	if err := s.access.UnblockCustomer(r.Context(), req.CustomerID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "customer is not blocked")
			return
		}
		s.log.Error().Err(err).Int64("customer_id", req.CustomerID).Msg("Failed to unblock customer")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleListBlocked lists blocked customers.
// GET /api/admin/customers/blocked
func (s *HTTPServer) handleListBlocked(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("admin_list_blocked")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	blocked, err := s.access.ListBlockedCustomers(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list blocked customers")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"blocked": blocked})
}

// invalidateCatalog drops cached calendars after a blocked-date change.
// A global block touches every complex, which the cache cannot enumerate,
// so only scoped blocks invalidate precisely; global ones rely on TTL.
func (s *HTTPServer) invalidateCatalog(r *http.Request, complexID *int64) {
	if complexID != nil {
		s.catalog.Invalidate(r.Context(), *complexID)
	}
}
