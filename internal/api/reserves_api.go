package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"cancha/internal/metrics"
	"cancha/internal/models"
	"cancha/internal/service"
)

// QuoteRequest is the request body for POST /api/quote.
type QuoteRequest struct {
	ComplexID   int64  `json:"complex_id"`
	Date        string `json:"date"`  // YYYY-MM-DD
	Range       string `json:"range"` // "18:00 - 20:00"
	PromotionID *int64 `json:"promotion_id,omitempty"`
}

// CreateReserveRequest is the request body for POST /api/reserves.
type CreateReserveRequest struct {
	ComplexID   int64  `json:"complex_id"`
	CourtID     int64  `json:"court_id"`
	CustomerID  int64  `json:"customer_id"`
	PromotionID *int64 `json:"promotion_id,omitempty"`
	Date        string `json:"date"`
	Range       string `json:"range"`
	Comment     string `json:"comment,omitempty"`
}

// UpdateStatusRequest is the request body for POST /api/reserves/{code}/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// handleQuote prices a slot without creating a reserve.
// POST /api/quote
func (s *HTTPServer) handleQuote(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("quote")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req QuoteRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	date, ok := parseDateField(w, req.Date)
	if !ok {
		return
	}

	quote, err := s.booking.Quote(r.Context(), req.ComplexID, date, req.Range, req.PromotionID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quote)
}

// handleReserves creates a reserve.
// POST /api/reserves
func (s *HTTPServer) handleReserves(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("reserves")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req CreateReserveRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.ComplexID <= 0 || req.CourtID <= 0 || req.CustomerID <= 0 {
		writeError(w, http.StatusBadRequest, "complex_id, court_id and customer_id are required")
		return
	}

	date, ok := parseDateField(w, req.Date)
	if !ok {
		return
	}

	reserve, err := s.booking.CreateReserve(r.Context(), service.CreateReserveRequest{
		ComplexID:   req.ComplexID,
		CourtID:     req.CourtID,
		CustomerID:  req.CustomerID,
		PromotionID: req.PromotionID,
		Date:        date,
		Range:       req.Range,
		Comment:     req.Comment,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, reserve)
}

// handleReserveByCode serves GET /api/reserves/{code} and
// POST /api/reserves/{code}/status.
func (s *HTTPServer) handleReserveByCode(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/reserves/")
	if rest == "" {
		writeError(w, http.StatusBadRequest, "reserve code is required")
		return
	}

	if code, found := strings.CutSuffix(rest, "/status"); found {
		s.handleUpdateStatus(w, r, code)
		return
	}

	metrics.IncHTTP("reserve_get")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	reserve, err := s.booking.GetReserve(r.Context(), rest)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reserve)
}

func (s *HTTPServer) handleUpdateStatus(w http.ResponseWriter, r *http.Request, code string) {
	metrics.IncHTTP("reserve_status")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}
	if code == "" {
		writeError(w, http.StatusBadRequest, "reserve code is required")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if !validStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	reserve, err := s.booking.UpdateStatus(r.Context(), code, req.Status)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reserve)
}

func validStatus(status string) bool {
	switch status {
	case models.StatusAprobado, models.StatusCancelado, models.StatusCompletado:
		return true
	default:
		return false
	}
}

func parseDateField(w http.ResponseWriter, value string) (time.Time, bool) {
	if value == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return time.Time{}, false
	}
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}
