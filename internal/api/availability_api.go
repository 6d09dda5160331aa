package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cancha/internal/metrics"
	"cancha/internal/pricing"
)

// MaxAvailabilityDaysRange caps the span of an availability request.
const MaxAvailabilityDaysRange = 90

const dateLayout = "2006-01-02"

// AvailabilityRequest is the request body for POST /api/availability.
type AvailabilityRequest struct {
	ComplexID int64  `json:"complex_id"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

// DateAvailability is the bookability of one date.
type DateAvailability struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"` // "blocked", "closed"
}

// AvailabilityResponse is the response for POST /api/availability.
type AvailabilityResponse struct {
	ComplexID int64              `json:"complex_id"`
	Days      []DateAvailability `json:"days"`
	Period    struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"period"`
}

// handleAvailability classifies each date in a range as open, blocked
// or closed for a complex.
// POST /api/availability
func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req AvailabilityRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	start, end, err := validateAvailabilityRequest(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	calendar, err := s.catalog.Calendar(r.Context(), req.ComplexID)
	if err != nil {
		s.log.Error().Err(err).Int64("complex_id", req.ComplexID).Msg("Failed to load calendar")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	days := make([]DateAvailability, 0, MaxAvailabilityDaysRange)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		status := calendar.Status(d)
		day := DateAvailability{
			Date:      d.Format(dateLayout),
			Available: status == pricing.DayOpen,
		}
		if status != pricing.DayOpen {
			day.Reason = string(status)
		}
		days = append(days, day)
	}

	resp := AvailabilityResponse{ComplexID: req.ComplexID, Days: days}
	resp.Period.Start = req.StartDate
	resp.Period.End = req.EndDate

	writeJSON(w, http.StatusOK, resp)
}

func validateAvailabilityRequest(req *AvailabilityRequest) (start, end time.Time, err error) {
	if req.ComplexID <= 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("complex_id is required")
	}
	if req.StartDate == "" || req.EndDate == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date and end_date are required")
	}

	start, err = time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date format; expected YYYY-MM-DD")
	}

	end, err = time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date format; expected YYYY-MM-DD")
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date must be before or equal to end_date")
	}

	if int(end.Sub(start).Hours()/24) > MaxAvailabilityDaysRange {
		return time.Time{}, time.Time{}, fmt.Errorf("date range exceeds maximum of %d days", MaxAvailabilityDaysRange)
	}

	return start, end, nil
}
