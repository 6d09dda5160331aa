package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"cancha/internal/database"
	"cancha/internal/models"
	"cancha/internal/pricing"
	"cancha/internal/service"
	"cancha/shared/access"
)

// Config holds HTTP server settings.
type Config struct {
	Addr               string
	APIKeys            []string // keys accepted on admin routes
	RateLimitPerSecond float64
	RateLimitBurst     int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
}

// Booking is the reserve flow surface the server exposes.
type Booking interface {
	Quote(ctx context.Context, complexID int64, date time.Time, rangeStr string, promotionID *int64) (*service.QuoteResult, error)
	CreateReserve(ctx context.Context, req service.CreateReserveRequest) (*models.Reserve, error)
	UpdateStatus(ctx context.Context, code, status string) (*models.Reserve, error)
	GetReserve(ctx context.Context, code string) (*models.Reserve, error)
}

// CatalogSource serves day calendars and handles invalidation after
// admin changes.
type CatalogSource interface {
	Calendar(ctx context.Context, complexID int64) (*pricing.DayCalendar, error)
	Invalidate(ctx context.Context, complexID int64)
}

// AdminStore mutates schedule configuration.
type AdminStore interface {
	ToggleScheduleDay(ctx context.Context, complexID int64, dayOfWeek int, active bool) error
	AddUnavailableDay(ctx context.Context, complexID *int64, date time.Time, reason string) error
	RemoveUnavailableDay(ctx context.Context, complexID *int64, date time.Time) error
}

// AccessAdmin manages the customer blocklist.
type AccessAdmin interface {
	BlockCustomer(ctx context.Context, customerID int64, reason string, blockedBy int64) error
	UnblockCustomer(ctx context.Context, customerID int64) error
	ListBlockedCustomers(ctx context.Context) ([]access.BlockedCustomer, error)
}

// HTTPServer exposes the booking API.
type HTTPServer struct {
	cfg     Config
	booking Booking
	catalog CatalogSource
	store   AdminStore
	access  AccessAdmin
	log     zerolog.Logger

	srv *http.Server

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewHTTPServer creates the server with all routes registered.
func NewHTTPServer(cfg Config, booking Booking, catalog CatalogSource, store AdminStore, accessAdmin AccessAdmin, logger zerolog.Logger) *HTTPServer {
	if cfg.RateLimitPerSecond <= 0 {
		cfg.RateLimitPerSecond = 10
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 20
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}

	s := &HTTPServer{
		cfg:      cfg,
		booking:  booking,
		catalog:  catalog,
		store:    store,
		access:   accessAdmin,
		log:      logger.With().Str("component", "api").Logger(),
		limiters: make(map[string]*rate.Limiter),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/availability", s.handleAvailability)
	mux.HandleFunc("/api/quote", s.handleQuote)
	mux.HandleFunc("/api/reserves", s.handleReserves)
	mux.HandleFunc("/api/reserves/", s.handleReserveByCode)
	mux.HandleFunc("/api/admin/unavailable-days", s.requireAPIKey(s.handleUnavailableDays))
	mux.HandleFunc("/api/admin/schedule-days", s.requireAPIKey(s.handleScheduleDays))
	mux.HandleFunc("/api/admin/customers/block", s.requireAPIKey(s.handleBlockCustomer))
	mux.HandleFunc("/api/admin/customers/unblock", s.requireAPIKey(s.handleUnblockCustomer))
	mux.HandleFunc("/api/admin/customers/blocked", s.requireAPIKey(s.handleListBlocked))

	s.srv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.rateLimit(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the root handler, used directly in tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.srv.Handler
}

// Start blocks serving HTTP until Shutdown or failure.
func (s *HTTPServer) Start() error {
	s.log.Info().Str("addr", s.cfg.Addr).Msg("HTTP server listening")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *HTTPServer) limiterFor(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	lim, ok := s.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(s.cfg.RateLimitPerSecond), s.cfg.RateLimitBurst)
		s.limiters[ip] = lim
	}
	return lim
}

func (s *HTTPServer) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !s.limiterFor(ip).Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) requireAPIKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-Api-Key")
		if key == "" || !s.validKey(key) {
			writeError(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}
		next(w, r)
	}
}

func (s *HTTPServer) validKey(key string) bool {
	for _, k := range s.cfg.APIKeys {
		if k == key {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

// writeServiceError maps known booking failures onto HTTP statuses.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoPricing):
		writeError(w, http.StatusNotFound, "no pricing available for this slot")
	case errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, database.ErrPastDate),
		errors.Is(err, database.ErrDateTooFar):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDayNotAvailable),
		errors.Is(err, service.ErrSlotTooSoon),
		errors.Is(err, service.ErrTooManyActive),
		errors.Is(err, service.ErrPromotionInactive),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, database.ErrDoubleBooked),
		errors.Is(err, database.ErrConcurrentModification):
		writeError(w, http.StatusConflict, err.Error())
	case access.IsAccessDenied(err):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrPromotionNotFound),
		errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error().Err(err).Msg("Unhandled API error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
