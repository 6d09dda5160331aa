package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cancha/internal/database"
	"cancha/internal/events"
	"cancha/internal/metrics"
	"cancha/internal/models"
	"cancha/internal/pricing"
	"cancha/shared/access"
)

// Service-level failures surfaced to the API layer.
var (
	ErrNoPricing         = errors.New("no pricing available for this slot")
	ErrDayNotAvailable   = errors.New("day is not available for reservations")
	ErrInvalidTimeRange  = errors.New("invalid time range")
	ErrSlotTooSoon       = errors.New("slot starts too soon")
	ErrTooManyActive     = errors.New("customer has too many active reserves")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPromotionInactive = errors.New("promotion is not active")
	ErrPromotionNotFound = errors.New("promotion not found")
)

// Store is the persistence surface the service needs.
type Store interface {
	CreateReserve(ctx context.Context, r *models.Reserve) error
	GetReserveByCode(ctx context.Context, code string) (*models.Reserve, error)
	UpdateReserveStatusWithVersion(ctx context.Context, id, version int64, status string) error
	CountActiveReserves(ctx context.Context, customerID int64) (int, error)
	GetPromotion(ctx context.Context, id int64) (*models.Promotion, error)
}

// Catalog serves schedule catalogs and day calendars, normally cached.
type Catalog interface {
	Schedules(ctx context.Context, complexID int64, dayOfWeek int) ([]models.Schedule, error)
	Calendar(ctx context.Context, complexID int64) (*pricing.DayCalendar, error)
}

// AccessChecker decides whether a customer may book.
type AccessChecker interface {
	CanBook(ctx context.Context, customerID int64) (bool, string, error)
}

// EventBus publishes booking lifecycle events.
type EventBus interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Rules are the booking constraints applied on creation.
type Rules struct {
	MinAdvance           time.Duration
	MaxAdvance           time.Duration
	MaxActivePerCustomer int
}

// DefaultRules returns the constraints used when config leaves them unset.
func DefaultRules() Rules {
	return Rules{
		MinAdvance:           30 * time.Minute,
		MaxAdvance:           90 * 24 * time.Hour,
		MaxActivePerCustomer: 3,
	}
}

/// ReserveService implements the booking flow: quote, create, and
// status transitions.
type ReserveService struct {
	store    Store
	catalog  Catalog
	access   AccessChecker
	events   EventBus
	resolver *pricing.Resolver
	rules    Rules
	logger   zerolog.Logger
}

// NewReserveService wires the booking flow together. events may be nil.
func NewReserveService(
	store Store,
	catalog Catalog,
	access AccessChecker,
	bus EventBus,
	resolver *pricing.Resolver,
	rules Rules,
	logger zerolog.Logger,
) *ReserveService {
	if rules.MaxAdvance <= 0 {
		rules.MaxAdvance = DefaultRules().MaxAdvance
	}
	if rules.MaxActivePerCustomer <= 0 {
		rules.MaxActivePerCustomer = DefaultRules().MaxActivePerCustomer
	}
	return &ReserveService{
		store:    store,
		catalog:  catalog,
		access:   access,
		events:   bus,
		resolver: resolver,
		rules:    rules,
		logger:   logger.With().Str("component", "service").Logger(),
	}
}

// CreateReserveRequest carries the inputs for a new reserve.
type CreateReserveRequest struct {
	ComplexID   int64
	CourtID     int64
	CustomerID  int64
	PromotionID *int64
	Date        time.Time
	Range       string // "18:00 - 20:00"
	Comment     string
}

// QuoteResult is a priced slot, with the promotion already applied.
type QuoteResult struct {
	Quote        pricing.Quote        `json:"quote"`
	FinalPrice   float64              `json:"final_price"`
	Discount     float64              `json:"discount"`
	GiftProducts []models.GiftProduct `json:"gift_products,omitempty"`
}

// ValidateReserveDate checks the booking window constraints.
func (s *ReserveService) ValidateReserveDate(date time.Time) error {
	today := time.Now().Truncate(24 * time.Hour)
	if date.Before(today) {
		return database.ErrPastDate
	}
	if date.After(time.Now().Add(s.rules.MaxAdvance)) {
		return database.ErrDateTooFar
	}
	return nil
}

// validateRange checks format and the end-time rule. Ends between 00:00
// and 05:59 count as the following morning, so "22:00 - 02:00" is valid
// while "22:00 - 10:00" is not.
func validateRange(rangeStr string) error {
	parts := strings.Split(rangeStr, " - ")
	if len(parts) != 2 {
		return ErrInvalidTimeRange
	}
	if _, err := pricing.ParseClock(parts[0]); err != nil {
		return ErrInvalidTimeRange
	}
	if _, err := pricing.ParseClock(parts[1]); err != nil {
		return ErrInvalidTimeRange
	}
	if !pricing.IsValidEndTime(parts[1], parts[0]) {
		return ErrInvalidTimeRange
	}
	return nil
}

// slotStart combines the reserve date with the range's opening clock.
// Call only after validateRange has accepted the range.
func slotStart(date time.Time, rangeStr string) time.Time {
	mins, err := pricing.ParseClock(strings.Split(rangeStr, " - ")[0])
	if err != nil {
		return date
	}
	return date.Add(time.Duration(mins) * time.Minute)
}

// Quote resolves the price for a slot without creating anything.
func (s *ReserveService) Quote(ctx context.Context, complexID int64, date time.Time, rangeStr string, promotionID *int64) (*QuoteResult, error) {
	if err := s.ValidateReserveDate(date); err != nil {
		return nil, err
	}
	if err := validateRange(rangeStr); err != nil {
		return nil, err
	}
	if s.rules.MinAdvance > 0 && time.Until(slotStart(date, rangeStr)) < s.rules.MinAdvance {
		return nil, ErrSlotTooSoon
	}

	calendar, err := s.catalog.Calendar(ctx, complexID)
	if err != nil {
		return nil, fmt.Errorf("load calendar: %w", err)
	}
	if !calendar.IsOpen(date) {
		return nil, ErrDayNotAvailable
	}

	schedules, err := s.catalog.Schedules(ctx, complexID, int(date.Weekday()))
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	quote := s.resolver.ResolvePrice(date, rangeStr, schedules)
	if quote == nil {
		return nil, ErrNoPricing
	}

	result := &QuoteResult{Quote: *quote, FinalPrice: quote.Price}

	if promotionID != nil {
		promo, err := s.activePromotion(ctx, *promotionID, complexID)
		if err != nil {
			return nil, err
		}
		applied := s.resolver.ApplyPromotion(quote.Price, promo)
		result.FinalPrice = applied.FinalPrice
		result.Discount = applied.Discount
		result.GiftProducts = applied.GiftProducts
	}

	return result, nil
}

func (s *ReserveService) activePromotion(ctx context.Context, id, complexID int64) (*models.Promotion, error) {
	promo, err := s.store.GetPromotion(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrPromotionNotFound
		}
		return nil, fmt.Errorf("get promotion: %w", err)
	}
	// A promotion scoped to another complex is invisible here.
	if promo.ComplexID != nil && *promo.ComplexID != complexID {
		return nil, ErrPromotionNotFound
	}
	if !promo.IsActive {
		return nil, ErrPromotionInactive
	}
	return promo, nil
}

// CreateReserve prices the slot and persists a PENDIENTE reserve.
func (s *ReserveService) CreateReserve(ctx context.Context, req CreateReserveRequest) (*models.Reserve, error) {
	if s.access != nil {
		allowed, reason, err := s.access.CanBook(ctx, req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("access check: %w", err)
		}
		if !allowed {
			s.logger.Warn().Int64("customer_id", req.CustomerID).Str("reason", reason).Msg("Booking denied")
			return nil, &access.AccessDeniedError{Reason: reason}
		}
	}

	active, err := s.store.CountActiveReserves(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("count active reserves: %w", err)
	}
	if active >= s.rules.MaxActivePerCustomer {
		return nil, ErrTooManyActive
	}

	quote, err := s.Quote(ctx, req.ComplexID, req.Date, req.Range, req.PromotionID)
	if err != nil {
		return nil, err
	}

	reserve := &models.Reserve{
		Code:        uuid.NewString(),
		ComplexID:   req.ComplexID,
		CourtID:     req.CourtID,
		CustomerID:  req.CustomerID,
		PromotionID: req.PromotionID,
		Date:        req.Date,
		Schedule:    quote.Quote.Schedule,
		RateName:    quote.Quote.RateName,
		Price:       quote.FinalPrice,
		Deposit:     quote.Quote.ReservationAmount,
		Discount:    quote.Discount,
		Status:      models.StatusPendiente,
		Comment:     req.Comment,
	}

	if err := s.store.CreateReserve(ctx, reserve); err != nil {
		return nil, err
	}

	metrics.IncReserveCreated(reserve.Status)
	s.publish(events.TypeReserveCreated, reserve)

	s.logger.Info().
		Str("code", reserve.Code).
		Int64("complex_id", reserve.ComplexID).
		Str("schedule", reserve.Schedule).
		Float64("price", reserve.Price).
		Msg("Reserve created")

	return reserve, nil
}

// UpdateStatus transitions a reserve to a new status using optimistic
// locking on the version read.
func (s *ReserveService) UpdateStatus(ctx context.Context, code, status string) (*models.Reserve, error) {
	reserve, err := s.store.GetReserveByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !reserve.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, reserve.Status, status)
	}

	if err := s.store.UpdateReserveStatusWithVersion(ctx, reserve.ID, reserve.Version, status); err != nil {
		return nil, err
	}

	reserve.Status = status
	reserve.Version++

	metrics.IncStatusChange(status)
	s.publish(eventTypeForStatus(status), reserve)

	s.logger.Info().Str("code", code).Str("status", status).Msg("Reserve status updated")
	return reserve, nil
}

func eventTypeForStatus(status string) string {
	switch status {
	case models.StatusAprobado:
		return events.TypeReserveApproved
	case models.StatusCancelado:
		return events.TypeReserveCancelled
	case models.StatusCompletado:
		return events.TypeReserveCompleted
	default:
		return ""
	}
}

// GetReserve returns a reserve by its public code.
func (s *ReserveService) GetReserve(ctx context.Context, code string) (*models.Reserve, error) {
	return s.store.GetReserveByCode(ctx, code)
}

func (s *ReserveService) publish(eventType string, reserve *models.Reserve) {
	if s.events == nil || eventType == "" {
		return
	}
	if err := s.events.PublishJSON(eventType, reserve); err != nil {
		s.logger.Error().Err(err).Str("type", eventType).Msg("Failed to publish event")
	}
}
