package pricing

import (
	"time"

	"cancha/internal/models"

	"github.com/rs/zerolog"
)

// Quote is the result of a successful price resolution. All amounts are
// plain currency values copied from the rate; the resolver does no
// arithmetic of its own.
type Quote struct {
	Price             float64 `json:"price"`
	ReservationAmount float64 `json:"reservation_amount"`
	RateName          string  `json:"rate_name"`
	Schedule          string  `json:"schedule"`
	DayOfWeek         int     `json:"day_of_week"`
}

// Resolution outcomes recorded in metrics.
const (
	ResultMatched      = "matched"
	ResultInvalidRange = "invalid_range"
	ResultNoSchedule   = "no_schedule"
	ResultNoRates      = "no_rates"
)

// Resolver maps a (date, requested range) pair onto a schedule window and
// its first rate. Every failure is a nil quote plus a warning, never an
// error: the caller surfaces nil as "no pricing available for this slot".
type Resolver struct {
	logger  zerolog.Logger
	metrics *Metrics
}

// NewResolver creates a resolver. metrics may be nil.
func NewResolver(logger *zerolog.Logger, metrics *Metrics) *Resolver {
	return &Resolver{
		logger:  logger.With().Str("component", "pricing").Logger(),
		metrics: metrics,
	}
}

// ResolvePrice finds the first schedule, in iteration order, whose bound
// day matches the date's weekday, whose day is active, and whose window
// fully contains the requested range, then returns its first rate.
// The day-open check against blocked dates is the caller's job.
func (r *Resolver) ResolvePrice(date time.Time, rangeStr string, schedules []models.Schedule) *Quote {
	start := time.Now()
	defer func() {
		if r.metrics != nil {
			r.metrics.ObserveResolution(time.Since(start).Seconds())
		}
	}()

	requested, err := ParseRange(rangeStr)
	if err != nil {
		r.warn(ResultInvalidRange, date, rangeStr, err)
		return nil
	}

	dayOfWeek := int(date.Weekday())
	for i := range schedules {
		sched := &schedules[i]
		if sched.DayOfWeek != dayOfWeek || !sched.DayActive {
			continue
		}
		window, err := ParseRange(sched.Window())
		if err != nil {
			// Corrupt window on a stored schedule; skip it.
			r.logger.Warn().Int64("schedule_id", sched.ID).Err(err).Msg("unparseable schedule window")
			continue
		}
		if !window.Contains(requested) {
			continue
		}

		if len(sched.Rates) == 0 {
			r.warn(ResultNoRates, date, rangeStr, nil)
			return nil
		}

		// First rate wins. Additional rates on the schedule are never
		// consulted; rate order is set by staff when the schedule is built.
		rate := sched.Rates[0]
		if r.metrics != nil {
			r.metrics.IncResolution(ResultMatched)
		}
		return &Quote{
			Price:             rate.Price,
			ReservationAmount: rate.ReservationAmount,
			RateName:          rate.Name,
			Schedule:          sched.Window(),
			DayOfWeek:         dayOfWeek,
		}
	}

	r.warn(ResultNoSchedule, date, rangeStr, nil)
	return nil
}

// ApplyPromotion applies the promotion rule to a resolved base price and
// records the application in metrics.
func (r *Resolver) ApplyPromotion(basePrice float64, promo *models.Promotion) PromotionResult {
	result := ApplyPromotion(basePrice, promo)
	if promo != nil && r.metrics != nil {
		r.metrics.IncPromotionApplied(string(promo.Type))
	}
	return result
}

func (r *Resolver) warn(result string, date time.Time, rangeStr string, err error) {
	if r.metrics != nil {
		r.metrics.IncResolution(result)
	}
	evt := r.logger.Warn().
		Str("result", result).
		Str("date", date.Format(dateKeyLayout)).
		Str("range", rangeStr)
	if err != nil {
		evt = evt.Err(err)
	}
	evt.Msg("price resolution failed")
}
