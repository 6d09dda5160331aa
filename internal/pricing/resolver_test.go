package pricing

import (
	"io"
	"testing"
	"time"

	"cancha/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestResolver() *Resolver {
	logger := zerolog.New(io.Discard)
	return NewResolver(&logger, nil)
}

// monday 2025-01-06
var monday = time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)

func mondaySchedule(rates ...models.Rate) models.Schedule {
	return models.Schedule{
		ID:        1,
		DayOfWeek: 1,
		DayActive: true,
		StartTime: "18:00",
		EndTime:   "20:00",
		Rates:     rates,
	}
}

func TestResolvePrice_Match(t *testing.T) {
	r := newTestResolver()
	schedules := []models.Schedule{
		mondaySchedule(models.Rate{Name: "Nocturno", Price: 5000, ReservationAmount: 2000}),
	}

	quote := r.ResolvePrice(monday, "18:00 - 19:00", schedules)
	assert.NotNil(t, quote)
	assert.Equal(t, &Quote{
		Price:             5000,
		ReservationAmount: 2000,
		RateName:          "Nocturno",
		Schedule:          "18:00 - 20:00",
		DayOfWeek:         1,
	}, quote)
}

func TestResolvePrice_FirstRateWins(t *testing.T) {
	// Regression guard: only the first rate in list order is consulted.
	r := newTestResolver()
	schedules := []models.Schedule{
		mondaySchedule(
			models.Rate{Name: "Base", Price: 5000, ReservationAmount: 2000},
			models.Rate{Name: "Premium", Price: 9000, ReservationAmount: 4000},
		),
	}

	quote := r.ResolvePrice(monday, "18:00 - 20:00", schedules)
	assert.NotNil(t, quote)
	assert.Equal(t, "Base", quote.RateName)
	assert.Equal(t, float64(5000), quote.Price)
}

func TestResolvePrice_FirstMatchingScheduleWins(t *testing.T) {
	r := newTestResolver()
	wide := mondaySchedule(models.Rate{Name: "Wide", Price: 4000})
	wide.StartTime, wide.EndTime = "10:00", "22:00"
	narrow := mondaySchedule(models.Rate{Name: "Narrow", Price: 6000})

	quote := r.ResolvePrice(monday, "18:00 - 19:00", []models.Schedule{wide, narrow})
	assert.NotNil(t, quote)
	assert.Equal(t, "Wide", quote.RateName)
}

func TestResolvePrice_Unavailable(t *testing.T) {
	r := newTestResolver()

	t.Run("InvalidRange", func(t *testing.T) {
		schedules := []models.Schedule{mondaySchedule(models.Rate{Price: 5000})}
		assert.Nil(t, r.ResolvePrice(monday, "18:00-19:00", schedules))
	})

	t.Run("InactiveDay", func(t *testing.T) {
		s := mondaySchedule(models.Rate{Price: 5000})
		s.DayActive = false
		assert.Nil(t, r.ResolvePrice(monday, "18:00 - 19:00", []models.Schedule{s}))
	})

	t.Run("WrongDayOfWeek", func(t *testing.T) {
		tuesday := monday.AddDate(0, 0, 1)
		schedules := []models.Schedule{mondaySchedule(models.Rate{Price: 5000})}
		assert.Nil(t, r.ResolvePrice(tuesday, "18:00 - 19:00", schedules))
	})

	t.Run("RangeOutsideWindow", func(t *testing.T) {
		schedules := []models.Schedule{mondaySchedule(models.Rate{Price: 5000})}
		assert.Nil(t, r.ResolvePrice(monday, "19:00 - 21:00", schedules))
	})

	t.Run("MatchedScheduleWithoutRates", func(t *testing.T) {
		assert.Nil(t, r.ResolvePrice(monday, "18:00 - 19:00", []models.Schedule{mondaySchedule()}))
	})

	t.Run("NoSchedules", func(t *testing.T) {
		assert.Nil(t, r.ResolvePrice(monday, "18:00 - 19:00", nil))
	})
}
