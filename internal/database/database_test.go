package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cancha/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedComplex(t *testing.T, db *DB) *models.Complex {
	t.Helper()
	c := &models.Complex{Name: "Bertaca", IsActive: true}
	require.NoError(t, db.CreateComplex(context.Background(), c))
	return c
}

func TestCreateComplex_SeedsScheduleDays(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := seedComplex(t, db)

	days, err := db.GetScheduleDays(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, days, 7)
	for i, d := range days {
		assert.Equal(t, i, d.DayOfWeek)
		assert.False(t, d.IsActive)
	}

	// Seeding is unique per (complex, weekday): a second complex gets
	// its own seven rows.
	c2 := &models.Complex{Name: "Seven", IsActive: true}
	require.NoError(t, db.CreateComplex(ctx, c2))
	days2, err := db.GetScheduleDays(ctx, c2.ID)
	require.NoError(t, err)
	assert.Len(t, days2, 7)
}

func TestDayCatalog_OrderedRates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := seedComplex(t, db)

	require.NoError(t, db.ToggleScheduleDay(ctx, c.ID, 1, true))
	days, err := db.GetScheduleDays(ctx, c.ID)
	require.NoError(t, err)
	monday := days[1]

	base := &models.Rate{ComplexID: &c.ID, Name: "Base", Price: 5000, ReservationAmount: 2000, IsActive: true}
	premium := &models.Rate{ComplexID: &c.ID, Name: "Premium", Price: 9000, ReservationAmount: 4000, IsActive: true}
	require.NoError(t, db.CreateRate(ctx, base))
	require.NoError(t, db.CreateRate(ctx, premium))

	court := &models.Court{ComplexID: c.ID, Name: "Cancha 1", SportType: "futbol5", IsActive: true}
	require.NoError(t, db.CreateCourt(ctx, court))

	sched := &models.Schedule{ScheduleDayID: monday.ID, ComplexID: c.ID, StartTime: "18:00", EndTime: "20:00"}
	require.NoError(t, db.CreateSchedule(ctx, sched, []int64{base.ID, premium.ID}, []int64{court.ID}))

	catalog, err := db.DayCatalog(ctx, c.ID, 1)
	require.NoError(t, err)
	require.Len(t, catalog, 1)

	got := catalog[0]
	assert.True(t, got.DayActive)
	assert.Equal(t, 1, got.DayOfWeek)
	assert.Equal(t, "18:00 - 20:00", got.Window())
	require.Len(t, got.Rates, 2)
	assert.Equal(t, "Base", got.Rates[0].Name)
	assert.Equal(t, "Premium", got.Rates[1].Name)
	assert.Equal(t, []int64{court.ID}, got.CourtIDs)

	// Other weekdays stay empty.
	empty, err := db.DayCatalog(ctx, c.ID, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCreateReserve_DoubleBookingGuard(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := seedComplex(t, db)

	court := &models.Court{ComplexID: c.ID, Name: "Cancha 1", SportType: "futbol5", IsActive: true}
	require.NoError(t, db.CreateCourt(ctx, court))
	customer := &models.Customer{Name: "Juan", Phone: "111"}
	require.NoError(t, db.CreateOrUpdateCustomer(ctx, customer))

	date := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
	first := &models.Reserve{
		Code: "r-1", ComplexID: c.ID, CourtID: court.ID, CustomerID: customer.ID,
		Date: date, Schedule: "18:00 - 20:00", Price: 5000, Deposit: 2000,
		Status: models.StatusPendiente,
	}
	require.NoError(t, db.CreateReserve(ctx, first))
	assert.Equal(t, int64(1), first.Version)

	second := &models.Reserve{
		Code: "r-2", ComplexID: c.ID, CourtID: court.ID, CustomerID: customer.ID,
		Date: date, Schedule: "18:00 - 20:00", Price: 5000, Deposit: 2000,
		Status: models.StatusPendiente,
	}
	err := db.CreateReserve(ctx, second)
	assert.ErrorIs(t, err, ErrDoubleBooked)

	// Cancelling frees the slot.
	require.NoError(t, db.UpdateReserveStatusWithVersion(ctx, first.ID, 1, models.StatusCancelado))
	assert.NoError(t, db.CreateReserve(ctx, second))
}

func TestUpdateReserveStatusWithVersion(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := seedComplex(t, db)

	court := &models.Court{ComplexID: c.ID, Name: "Cancha 1", SportType: "futbol5", IsActive: true}
	require.NoError(t, db.CreateCourt(ctx, court))
	customer := &models.Customer{Name: "Juan", Phone: "111"}
	require.NoError(t, db.CreateOrUpdateCustomer(ctx, customer))

	r := &models.Reserve{
		Code: "r-1", ComplexID: c.ID, CourtID: court.ID, CustomerID: customer.ID,
		Date: time.Now(), Schedule: "18:00 - 20:00", Price: 5000, Deposit: 2000,
		Status: models.StatusPendiente,
	}
	require.NoError(t, db.CreateReserve(ctx, r))

	// Stale version is rejected.
	err := db.UpdateReserveStatusWithVersion(ctx, r.ID, 99, models.StatusAprobado)
	assert.ErrorIs(t, err, ErrConcurrentModification)

	require.NoError(t, db.UpdateReserveStatusWithVersion(ctx, r.ID, 1, models.StatusAprobado))
	got, err := db.GetReserveByCode(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAprobado, got.Status)
	assert.Equal(t, int64(2), got.Version)
}

func TestUnavailableDays(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := seedComplex(t, db)
	c2 := &models.Complex{Name: "Seven", IsActive: true}
	require.NoError(t, db.CreateComplex(ctx, c2))

	date := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.AddUnavailableDay(ctx, &c.ID, date, "feriado"))
	// Idempotent re-block.
	require.NoError(t, db.AddUnavailableDay(ctx, &c.ID, date, "feriado"))
	// Global block on another date.
	global := date.AddDate(0, 0, 7)
	require.NoError(t, db.AddUnavailableDay(ctx, nil, global, ""))

	days, err := db.GetUnavailableDays(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, days, 2)

	// The other complex only sees the global block.
	days2, err := db.GetUnavailableDays(ctx, c2.ID)
	require.NoError(t, err)
	require.Len(t, days2, 1)
	assert.Nil(t, days2[0].ComplexID)

	require.NoError(t, db.RemoveUnavailableDay(ctx, &c.ID, date))
	assert.ErrorIs(t, db.RemoveUnavailableDay(ctx, &c.ID, date), ErrNotFound)
}

func TestPromotions(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := seedComplex(t, db)

	productID, err := db.CreateProduct(ctx, "Gatorade", 1500)
	require.NoError(t, err)

	p := &models.Promotion{
		ComplexID: &c.ID,
		Name:      "Regalo bebida",
		Type:      models.PromotionGiftProduct,
		IsActive:  true,
		GiftProducts: []models.GiftProduct{
			{ProductID: productID, Quantity: 2},
		},
	}
	require.NoError(t, db.CreatePromotion(ctx, p))

	got, err := db.GetPromotion(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PromotionGiftProduct, got.Type)
	require.Len(t, got.GiftProducts, 1)
	assert.Equal(t, "Gatorade", got.GiftProducts[0].ProductName)
	assert.Equal(t, 2, got.GiftProducts[0].Quantity)

	require.NoError(t, db.DeactivatePromotion(ctx, p.ID))
	list, err := db.ListPromotions(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteOldPending(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := seedComplex(t, db)

	court := &models.Court{ComplexID: c.ID, Name: "Cancha 1", SportType: "futbol5", IsActive: true}
	require.NoError(t, db.CreateCourt(ctx, court))
	customer := &models.Customer{Name: "Juan", Phone: "111"}
	require.NoError(t, db.CreateOrUpdateCustomer(ctx, customer))

	r := &models.Reserve{
		Code: "r-1", ComplexID: c.ID, CourtID: court.ID, CustomerID: customer.ID,
		Date: time.Now(), Schedule: "18:00 - 20:00", Price: 5000, Deposit: 2000,
		Status: models.StatusPendiente,
	}
	require.NoError(t, db.CreateReserve(ctx, r))

	// Fresh rows survive.
	n, err := db.DeleteOldPending(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)

	// Anything older than "now" goes.
	n, err = db.DeleteOldPending(ctx, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestBlocklist(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.BlockCustomer(ctx, 7, "no-show", 1))

	blocked, err := db.IsBlocked(ctx, 7)
	require.NoError(t, err)
	assert.True(t, blocked)

	require.NoError(t, db.UnblockCustomer(ctx, 7))

	blocked, err = db.IsBlocked(ctx, 7)
	require.NoError(t, err)
	assert.False(t, blocked)

	// Unblocking a customer who is not on the list is reported, not
	// silently accepted.
	err = db.UnblockCustomer(ctx, 7)
	assert.ErrorIs(t, err, ErrNotFound)

	err = db.UnblockCustomer(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
