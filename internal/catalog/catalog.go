package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"cancha/internal/metrics"
	"cancha/internal/models"
	"cancha/internal/pricing"
)

// recoveryWindow is how long the cache stays in pass-through mode after
// a redis failure before the next attempt.
const recoveryWindow = time.Minute

// Store provides the schedule catalog rows from the database.
type Store interface {
	DayCatalog(ctx context.Context, complexID int64, dayOfWeek int) ([]models.Schedule, error)
	GetScheduleDays(ctx context.Context, complexID int64) ([]models.ScheduleDay, error)
	GetUnavailableDays(ctx context.Context, complexID int64) ([]models.UnavailableDay, error)
}

// Catalog is a read-through cache for schedule catalogs and day
// calendars. With a nil redis client every read goes straight to the
// store. On redis errors the cache degrades to pass-through and retries
// after a recovery window.
type Catalog struct {
	store  Store
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger

	redisDown atomic.Bool
	mu        sync.Mutex
	lastCheck time.Time
}

// New creates a catalog backed by the store, optionally cached in redis.
func New(store Store, rdb *redis.Client, ttl time.Duration, logger zerolog.Logger) *Catalog {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Catalog{
		store:  store,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

func scheduleKey(complexID int64, dayOfWeek int) string {
	return fmt.Sprintf("catalog:%d:%d", complexID, dayOfWeek)
}

func calendarKey(complexID int64) string {
	return fmt.Sprintf("calendar:%d", complexID)
}

// redisUsable reports whether redis should be tried for this call.
func (c *Catalog) redisUsable() bool {
	if c.rdb == nil {
		return false
	}
	if !c.redisDown.Load() {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if time.Since(c.lastCheck) > recoveryWindow {
		c.lastCheck = time.Now()
		return true
	}
	return false
}

func (c *Catalog) markDown(err error) {
	if !c.redisDown.Swap(true) {
		c.logger.Warn().Err(err).Msg("Redis unavailable, catalog cache in pass-through mode")
	}
	c.mu.Lock()
	c.lastCheck = time.Now()
	c.mu.Unlock()
}

func (c *Catalog) markUp() {
	if c.redisDown.Swap(false) {
		c.logger.Info().Msg("Redis recovered, catalog cache active")
	}
}

// Schedules returns the ordered catalog for one complex and weekday,
// serving from cache when possible.
func (c *Catalog) Schedules(ctx context.Context, complexID int64, dayOfWeek int) ([]models.Schedule, error) {
	key := scheduleKey(complexID, dayOfWeek)

	if c.redisUsable() {
		data, err := c.rdb.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			c.markUp()
			var schedules []models.Schedule
			if jerr := json.Unmarshal(data, &schedules); jerr == nil {
				metrics.IncCache("hit")
				return schedules, nil
			}
			// Corrupt entry: fall through to the store and overwrite.
			c.logger.Warn().Str("key", key).Msg("Discarding corrupt cache entry")
		case err == redis.Nil:
			c.markUp()
			metrics.IncCache("miss")
		default:
			c.markDown(err)
			metrics.IncCache("error")
		}
	}

	schedules, err := c.store.DayCatalog(ctx, complexID, dayOfWeek)
	if err != nil {
		return nil, err
	}

	c.set(ctx, key, schedules)
	return schedules, nil
}

// calendarData is the cached input for a DayCalendar.
type calendarData struct {
	Days    []models.ScheduleDay    `json:"days"`
	Blocked []models.UnavailableDay `json:"blocked"`
}

// Calendar builds the day calendar for a complex, serving from cache
// when possible.
func (c *Catalog) Calendar(ctx context.Context, complexID int64) (*pricing.DayCalendar, error) {
	key := calendarKey(complexID)

	if c.redisUsable() {
		data, err := c.rdb.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			c.markUp()
			var cached calendarData
			if jerr := json.Unmarshal(data, &cached); jerr == nil {
				metrics.IncCache("hit")
				return pricing.NewDayCalendar(complexID, cached.Days, cached.Blocked), nil
			}
			c.logger.Warn().Str("key", key).Msg("Discarding corrupt cache entry")
		case err == redis.Nil:
			c.markUp()
			metrics.IncCache("miss")
		default:
			c.markDown(err)
			metrics.IncCache("error")
		}
	}

	days, err := c.store.GetScheduleDays(ctx, complexID)
	if err != nil {
		return nil, err
	}
	blocked, err := c.store.GetUnavailableDays(ctx, complexID)
	if err != nil {
		return nil, err
	}

	c.set(ctx, key, calendarData{Days: days, Blocked: blocked})
	return pricing.NewDayCalendar(complexID, days, blocked), nil
}

func (c *Catalog) set(ctx context.Context, key string, value interface{}) {
	if !c.redisUsable() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.markDown(err)
	}
}

// Invalidate drops all cached entries for a complex. Called after any
// schedule, rate or blocked-date change.
func (c *Catalog) Invalidate(ctx context.Context, complexID int64) {
	if c.rdb == nil {
		return
	}

	keys := make([]string, 0, 8)
	for day := 0; day <= 6; day++ {
		keys = append(keys, scheduleKey(complexID, day))
	}
	keys = append(keys, calendarKey(complexID))

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.markDown(err)
		return
	}
	c.logger.Debug().Int64("complex_id", complexID).Msg("Catalog cache invalidated")
}
