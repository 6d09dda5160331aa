package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// DB wraps the SQLite connection for the booking platform.
type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

var (
	ErrNotFound               = errors.New("not found")
	ErrNotAvailable           = errors.New("not available")
	ErrDoubleBooked           = errors.New("slot already reserved")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrPastDate               = errors.New("cannot book in the past")
	ErrDateTooFar             = errors.New("date is too far in the future")
)

// dateLayout is how calendar dates are stored; reserves and blocked days
// compare on the calendar day, never the time of day.
const dateLayout = "2006-01-02"

// NewDB opens the database, applying WAL mode and creating tables on
// first run.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	instance := &DB{DB: db, logger: logger}
	if err := instance.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("Database initialized")
	return instance, nil
}

func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS complexes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			address TEXT,
			phone TEXT,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS courts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			complex_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			sport_type TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(complex_id) REFERENCES complexes(id)
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			phone TEXT UNIQUE NOT NULL,
			email TEXT,
			last_activity DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		// One row per weekday per complex; seeded inactive at creation.
		`CREATE TABLE IF NOT EXISTS schedule_days (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			complex_id INTEGER NOT NULL,
			day_of_week INTEGER NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
			is_active BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(complex_id, day_of_week),
			FOREIGN KEY(complex_id) REFERENCES complexes(id)
		)`,
		`CREATE TABLE IF NOT EXISTS rates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			complex_id INTEGER,
			name TEXT NOT NULL,
			price REAL NOT NULL CHECK (price >= 0),
			reservation_amount REAL NOT NULL CHECK (reservation_amount >= 0),
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(complex_id) REFERENCES complexes(id)
		)`,
		`CREATE TABLE IF NOT EXISTS schedules (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			schedule_day_id INTEGER NOT NULL,
			complex_id INTEGER NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			sport_type TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(schedule_day_id) REFERENCES schedule_days(id),
			FOREIGN KEY(complex_id) REFERENCES complexes(id)
		)`,
		`CREATE TABLE IF NOT EXISTS schedule_courts (
			schedule_id INTEGER NOT NULL,
			court_id INTEGER NOT NULL,
			PRIMARY KEY(schedule_id, court_id),
			FOREIGN KEY(schedule_id) REFERENCES schedules(id) ON DELETE CASCADE,
			FOREIGN KEY(court_id) REFERENCES courts(id)
		)`,
		// position 0 is the rate the pricing resolver picks.
		`CREATE TABLE IF NOT EXISTS schedule_rates (
			schedule_id INTEGER NOT NULL,
			rate_id INTEGER NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY(schedule_id, rate_id),
			FOREIGN KEY(schedule_id) REFERENCES schedules(id) ON DELETE CASCADE,
			FOREIGN KEY(rate_id) REFERENCES rates(id)
		)`,
		// complex_id NULL blocks the date for every complex.
		`CREATE TABLE IF NOT EXISTS unavailable_days (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			complex_id INTEGER,
			date TEXT NOT NULL,
			reason TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(complex_id, date),
			FOREIGN KEY(complex_id) REFERENCES complexes(id)
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			price REAL NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS promotions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			complex_id INTEGER,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			value REAL NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(complex_id) REFERENCES complexes(id)
		)`,
		`CREATE TABLE IF NOT EXISTS promotion_gifts (
			promotion_id INTEGER NOT NULL,
			product_id INTEGER NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 1,
			PRIMARY KEY(promotion_id, product_id),
			FOREIGN KEY(promotion_id) REFERENCES promotions(id) ON DELETE CASCADE,
			FOREIGN KEY(product_id) REFERENCES products(id)
		)`,
		`CREATE TABLE IF NOT EXISTS reserves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			code TEXT UNIQUE NOT NULL,
			complex_id INTEGER NOT NULL,
			court_id INTEGER NOT NULL,
			customer_id INTEGER NOT NULL,
			promotion_id INTEGER,
			date TEXT NOT NULL,
			schedule TEXT NOT NULL,
			rate_name TEXT,
			price REAL NOT NULL,
			deposit REAL NOT NULL,
			discount REAL NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'PENDIENTE',
			comment TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			version INTEGER NOT NULL DEFAULT 1,
			FOREIGN KEY(complex_id) REFERENCES complexes(id),
			FOREIGN KEY(court_id) REFERENCES courts(id),
			FOREIGN KEY(customer_id) REFERENCES customers(id),
			FOREIGN KEY(promotion_id) REFERENCES promotions(id)
		)`,
		`CREATE TABLE IF NOT EXISTS blocked_customers (
			customer_id INTEGER PRIMARY KEY,
			reason TEXT,
			blocked_by INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS staff (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			complex_id INTEGER,
			is_admin BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(complex_id) REFERENCES complexes(id)
		)`,

		// The data-layer guard against double booking: one live reserve
		// per (court, date, window). Cancelled rows free the slot.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_reserves_slot
			ON reserves(court_id, date, schedule) WHERE status != 'CANCELADO'`,

		`CREATE INDEX IF NOT EXISTS idx_reserves_date ON reserves(date)`,
		`CREATE INDEX IF NOT EXISTS idx_reserves_status ON reserves(status)`,
		`CREATE INDEX IF NOT EXISTS idx_reserves_customer ON reserves(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reserves_complex ON reserves(complex_id)`,
		`CREATE INDEX IF NOT EXISTS idx_schedules_day ON schedules(schedule_day_id)`,
		`CREATE INDEX IF NOT EXISTS idx_schedules_complex ON schedules(complex_id)`,
		`CREATE INDEX IF NOT EXISTS idx_unavailable_date ON unavailable_days(date)`,
		`CREATE INDEX IF NOT EXISTS idx_courts_complex ON courts(complex_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rates_complex ON rates(complex_id)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("exec %.40q: %w", q, err)
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite unique-constraint
// failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// PingContext is used by the readiness probe.
func (db *DB) PingContext(ctx context.Context) error {
	return db.DB.PingContext(ctx)
}
