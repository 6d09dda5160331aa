package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cancha/internal/models"
)

// CreateReserve inserts a reserve inside a transaction. The partial
// unique index on (court_id, date, schedule) turns a race between two
// customers into ErrDoubleBooked for the loser.
func (db *DB) CreateReserve(ctx context.Context, r *models.Reserve) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if r.PromotionID != nil {
		var active bool
		row := tx.QueryRowContext(ctx, `SELECT is_active FROM promotions WHERE id = ?`, *r.PromotionID)
		if err := row.Scan(&active); err != nil {
			if err == sql.ErrNoRows {
				return fmt.Errorf("promotion %d: %w", *r.PromotionID, ErrNotFound)
			}
			return err
		}
		if !active {
			return fmt.Errorf("promotion %d: %w", *r.PromotionID, ErrNotAvailable)
		}
	}

	now := time.Now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO reserves (code, complex_id, court_id, customer_id, promotion_id,
			date, schedule, rate_name, price, deposit, discount, status, comment,
			created_at, updated_at, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		r.Code, r.ComplexID, r.CourtID, r.CustomerID, r.PromotionID,
		r.Date.Format(dateLayout), r.Schedule, r.RateName, r.Price, r.Deposit,
		r.Discount, r.Status, r.Comment, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDoubleBooked
		}
		return fmt.Errorf("insert reserve: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	r.ID = id
	r.Version = 1
	r.CreatedAt = now
	r.UpdatedAt = now
	return nil
}

// UpdateReserveStatusWithVersion applies an optimistic-concurrency status
// change. A version mismatch means someone else updated the row first.
func (db *DB) UpdateReserveStatusWithVersion(ctx context.Context, id, version int64, status string) error {
	res, err := db.ExecContext(ctx, `
		UPDATE reserves SET status = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		status, time.Now(), id, version)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConcurrentModification
	}
	return nil
}

const reserveColumns = `id, code, complex_id, court_id, customer_id, promotion_id,
	date, schedule, COALESCE(rate_name, ''), price, deposit, discount, status,
	COALESCE(comment, ''), created_at, updated_at, version`

// GetReserveByCode returns a reserve by its public code.
func (db *DB) GetReserveByCode(ctx context.Context, code string) (*models.Reserve, error) {
	row := db.QueryRowContext(ctx, `SELECT `+reserveColumns+` FROM reserves WHERE code = ?`, code)
	return scanReserve(row)
}

// GetReserve returns a reserve by internal ID.
func (db *DB) GetReserve(ctx context.Context, id int64) (*models.Reserve, error) {
	row := db.QueryRowContext(ctx, `SELECT `+reserveColumns+` FROM reserves WHERE id = ?`, id)
	return scanReserve(row)
}

// CountActiveReserves counts a customer's live (pending or approved)
// reserves, used to enforce the per-customer cap.
func (db *DB) CountActiveReserves(ctx context.Context, customerID int64) (int, error) {
	var n int
	row := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reserves
		WHERE customer_id = ? AND status IN (?, ?)`,
		customerID, models.StatusPendiente, models.StatusAprobado)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// GetReservesByDateRange returns reserves within [start, end] inclusive,
// ordered by date.
func (db *DB) GetReservesByDateRange(ctx context.Context, start, end time.Time) ([]models.Reserve, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+reserveColumns+` FROM reserves
		WHERE date >= ? AND date <= ?
		ORDER BY date, id`,
		start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReserves(rows)
}

// GetReservesForMonth returns all reserves of a calendar month, for the
// monthly report export.
func (db *DB) GetReservesForMonth(ctx context.Context, year int, month time.Month) ([]models.Reserve, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return db.GetReservesByDateRange(ctx, start, end)
}

// DeleteOldPending removes PENDIENTE reserves that never got approved,
// freeing their slots. Returns the number of rows removed.
func (db *DB) DeleteOldPending(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res, err := db.ExecContext(ctx, `
		DELETE FROM reserves WHERE status = ? AND created_at < ?`,
		models.StatusPendiente, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanReserve(row *sql.Row) (*models.Reserve, error) {
	var r models.Reserve
	var rawDate string
	err := row.Scan(&r.ID, &r.Code, &r.ComplexID, &r.CourtID, &r.CustomerID, &r.PromotionID,
		&rawDate, &r.Schedule, &r.RateName, &r.Price, &r.Deposit, &r.Discount, &r.Status,
		&r.Comment, &r.CreatedAt, &r.UpdatedAt, &r.Version)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if r.Date, err = time.Parse(dateLayout, rawDate); err != nil {
		return nil, fmt.Errorf("corrupt reserve date %q: %w", rawDate, err)
	}
	return &r, nil
}

func scanReserves(rows *sql.Rows) ([]models.Reserve, error) {
	var out []models.Reserve
	for rows.Next() {
		var r models.Reserve
		var rawDate string
		err := rows.Scan(&r.ID, &r.Code, &r.ComplexID, &r.CourtID, &r.CustomerID, &r.PromotionID,
			&rawDate, &r.Schedule, &r.RateName, &r.Price, &r.Deposit, &r.Discount, &r.Status,
			&r.Comment, &r.CreatedAt, &r.UpdatedAt, &r.Version)
		if err != nil {
			return nil, err
		}
		if r.Date, err = time.Parse(dateLayout, rawDate); err != nil {
			return nil, fmt.Errorf("corrupt reserve date %q: %w", rawDate, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
