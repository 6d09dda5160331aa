package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cancha/internal/models"
)

// ToggleScheduleDay flips the weekly activation flag for a weekday.
func (db *DB) ToggleScheduleDay(ctx context.Context, complexID int64, dayOfWeek int, active bool) error {
	res, err := db.ExecContext(ctx, `
		UPDATE schedule_days SET is_active = ?, updated_at = ?
		WHERE complex_id = ? AND day_of_week = ?`,
		active, time.Now(), complexID, dayOfWeek)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetScheduleDays returns all seven weekday rows for a complex.
func (db *DB) GetScheduleDays(ctx context.Context, complexID int64) ([]models.ScheduleDay, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, complex_id, day_of_week, is_active, created_at, updated_at
		FROM schedule_days WHERE complex_id = ? ORDER BY day_of_week`, complexID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ScheduleDay
	for rows.Next() {
		var d models.ScheduleDay
		if err := rows.Scan(&d.ID, &d.ComplexID, &d.DayOfWeek, &d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// AddUnavailableDay blocks a calendar date. A nil complexID blocks it
// globally. Blocking the same date twice is a no-op.
func (db *DB) AddUnavailableDay(ctx context.Context, complexID *int64, date time.Time, reason string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO unavailable_days (complex_id, date, reason) VALUES (?, ?, ?)`,
		complexID, date.Format(dateLayout), reason)
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}

// RemoveUnavailableDay reactivates a blocked date.
func (db *DB) RemoveUnavailableDay(ctx context.Context, complexID *int64, date time.Time) error {
	var res sql.Result
	var err error
	if complexID == nil {
		res, err = db.ExecContext(ctx, `
			DELETE FROM unavailable_days WHERE complex_id IS NULL AND date = ?`,
			date.Format(dateLayout))
	} else {
		res, err = db.ExecContext(ctx, `
			DELETE FROM unavailable_days WHERE complex_id = ? AND date = ?`,
			*complexID, date.Format(dateLayout))
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetUnavailableDays returns blocked dates that apply to a complex,
// including global blocks.
func (db *DB) GetUnavailableDays(ctx context.Context, complexID int64) ([]models.UnavailableDay, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, complex_id, date, COALESCE(reason, ''), created_at
		FROM unavailable_days
		WHERE complex_id IS NULL OR complex_id = ?
		ORDER BY date`, complexID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.UnavailableDay
	for rows.Next() {
		var d models.UnavailableDay
		var rawDate string
		if err := rows.Scan(&d.ID, &d.ComplexID, &rawDate, &d.Reason, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Date, err = time.Parse(dateLayout, rawDate)
		if err != nil {
			return nil, fmt.Errorf("corrupt blocked date %q: %w", rawDate, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CreateRate inserts a rate, complex-scoped or global.
func (db *DB) CreateRate(ctx context.Context, r *models.Rate) error {
	now := time.Now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO rates (complex_id, name, price, reservation_amount, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ComplexID, r.Name, r.Price, r.ReservationAmount, r.IsActive, now, now)
	if err != nil {
		return err
	}
	r.ID, err = res.LastInsertId()
	r.CreatedAt = now
	r.UpdatedAt = now
	return err
}

// UpdateRate edits price, deposit and name.
func (db *DB) UpdateRate(ctx context.Context, r *models.Rate) error {
	res, err := db.ExecContext(ctx, `
		UPDATE rates SET name = ?, price = ?, reservation_amount = ?, updated_at = ?
		WHERE id = ?`,
		r.Name, r.Price, r.ReservationAmount, time.Now(), r.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateRate soft-deletes a rate; schedules referencing it keep the
// historical attachment.
func (db *DB) DeactivateRate(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx, `
		UPDATE rates SET is_active = 0, updated_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

// ListRates returns rates visible to a complex: its own plus globals.
func (db *DB) ListRates(ctx context.Context, complexID int64) ([]models.Rate, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, complex_id, name, price, reservation_amount, is_active, created_at, updated_at
		FROM rates
		WHERE is_active = 1 AND (complex_id IS NULL OR complex_id = ?)
		ORDER BY name`, complexID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRates(rows)
}

// CreateSchedule inserts a window bound to a schedule day and attaches
// rates in the given order and courts. Order matters: the first rate is
// the one the resolver picks.
func (db *DB) CreateSchedule(ctx context.Context, s *models.Schedule, rateIDs, courtIDs []int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO schedules (schedule_day_id, complex_id, start_time, end_time, sport_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ScheduleDayID, s.ComplexID, s.StartTime, s.EndTime, s.SportType, now, now)
	if err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for pos, rateID := range rateIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO schedule_rates (schedule_id, rate_id, position) VALUES (?, ?, ?)`,
			id, rateID, pos); err != nil {
			return fmt.Errorf("attach rate %d: %w", rateID, err)
		}
	}
	for _, courtID := range courtIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO schedule_courts (schedule_id, court_id) VALUES (?, ?)`,
			id, courtID); err != nil {
			return fmt.Errorf("attach court %d: %w", courtID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.ID = id
	return nil
}

// DayCatalog loads the schedule windows for one weekday of a complex,
// each with its day flag, court list and ordered rates. Iteration order
// is insertion order, which the resolver's first-match policy relies on.
func (db *DB) DayCatalog(ctx context.Context, complexID int64, dayOfWeek int) ([]models.Schedule, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT s.id, s.schedule_day_id, s.complex_id, sd.day_of_week, sd.is_active,
		       s.start_time, s.end_time, COALESCE(s.sport_type, '')
		FROM schedules s
		JOIN schedule_days sd ON sd.id = s.schedule_day_id
		WHERE s.complex_id = ? AND sd.day_of_week = ?
		ORDER BY s.id`, complexID, dayOfWeek)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Schedule
	for rows.Next() {
		var s models.Schedule
		if err := rows.Scan(&s.ID, &s.ScheduleDayID, &s.ComplexID, &s.DayOfWeek, &s.DayActive,
			&s.StartTime, &s.EndTime, &s.SportType); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if out[i].Rates, err = db.scheduleRates(ctx, out[i].ID); err != nil {
			return nil, err
		}
		if out[i].CourtIDs, err = db.scheduleCourts(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (db *DB) scheduleRates(ctx context.Context, scheduleID int64) ([]models.Rate, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT r.id, r.complex_id, r.name, r.price, r.reservation_amount, r.is_active, r.created_at, r.updated_at
		FROM schedule_rates sr
		JOIN rates r ON r.id = sr.rate_id
		WHERE sr.schedule_id = ?
		ORDER BY sr.position`, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRates(rows)
}

func (db *DB) scheduleCourts(ctx context.Context, scheduleID int64) ([]int64, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT court_id FROM schedule_courts WHERE schedule_id = ? ORDER BY court_id`, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func scanRates(rows *sql.Rows) ([]models.Rate, error) {
	var out []models.Rate
	for rows.Next() {
		var r models.Rate
		if err := rows.Scan(&r.ID, &r.ComplexID, &r.Name, &r.Price, &r.ReservationAmount,
			&r.IsActive, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
