package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cancha/internal/models"
)

// CreateComplex inserts a complex and seeds its seven schedule days,
// all inactive, in one transaction.
func (db *DB) CreateComplex(ctx context.Context, c *models.Complex) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO complexes (name, address, phone, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.Name, c.Address, c.Phone, c.IsActive, now, now)
	if err != nil {
		return fmt.Errorf("insert complex: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for dow := 0; dow < 7; dow++ {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO schedule_days (complex_id, day_of_week, is_active, created_at, updated_at)
			VALUES (?, ?, 0, ?, ?)`,
			id, dow, now, now); err != nil {
			return fmt.Errorf("seed schedule day %d: %w", dow, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

// GetComplex returns a complex by ID.
func (db *DB) GetComplex(ctx context.Context, id int64) (*models.Complex, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, name, address, phone, is_active, created_at, updated_at
		FROM complexes WHERE id = ?`, id)

	var c models.Complex
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListComplexes returns active complexes.
func (db *DB) ListComplexes(ctx context.Context) ([]models.Complex, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, address, phone, is_active, created_at, updated_at
		FROM complexes WHERE is_active = 1 ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Complex
	for rows.Next() {
		var c models.Complex
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateCourt inserts a court under a complex.
func (db *DB) CreateCourt(ctx context.Context, c *models.Court) error {
	now := time.Now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO courts (complex_id, name, sport_type, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ComplexID, c.Name, c.SportType, c.IsActive, now, now)
	if err != nil {
		return err
	}
	c.ID, err = res.LastInsertId()
	c.CreatedAt = now
	c.UpdatedAt = now
	return err
}

// ListCourts returns active courts for a complex.
func (db *DB) ListCourts(ctx context.Context, complexID int64) ([]models.Court, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, complex_id, name, sport_type, is_active, created_at, updated_at
		FROM courts WHERE complex_id = ? AND is_active = 1 ORDER BY name`, complexID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Court
	for rows.Next() {
		var c models.Court
		if err := rows.Scan(&c.ID, &c.ComplexID, &c.Name, &c.SportType, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateOrUpdateCustomer upserts a customer keyed by phone number.
func (db *DB) CreateOrUpdateCustomer(ctx context.Context, c *models.Customer) error {
	now := time.Now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO customers (name, phone, email, last_activity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(phone) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			last_activity = excluded.last_activity,
			updated_at = excluded.updated_at`,
		c.Name, c.Phone, c.Email, now, now, now)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil && id > 0 {
		c.ID = id
	}
	if c.ID == 0 {
		row := db.QueryRowContext(ctx, `SELECT id FROM customers WHERE phone = ?`, c.Phone)
		if err := row.Scan(&c.ID); err != nil {
			return err
		}
	}
	return nil
}

// GetCustomer returns a customer by ID.
func (db *DB) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, name, phone, COALESCE(email, ''), last_activity, created_at, updated_at
		FROM customers WHERE id = ?`, id)

	var c models.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.LastActivity, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
