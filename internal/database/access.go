package database

import (
	"context"
	"database/sql"

	"cancha/shared/access"
)

// IsBlocked reports whether a customer is in the blocklist.
func (db *DB) IsBlocked(ctx context.Context, customerID int64) (bool, error) {
	var n int
	row := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM blocked_customers WHERE customer_id = ?`, customerID)
	if err := row.Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetBlockedCustomer returns blocklist details, or nil if not blocked.
func (db *DB) GetBlockedCustomer(ctx context.Context, customerID int64) (*access.BlockedCustomer, error) {
	row := db.QueryRowContext(ctx, `
		SELECT customer_id, COALESCE(reason, ''), blocked_by, created_at
		FROM blocked_customers WHERE customer_id = ?`, customerID)

	var b access.BlockedCustomer
	err := row.Scan(&b.CustomerID, &b.Reason, &b.BlockedBy, &b.BlockedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// BlockCustomer adds a customer to the blocklist.
func (db *DB) BlockCustomer(ctx context.Context, customerID int64, reason string, blockedBy int64) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO blocked_customers (customer_id, reason, blocked_by) VALUES (?, ?, ?)
		ON CONFLICT(customer_id) DO UPDATE SET reason = excluded.reason, blocked_by = excluded.blocked_by`,
		customerID, reason, blockedBy)
	return err
}

// UnblockCustomer removes a customer from the blocklist.
func (db *DB) UnblockCustomer(ctx context.Context, customerID int64) error {
	res, err := db.ExecContext(ctx, `
		DELETE FROM blocked_customers WHERE customer_id = ?`, customerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBlockedCustomers returns the full blocklist.
func (db *DB) ListBlockedCustomers(ctx context.Context) ([]access.BlockedCustomer, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT customer_id, COALESCE(reason, ''), blocked_by, created_at
		FROM blocked_customers ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []access.BlockedCustomer
	for rows.Next() {
		var b access.BlockedCustomer
		if err := rows.Scan(&b.CustomerID, &b.Reason, &b.BlockedBy, &b.BlockedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// IsStaff reports whether the ID belongs to a staff member.
func (db *DB) IsStaff(ctx context.Context, staffID int64) (bool, error) {
	var n int
	row := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM staff WHERE id = ?`, staffID)
	if err := row.Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddStaff registers a staff member, optionally scoped to a complex.
func (db *DB) AddStaff(ctx context.Context, name string, complexID *int64, isAdmin bool) (int64, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO staff (name, complex_id, is_admin) VALUES (?, ?, ?)`,
		name, complexID, isAdmin)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
