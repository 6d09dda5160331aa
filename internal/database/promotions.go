package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cancha/internal/models"
)

// CreatePromotion inserts a promotion with its gift products.
func (db *DB) CreatePromotion(ctx context.Context, p *models.Promotion) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO promotions (complex_id, name, type, value, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ComplexID, p.Name, string(p.Type), p.Value, p.IsActive, now, now)
	if err != nil {
		return fmt.Errorf("insert promotion: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, g := range p.GiftProducts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO promotion_gifts (promotion_id, product_id, quantity) VALUES (?, ?, ?)`,
			id, g.ProductID, g.Quantity); err != nil {
			return fmt.Errorf("attach gift %d: %w", g.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// GetPromotion returns a promotion with gift products by ID.
func (db *DB) GetPromotion(ctx context.Context, id int64) (*models.Promotion, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, complex_id, name, type, value, is_active, created_at, updated_at
		FROM promotions WHERE id = ?`, id)

	var p models.Promotion
	var promoType string
	err := row.Scan(&p.ID, &p.ComplexID, &p.Name, &promoType, &p.Value, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Type = models.PromotionType(promoType)

	if p.GiftProducts, err = db.promotionGifts(ctx, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPromotions returns active promotions visible to a complex.
func (db *DB) ListPromotions(ctx context.Context, complexID int64) ([]models.Promotion, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, complex_id, name, type, value, is_active, created_at, updated_at
		FROM promotions
		WHERE is_active = 1 AND (complex_id IS NULL OR complex_id = ?)
		ORDER BY name`, complexID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Promotion
	for rows.Next() {
		var p models.Promotion
		var promoType string
		if err := rows.Scan(&p.ID, &p.ComplexID, &p.Name, &promoType, &p.Value, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Type = models.PromotionType(promoType)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if out[i].GiftProducts, err = db.promotionGifts(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DeactivatePromotion soft-deletes a promotion.
func (db *DB) DeactivatePromotion(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx, `
		UPDATE promotions SET is_active = 0, updated_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

func (db *DB) promotionGifts(ctx context.Context, promotionID int64) ([]models.GiftProduct, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT pg.product_id, p.name, pg.quantity
		FROM promotion_gifts pg
		JOIN products p ON p.id = pg.product_id
		WHERE pg.promotion_id = ?
		ORDER BY pg.product_id`, promotionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.GiftProduct
	for rows.Next() {
		var g models.GiftProduct
		if err := rows.Scan(&g.ProductID, &g.ProductName, &g.Quantity); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// CreateProduct inserts a product usable as a promotion gift.
func (db *DB) CreateProduct(ctx context.Context, name string, price float64) (int64, error) {
	now := time.Now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO products (name, price, is_active, created_at, updated_at)
		VALUES (?, ?, 1, ?, ?)`, name, price, now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
