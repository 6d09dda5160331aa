package models

import "time"

// PromotionType defines how a promotion transforms a resolved price.
type PromotionType string

const (
	PromotionPercentageDiscount  PromotionType = "PERCENTAGE_DISCOUNT"
	PromotionFixedAmountDiscount PromotionType = "FIXED_AMOUNT_DISCOUNT"
	PromotionFixedPrice          PromotionType = "FIXED_PRICE"
	PromotionGiftProduct         PromotionType = "GIFT_PRODUCT"
)

// GiftProduct is a product attached to a GIFT_PRODUCT promotion, handed to
// the sales subsystem for fulfillment.
type GiftProduct struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// Promotion is a discount or gift rule optionally applied to a reserve's
// resolved price. It never mutates the underlying Rate, and at most one
// promotion applies per reserve.
type Promotion struct {
	ID           int64         `json:"id"`
	ComplexID    *int64        `json:"complex_id,omitempty"`
	Name         string        `json:"name"`
	Type         PromotionType `json:"type"`
	Value        float64       `json:"value"`
	GiftProducts []GiftProduct `json:"gift_products,omitempty"`
	IsActive     bool          `json:"is_active"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
