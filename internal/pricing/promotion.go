package pricing

import "cancha/internal/models"

// PromotionResult is the outcome of applying a promotion to a base price.
type PromotionResult struct {
	FinalPrice   float64              `json:"final_price"`
	Discount     float64              `json:"discount"`
	GiftProducts []models.GiftProduct `json:"gift_products,omitempty"`
}

// ApplyPromotion transforms a resolved base price by the promotion rule.
// A nil promotion or an unknown type leaves the price untouched.
//
// FIXED_AMOUNT discounts are clamped so the final price never goes
// negative. FIXED_PRICE is not: a promotion value above the base price
// yields a negative discount figure, matching the historical behavior
// the sales reports already depend on.
func ApplyPromotion(basePrice float64, promo *models.Promotion) PromotionResult {
	if promo == nil {
		return PromotionResult{FinalPrice: basePrice}
	}

	switch promo.Type {
	case models.PromotionPercentageDiscount:
		discount := basePrice * (promo.Value / 100)
		return PromotionResult{
			FinalPrice: basePrice - discount,
			Discount:   discount,
		}
	case models.PromotionFixedAmountDiscount:
		discount := promo.Value
		if discount > basePrice {
			discount = basePrice
		}
		return PromotionResult{
			FinalPrice: basePrice - discount,
			Discount:   discount,
		}
	case models.PromotionFixedPrice:
		return PromotionResult{
			FinalPrice: promo.Value,
			Discount:   basePrice - promo.Value,
		}
	case models.PromotionGiftProduct:
		return PromotionResult{
			FinalPrice:   basePrice,
			Discount:     0,
			GiftProducts: promo.GiftProducts,
		}
	default:
		return PromotionResult{FinalPrice: basePrice}
	}
}
