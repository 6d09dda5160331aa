package pricing

import (
	"testing"

	"cancha/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestApplyPromotion(t *testing.T) {
	t.Run("NilPromotion", func(t *testing.T) {
		res := ApplyPromotion(5000, nil)
		assert.Equal(t, float64(5000), res.FinalPrice)
		assert.Zero(t, res.Discount)
	})

	t.Run("PercentageDiscount", func(t *testing.T) {
		res := ApplyPromotion(5000, &models.Promotion{Type: models.PromotionPercentageDiscount, Value: 20})
		assert.Equal(t, float64(4000), res.FinalPrice)
		assert.Equal(t, float64(1000), res.Discount)
	})

	t.Run("PercentageBounds", func(t *testing.T) {
		res := ApplyPromotion(5000, &models.Promotion{Type: models.PromotionPercentageDiscount, Value: 0})
		assert.Equal(t, float64(5000), res.FinalPrice)

		res = ApplyPromotion(5000, &models.Promotion{Type: models.PromotionPercentageDiscount, Value: 100})
		assert.Equal(t, float64(0), res.FinalPrice)
		assert.LessOrEqual(t, res.FinalPrice, float64(5000))
	})

	t.Run("FixedAmountDiscount", func(t *testing.T) {
		res := ApplyPromotion(5000, &models.Promotion{Type: models.PromotionFixedAmountDiscount, Value: 1500})
		assert.Equal(t, float64(3500), res.FinalPrice)
		assert.Equal(t, float64(1500), res.Discount)
	})

	t.Run("FixedAmountClampedToBase", func(t *testing.T) {
		res := ApplyPromotion(1000, &models.Promotion{Type: models.PromotionFixedAmountDiscount, Value: 9999})
		assert.Equal(t, float64(0), res.FinalPrice)
		assert.Equal(t, float64(1000), res.Discount)
	})

	t.Run("FixedPrice", func(t *testing.T) {
		res := ApplyPromotion(5000, &models.Promotion{Type: models.PromotionFixedPrice, Value: 3000})
		assert.Equal(t, float64(3000), res.FinalPrice)
		assert.Equal(t, float64(2000), res.Discount)
	})

	t.Run("FixedPriceAboveBaseNotClamped", func(t *testing.T) {
		// Historical behavior: the discount field goes negative.
		res := ApplyPromotion(2000, &models.Promotion{Type: models.PromotionFixedPrice, Value: 3000})
		assert.Equal(t, float64(3000), res.FinalPrice)
		assert.Equal(t, float64(-1000), res.Discount)
	})

	t.Run("GiftProduct", func(t *testing.T) {
		gifts := []models.GiftProduct{{ProductID: 4, ProductName: "Gatorade", Quantity: 2}}
		res := ApplyPromotion(5000, &models.Promotion{Type: models.PromotionGiftProduct, Value: 0, GiftProducts: gifts})
		assert.Equal(t, float64(5000), res.FinalPrice)
		assert.Zero(t, res.Discount)
		assert.Equal(t, gifts, res.GiftProducts)
	})

	t.Run("UnknownTypePassesThrough", func(t *testing.T) {
		res := ApplyPromotion(5000, &models.Promotion{Type: "SOMETHING_ELSE", Value: 50})
		assert.Equal(t, float64(5000), res.FinalPrice)
		assert.Zero(t, res.Discount)
	})
}

func TestResolverApplyPromotionRecordsMetrics(t *testing.T) {
	logger := zerolog.Nop()
	m := NewMetrics("test_promotions")
	r := NewResolver(&logger, m)

	res := r.ApplyPromotion(5000, &models.Promotion{Type: models.PromotionPercentageDiscount, Value: 10})
	assert.Equal(t, float64(4500), res.FinalPrice)
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.PromotionsApplied.WithLabelValues(string(models.PromotionPercentageDiscount))))

	// A nil promotion is a pass-through, not an application.
	_ = r.ApplyPromotion(5000, nil)
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.PromotionsApplied.WithLabelValues(string(models.PromotionPercentageDiscount))))

	_ = r.ApplyPromotion(5000, &models.Promotion{Type: models.PromotionGiftProduct})
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.PromotionsApplied.WithLabelValues(string(models.PromotionGiftProduct))))
}
