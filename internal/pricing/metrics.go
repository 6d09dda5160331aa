package pricing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for price resolution.
type Metrics struct {
	// ResolutionsTotal counts resolutions by outcome.
	ResolutionsTotal *prometheus.CounterVec

	// ResolutionDuration is the time spent resolving a price.
	ResolutionDuration prometheus.Histogram

	// PromotionsApplied counts promotion applications by type.
	PromotionsApplied *prometheus.CounterVec
}

// NewMetrics creates and registers pricing metrics.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ResolutionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "price_resolutions_total",
				Help:      "Price resolutions by outcome",
			},
			[]string{"result"},
		),

		ResolutionDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "price_resolution_duration_seconds",
				Help:      "Time spent resolving a price",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05},
			},
		),

		PromotionsApplied: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "promotions_applied_total",
				Help:      "Promotions applied to quotes by type",
			},
			[]string{"type"},
		),
	}
}

// IncResolution increments the resolution counter for an outcome.
func (m *Metrics) IncResolution(result string) {
	m.ResolutionsTotal.WithLabelValues(result).Inc()
}

// ObserveResolution records the time taken by a resolution.
func (m *Metrics) ObserveResolution(seconds float64) {
	m.ResolutionDuration.Observe(seconds)
}

// IncPromotionApplied increments the promotion counter for a type.
func (m *Metrics) IncPromotionApplied(promoType string) {
	m.PromotionsApplied.WithLabelValues(promoType).Inc()
}
