package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cancha",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	reservesCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cancha",
			Name:      "reserves_created_total",
			Help:      "Reserves created by initial status.",
		},
		[]string{"status"},
	)

	statusChangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cancha",
			Name:      "reserve_status_changes_total",
			Help:      "Reserve status transitions by target status.",
		},
		[]string{"status"},
	)

	cacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cancha",
			Name:      "catalog_cache_requests_total",
			Help:      "Catalog cache lookups by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers all collectors with the default registry. Safe to
// call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestsTotal,
			reservesCreatedTotal,
			statusChangesTotal,
			cacheRequestsTotal,
		)
	})
}

// IncHTTP counts one request to an endpoint.
func IncHTTP(endpoint string) {
	httpRequestsTotal.WithLabelValues(endpoint).Inc()
}

// IncReserveCreated counts one created reserve.
func IncReserveCreated(status string) {
	reservesCreatedTotal.WithLabelValues(status).Inc()
}

// IncStatusChange counts one status transition.
func IncStatusChange(status string) {
	statusChangesTotal.WithLabelValues(status).Inc()
}

// IncCache counts one catalog cache lookup outcome (hit, miss, error).
func IncCache(outcome string) {
	cacheRequestsTotal.WithLabelValues(outcome).Inc()
}
