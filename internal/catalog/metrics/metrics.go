package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the catalog module: query throughput
// and eligibility cache effectiveness.
type Metrics struct {
	Queries             *prometheus.CounterVec
	CacheHits           prometheus.Counter
	CacheMisses         prometheus.Counter
	EligibilityDuration prometheus.Histogram
}

// New creates a new Metrics instance with all catalog module metrics registered.
func New() *Metrics {
	return &Metrics{
		Queries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seatcheck_catalog_queries_total",
			Help: "Total catalog queries served, by operation",
		}, []string{"operation"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "seatcheck_catalog_cache_hits_total",
			Help: "Eligibility results served from cache",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "seatcheck_catalog_cache_misses_total",
			Help: "Eligibility results computed from the database",
		}),
		EligibilityDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "seatcheck_catalog_eligibility_duration_seconds",
			Help:    "Duration of eligibility checks including cache lookups",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementQuery records one served catalog query.
func (m *Metrics) IncrementQuery(operation string) {
	m.Queries.WithLabelValues(operation).Inc()
}

// ObserveEligibility records the duration of an eligibility check.
func (m *Metrics) ObserveEligibility(start time.Time) {
	m.EligibilityDuration.Observe(time.Since(start).Seconds())
}
