package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification module.
// Tracks sample construction, verdict throughput, and critical path durations.
type Metrics struct {
	SamplesBuilt        prometheus.Counter
	RecordsSampled      prometheus.Counter
	Verdicts            *prometheus.CounterVec
	BuildSampleDuration prometheus.Histogram
	SummarizeDuration   prometheus.Histogram
}

// New creates a new Metrics instance with all verification module metrics registered.
func New() *Metrics {
	return &Metrics{
		SamplesBuilt: promauto.NewCounter(prometheus.CounterOpts{
			Name: "seatcheck_samples_built_total",
			Help: "Total number of verification samples constructed",
		}),
		RecordsSampled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "seatcheck_records_sampled_total",
			Help: "Total number of verification records created by sampling",
		}),
		Verdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seatcheck_verdicts_total",
			Help: "Total record verdicts applied, by resulting status",
		}, []string{"status"}),
		BuildSampleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "seatcheck_build_sample_duration_seconds",
			Help:    "Duration of BuildSample operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		SummarizeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "seatcheck_summarize_duration_seconds",
			Help:    "Duration of Summarize operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementSampleBuilt records a completed sample of n records.
func (m *Metrics) IncrementSampleBuilt(n int) {
	m.SamplesBuilt.Inc()
	m.RecordsSampled.Add(float64(n))
}

// IncrementVerdict records one applied verdict.
func (m *Metrics) IncrementVerdict(status string) {
	m.Verdicts.WithLabelValues(status).Inc()
}

// ObserveBuildSample records the duration of a BuildSample operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveBuildSample(start time.Time) {
	m.BuildSampleDuration.Observe(time.Since(start).Seconds())
}

// ObserveSummarize records the duration of a Summarize operation.
func (m *Metrics) ObserveSummarize(start time.Time) {
	m.SummarizeDuration.Observe(time.Since(start).Seconds())
}
