package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification module.
type Metrics struct {
	Runs              prometheus.Counter
	AttributeOutcomes *prometheus.CounterVec
	RunDuration       prometheus.Histogram
}

// New creates a new Metrics instance with all verification metrics registered.
func New() *Metrics {
	return &Metrics{
		Runs: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fieldgate_verification_runs_total",
			Help: "Total profile verification runs",
		}),
		AttributeOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fieldgate_verification_attribute_outcomes_total",
			Help: "Per-attribute verification outcomes",
		}, []string{"outcome"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fieldgate_verification_run_duration_seconds",
			Help:    "Duration of full verification runs",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveRun records one completed verification run.
func (m *Metrics) ObserveRun(start time.Time, verified, unverified int) {
	m.Runs.Inc()
	m.AttributeOutcomes.WithLabelValues("verified").Add(float64(verified))
	m.AttributeOutcomes.WithLabelValues("unverified").Add(float64(unverified))
	m.RunDuration.Observe(time.Since(start).Seconds())
}
