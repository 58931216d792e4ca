package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the custom fields engine.
type Metrics struct {
	FieldsCreated      prometheus.Counter
	ValuesUpserted     prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	UpsertDuration     prometheus.Histogram
}

// New creates a new Metrics instance with all fields module metrics registered.
func New() *Metrics {
	return &Metrics{
		FieldsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fieldgate_fields_created_total",
			Help: "Total number of field definitions created",
		}),
		ValuesUpserted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fieldgate_field_values_upserted_total",
			Help: "Total number of field values written",
		}),
		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fieldgate_field_validation_failures_total",
			Help: "Value validation failures by field type",
		}, []string{"field_type"}),
		UpsertDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fieldgate_field_upsert_duration_seconds",
			Help:    "Duration of UpsertValues batches",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementFieldsCreated records a successful field definition creation.
func (m *Metrics) IncrementFieldsCreated() {
	m.FieldsCreated.Inc()
}

// AddValuesUpserted records a batch of persisted field values.
func (m *Metrics) AddValuesUpserted(count int) {
	m.ValuesUpserted.Add(float64(count))
}

// IncrementValidationFailures records a rejected value for a field type.
func (m *Metrics) IncrementValidationFailures(fieldType string) {
	m.ValidationFailures.WithLabelValues(fieldType).Inc()
}

// ObserveUpsertDuration records the duration of an UpsertValues batch.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveUpsertDuration(start time.Time) {
	m.UpsertDuration.Observe(time.Since(start).Seconds())
}
