package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the version registries.
type Metrics struct {
	Operations          *prometheus.CounterVec
	OperationDuration   *prometheus.HistogramVec
	AuxiliaryRegistries prometheus.Counter
	SuitesMigrated      prometheus.Counter
}

// New creates a new Metrics instance with all registry metrics registered.
func New() *Metrics {
	return &Metrics{
		Operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assetgov_registry_operations_total",
			Help: "Registry operations by name and outcome",
		}, []string{"operation", "outcome"}),
		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "assetgov_registry_operation_duration_seconds",
			Help:    "Duration of registry operations including the substrate lock wait",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}, []string{"operation"}),
		AuxiliaryRegistries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "assetgov_auxiliary_registries_created_total",
			Help: "Auxiliary registries derived during suite migrations",
		}),
		SuitesMigrated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "assetgov_suites_migrated_total",
			Help: "Suites whose authority was moved to another registry",
		}),
	}
}

// ObserveOperation records the outcome and duration of one operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncAuxiliaryRegistries() {
	if m == nil {
		return
	}
	m.AuxiliaryRegistries.Inc()
}

func (m *Metrics) IncSuitesMigrated() {
	if m == nil {
		return
	}
	m.SuitesMigrated.Inc()
}
