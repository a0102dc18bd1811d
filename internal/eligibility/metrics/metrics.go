package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for eligibility administration.
type Metrics struct {
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	HoldersRegistered prometheus.Counter
	ClaimsAdded       *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assetgov_eligibility_operations_total",
			Help: "Eligibility operations by name and outcome",
		}, []string{"operation", "outcome"}),
		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "assetgov_eligibility_operation_duration_seconds",
			Help:    "Duration of eligibility operations including the substrate lock wait",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}, []string{"operation"}),
		HoldersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "assetgov_eligibility_holders_registered_total",
			Help: "Holders registered across all registries",
		}),
		ClaimsAdded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assetgov_eligibility_claims_added_total",
			Help: "Claims recorded by topic",
		}, []string{"topic"}),
	}
}

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

func (m *Metrics) IncHoldersRegistered() {
	if m == nil {
		return
	}
	m.HoldersRegistered.Inc()
}

func (m *Metrics) IncClaimsAdded(topic string) {
	if m == nil {
		return
	}
	m.ClaimsAdded.WithLabelValues(topic).Inc()
}
