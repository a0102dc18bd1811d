package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for suite deployments.
type Metrics struct {
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	SuitesDeployed    prometheus.Counter
	StoragesReused    prometheus.Counter
	Rejections        *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assetgov_deployment_operations_total",
			Help: "Coordinator operations by name and outcome",
		}, []string{"operation", "outcome"}),
		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "assetgov_deployment_operation_duration_seconds",
			Help:    "Duration of coordinator operations including the substrate lock wait",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		SuitesDeployed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "assetgov_suites_deployed_total",
			Help: "Suites deployed by the coordinator",
		}),
		StoragesReused: promauto.NewCounter(prometheus.CounterOpts{
			Name: "assetgov_eligibility_storages_reused_total",
			Help: "Deployments that attached to an existing eligibility storage",
		}),
		Rejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assetgov_deployment_rejections_total",
			Help: "Deployments refused before any write, by error code",
		}, []string{"code"}),
	}
}

// ObserveOperation records the outcome and duration of one operation.
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

func (m *Metrics) IncSuitesDeployed(reusedStorage bool) {
	if m == nil {
		return
	}
	m.SuitesDeployed.Inc()
	if reusedStorage {
		m.StoragesReused.Inc()
	}
}

func (m *Metrics) IncRejection(code string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(code).Inc()
}
