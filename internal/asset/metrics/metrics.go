package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for asset ledgers.
type Metrics struct {
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	Volume            *prometheus.CounterVec
	Refusals          *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assetgov_asset_operations_total",
			Help: "Asset operations by name and outcome",
		}, []string{"operation", "outcome"}),
		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "assetgov_asset_operation_duration_seconds",
			Help:    "Duration of asset operations including compliance evaluation",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}, []string{"operation"}),
		Volume: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assetgov_asset_volume_total",
			Help: "Units moved by committed operations",
		}, []string{"operation"}),
		Refusals: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assetgov_asset_refusals_total",
			Help: "Balance changes refused before commit, by reason",
		}, []string{"reason"}),
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

func (m *Metrics) AddVolume(operation string, amount uint64) {
	if m == nil {
		return
	}
	m.Volume.WithLabelValues(operation).Add(float64(amount))
}

func (m *Metrics) IncRefusal(reason string) {
	if m == nil {
		return
	}
	m.Refusals.WithLabelValues(reason).Inc()
}
