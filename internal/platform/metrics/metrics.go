// Package metrics holds the process-wide substrate metrics. Component
// packages keep their own metrics next to their services.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics describes how the execution substrate is doing. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Operations    *prometheus.CounterVec
	RevertedSteps prometheus.Histogram
	LockWait      prometheus.Histogram
	Objects       prometheus.Gauge
}

// New creates and registers the substrate metrics.
func New() *Metrics {
	return &Metrics{
		Operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assetgov_substrate_operations_total",
			Help: "Substrate operations by outcome (committed or reverted)",
		}, []string{"outcome"}),
		RevertedSteps: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "assetgov_substrate_reverted_steps",
			Help:    "Journal entries undone per reverted operation",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		LockWait: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "assetgov_substrate_lock_wait_seconds",
			Help:    "Time an operation waited before it was admitted",
			Buckets: prometheus.DefBuckets,
		}),
		Objects: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "assetgov_substrate_objects",
			Help: "Components and code objects deployed in the address space",
		}),
	}
}

func (m *Metrics) ObserveCommit(objects int) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues("committed").Inc()
	m.Objects.Set(float64(objects))
}

func (m *Metrics) ObserveRevert(steps int) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues("reverted").Inc()
	m.RevertedSteps.Observe(float64(steps))
}

func (m *Metrics) ObserveLockWait(d time.Duration) {
	if m == nil {
		return
	}
	m.LockWait.Observe(d.Seconds())
}
