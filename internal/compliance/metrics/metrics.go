package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for compliance engines and their modules.
type Metrics struct {
	Checks            *prometheus.CounterVec
	ModuleDenials     *prometheus.CounterVec
	HookFailures      *prometheus.CounterVec
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// New creates a new Metrics instance with all compliance metrics registered.
func New() *Metrics {
	return &Metrics{
		Checks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assetgov_compliance_checks_total",
			Help: "Transfer checks by verdict",
		}, []string{"verdict"}),
		ModuleDenials: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assetgov_compliance_module_denials_total",
			Help: "Transfer checks refused, by module name",
		}, []string{"module"}),
		HookFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assetgov_compliance_hook_failures_total",
			Help: "Module hook failures reverted without affecting the committed change",
		}, []string{"module", "hook"}),
		Operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assetgov_compliance_operations_total",
			Help: "Administrative compliance operations by name and outcome",
		}, []string{"operation", "outcome"}),
		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "assetgov_compliance_operation_duration_seconds",
			Help:    "Duration of administrative compliance operations",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"operation"}),
	}
}

func (m *Metrics) ObserveCheck(allowed bool) {
	if m == nil {
		return
	}
	verdict := "allowed"
	if !allowed {
		verdict = "denied"
	}
	m.Checks.WithLabelValues(verdict).Inc()
}

func (m *Metrics) IncModuleDenial(module string) {
	if m == nil {
		return
	}
	m.ModuleDenials.WithLabelValues(module).Inc()
}

func (m *Metrics) IncHookFailure(module, hook string) {
	if m == nil {
		return
	}
	m.HookFailures.WithLabelValues(module, hook).Inc()
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
