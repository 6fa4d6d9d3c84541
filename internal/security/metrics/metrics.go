package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the security module.
type Metrics struct {
	// Mode toggles by the mode being entered
	ModeToggles *prometheus.CounterVec

	// Detected injection attempts by submission surface
	InjectionAttempts *prometheus.CounterVec
}

// New creates a new Metrics instance with all security module metrics registered.
func New() *Metrics {
	return &Metrics{
		ModeToggles: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vulnshop_security_mode_toggles_total",
			Help: "Total security mode toggles by the mode entered",
		}, []string{"mode"}),

		InjectionAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vulnshop_security_injection_attempts_total",
			Help: "Total detected injection attempts by submission surface",
		}, []string{"surface"}),
	}
}

// IncrementToggle records a mode transition.
func (m *Metrics) IncrementToggle(mode string) {
	if m != nil {
		m.ModeToggles.WithLabelValues(mode).Inc()
	}
}

// IncrementInjectionAttempt records a detected injection attempt.
func (m *Metrics) IncrementInjectionAttempt(surface string) {
	if m != nil {
		m.InjectionAttempts.WithLabelValues(surface).Inc()
	}
}
