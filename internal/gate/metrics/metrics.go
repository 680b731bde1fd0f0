package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for gate decisions.
type Metrics struct {
	Decisions *prometheus.CounterVec
}

// New creates and registers the gate metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hrportal_gate_decisions_total",
			Help: "Gate decisions by outcome and redirect target",
		}, []string{"outcome", "target"}),
	}
}

// ObserveAllow records a pass-through decision.
func (m *Metrics) ObserveAllow() {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues("allow", "").Inc()
}

// ObserveRedirect records a redirect decision and its target.
func (m *Metrics) ObserveRedirect(target string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues("redirect", target).Inc()
}
