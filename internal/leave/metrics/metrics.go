package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the leave domain.
type Metrics struct {
	Submitted prometheus.Counter
	Decided   *prometheus.CounterVec
}

// New creates and registers all leave metrics.
func New() *Metrics {
	return &Metrics{
		Submitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hrportal_leaves_submitted_total",
			Help: "Leave applications submitted",
		}),
		Decided: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hrportal_leaves_decided_total",
			Help: "Leave applications decided, by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncrementSubmitted() {
	if m != nil {
		m.Submitted.Inc()
	}
}

func (m *Metrics) ObserveDecision(outcome string) {
	if m != nil {
		m.Decided.WithLabelValues(outcome).Inc()
	}
}
