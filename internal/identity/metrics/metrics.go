package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the identity domain.
type Metrics struct {
	UsersRegistered prometheus.Counter
	Logins          *prometheus.CounterVec
	ClaimsRefreshes prometheus.Counter
	Approvals       *prometheus.CounterVec
}

// New creates and registers all identity metrics.
func New() *Metrics {
	return &Metrics{
		UsersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hrportal_users_registered_total",
			Help: "Total number of accounts registered",
		}),
		Logins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hrportal_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),
		ClaimsRefreshes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hrportal_claims_refreshes_total",
			Help: "Session claim refreshes performed",
		}),
		Approvals: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hrportal_approval_actions_total",
			Help: "Admin approval queue actions by kind",
		}, []string{"action"}),
	}
}

func (m *Metrics) IncrementUsersRegistered() {
	if m != nil {
		m.UsersRegistered.Inc()
	}
}

func (m *Metrics) ObserveLogin(result string) {
	if m != nil {
		m.Logins.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) IncrementClaimsRefreshes() {
	if m != nil {
		m.ClaimsRefreshes.Inc()
	}
}

func (m *Metrics) ObserveApproval(action string) {
	if m != nil {
		m.Approvals.WithLabelValues(action).Inc()
	}
}
