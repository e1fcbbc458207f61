package admission

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeAllowed = "allowed"
	outcomeDenied  = "denied"
	outcomeError   = "error"
)

// Metrics counts admission outcomes. A nil *Metrics records nothing.
type Metrics struct {
	decisions *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		decisions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "usersvc",
			Name:      "admission_decisions_total",
			Help:      "Admission decisions by role, outcome and denial reason.",
		}, []string{"role", "outcome", "reason"}),
	}
}

func (m *Metrics) observe(role, outcome, reason string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(role, outcome, reason).Inc()
}
