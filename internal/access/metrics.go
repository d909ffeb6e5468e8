package access

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts engine decisions and times visibility resolution. A nil
// *Metrics is valid and records nothing, so wiring can skip registration
// when metrics are disabled.
type Metrics struct {
	decisions         *prometheus.CounterVec
	visibilityResolve *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "access_decisions_total",
			Help: "Access check outcomes by module, result and denying gate.",
		}, []string{"module", "result", "source"}),
		visibilityResolve: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "access_visibility_resolve_seconds",
			Help:    "Time spent resolving record-visibility filters.",
			Buckets: prometheus.DefBuckets,
		}, []string{"module"}),
	}
}

func (m *Metrics) RecordDecision(module, result string, source Source) {
	if m == nil {
		return
	}
	if module == "" {
		module = "multi"
	}
	m.decisions.WithLabelValues(module, result, string(source)).Inc()
}

func (m *Metrics) ObserveVisibilityResolve(module string, d time.Duration) {
	if m == nil {
		return
	}
	m.visibilityResolve.WithLabelValues(module).Observe(d.Seconds())
}
