package controller

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the controller's Prometheus metrics.
type Metrics struct {
	StateTransitions   *prometheus.CounterVec
	ResolutionDuration prometheus.Histogram
	SupersededResults  prometheus.Counter
	Authenticated      prometheus.Gauge
}

// NewMetrics creates and registers the controller metrics. registry may be
// nil, in which case the default registerer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		StateTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relaydesk_auth_state_transitions_total",
				Help: "Authorization state machine transitions",
			},
			[]string{"state"},
		),
		ResolutionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "relaydesk_auth_resolution_duration_seconds",
				Help:    "Duration of profile/workspace/role resolution chains",
				Buckets: prometheus.DefBuckets,
			},
		),
		SupersededResults: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "relaydesk_auth_superseded_results_total",
				Help: "Async results discarded because a newer session or teardown superseded them",
			},
		),
		Authenticated: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "relaydesk_auth_authenticated",
				Help: "Whether a valid session is currently held (0 or 1)",
			},
		),
	}

	registry.MustRegister(
		m.StateTransitions,
		m.ResolutionDuration,
		m.SupersededResults,
		m.Authenticated,
	)
	return m
}

func (m *Metrics) observeState(s State) {
	if m == nil {
		return
	}
	m.StateTransitions.WithLabelValues(string(s.Status)).Inc()
	if s.Authenticated() {
		m.Authenticated.Set(1)
	} else {
		m.Authenticated.Set(0)
	}
}

func (m *Metrics) observeSuperseded() {
	if m != nil {
		m.SupersededResults.Inc()
	}
}
