package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's prometheus collectors.
type Metrics struct {
	OracleCalls       *prometheus.CounterVec
	OracleLatency     *prometheus.HistogramVec
	OracleFallbacks   *prometheus.CounterVec
	Transitions       *prometheus.CounterVec
	Submissions       *prometheus.CounterVec
	Reconciliations   *prometheus.CounterVec
	ImageSearchHits   prometheus.Counter
	ImageSearchMisses prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OracleCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_oracle_calls_total",
			Help: "Completion oracle calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		OracleLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_oracle_call_seconds",
			Help:    "Completion oracle call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		OracleFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_oracle_fallbacks_total",
			Help: "Times a feature used its static fallback instead of oracle output.",
		}, []string{"feature"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_request_transitions_total",
			Help: "Request status transitions by kind, target status and outcome.",
		}, []string{"kind", "status", "outcome"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_request_submissions_total",
			Help: "Request submissions by kind and outcome.",
		}, []string{"kind", "outcome"}),
		Reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_reconciliations_total",
			Help: "Profile update reconciliation events.",
		}, []string{"event"}),
		ImageSearchHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_image_search_cache_hits_total",
			Help: "Image search results served from cache.",
		}),
		ImageSearchMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_image_search_cache_misses_total",
			Help: "Image search lookups that went upstream.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.OracleCalls,
			m.OracleLatency,
			m.OracleFallbacks,
			m.Transitions,
			m.Submissions,
			m.Reconciliations,
			m.ImageSearchHits,
			m.ImageSearchMisses,
		)
	}
	return m
}

// NewNop returns unregistered collectors, for tests and one-shot commands.
func NewNop() *Metrics {
	return New(nil)
}

func (m *Metrics) ObserveOracle(operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.OracleCalls.WithLabelValues(operation, outcome).Inc()
	m.OracleLatency.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func (m *Metrics) Fallback(feature string) {
	if m == nil {
		return
	}
	m.OracleFallbacks.WithLabelValues(feature).Inc()
}

func (m *Metrics) Transition(kind, status string, err error) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(kind, status, outcomeOf(err)).Inc()
}

func (m *Metrics) Submission(kind string, err error) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(kind, outcomeOf(err)).Inc()
}

func (m *Metrics) Reconciliation(event string) {
	if m == nil {
		return
	}
	m.Reconciliations.WithLabelValues(event).Inc()
}

func outcomeOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) ImageSearch(cached bool) {
	if m == nil {
		return
	}
	if cached {
		m.ImageSearchHits.Inc()
		return
	}
	m.ImageSearchMisses.Inc()
}
