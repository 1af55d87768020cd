package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SchedulingMetrics records assignment workflow outcomes.
type SchedulingMetrics struct {
	created     *prometheus.CounterVec
	transitions *prometheus.CounterVec
	eligibility *prometheus.HistogramVec
}

// NewSchedulingMetrics registers the scheduling metrics on the provided registerer.
func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	if reg == nil {
		return &SchedulingMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignments_created_total",
		Help: "Assignment creation attempts by outcome.",
	}, []string{"outcome"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_transitions_total",
		Help: "Assignment status transitions by from/to status.",
	}, []string{"from", "to"})
	eligibility := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eligibility_check_duration_seconds",
		Help:    "Duration of eligible-agent evaluations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})
	reg.MustRegister(created, transitions, eligibility)
	return &SchedulingMetrics{
		created:     created,
		transitions: transitions,
		eligibility: eligibility,
	}
}

// IncCreated increments the creation counter for the given outcome.
func (m *SchedulingMetrics) IncCreated(outcome string) {
	if m == nil || m.created == nil {
		return
	}
	m.created.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncTransition increments the transition counter for the given edge.
func (m *SchedulingMetrics) IncTransition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// ObserveEligibility records the duration of an eligibility evaluation.
func (m *SchedulingMetrics) ObserveEligibility(result string, duration time.Duration) {
	if m == nil || m.eligibility == nil {
		return
	}
	m.eligibility.WithLabelValues(normalizeLabel(result)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
