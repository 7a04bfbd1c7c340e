package consent

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics provides observability for consent enforcement.
type Metrics struct {
	// Cookie decisions by action and reason
	Decisions *prometheus.CounterVec

	// Saved consent records by source (accept_all, reject_all, form)
	Saves *prometheus.CounterVec

	// Stored consent values that could not be parsed
	MalformedRecords prometheus.Counter

	// Duration of a full enforcement pass
	EnforceLatency prometheus.Histogram
}

// NewMetrics creates the consent metrics and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "consent_cookie_decisions_total",
			Help: "Total cookie decisions by action and reason",
		}, []string{"action", "reason"}),

		Saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "consent_records_saved_total",
			Help: "Total consent records written by source",
		}, []string{"source"}),

		MalformedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "consent_records_malformed_total",
			Help: "Total stored consent records that failed to parse",
		}),

		EnforceLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "consent_enforce_duration_seconds",
			Help:    "Duration of a cookie enforcement pass",
			Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Decisions, m.Saves, m.MalformedRecords, m.EnforceLatency)
	}
	return m
}

// IncrementDecision records one cookie decision.
func (m *Metrics) IncrementDecision(action Action, reason Reason) {
	if m != nil {
		m.Decisions.WithLabelValues(string(action), string(reason)).Inc()
	}
}

// IncrementSave records a written consent record.
func (m *Metrics) IncrementSave(source string) {
	if m != nil {
		m.Saves.WithLabelValues(source).Inc()
	}
}

// IncrementMalformed records an unparseable stored record.
func (m *Metrics) IncrementMalformed() {
	if m != nil {
		m.MalformedRecords.Inc()
	}
}

// ObserveEnforceLatency records the duration of an enforcement pass.
func (m *Metrics) ObserveEnforceLatency(d time.Duration) {
	if m != nil {
		m.EnforceLatency.Observe(d.Seconds())
	}
}
