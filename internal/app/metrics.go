package app

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Event outcomes recorded by Metrics.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// Metrics counts controller activity. One instance is shared by all
// controllers of a process.
type Metrics struct {
	events       *prometheus.CounterVec
	loadFailures prometheus.Counter
}

// NewMetrics creates the controller counters and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quotekeeper",
				Name:      "ui_events_total",
				Help:      "UI events dispatched, by event and outcome.",
			},
			[]string{"event", "outcome"},
		),
		loadFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "quotekeeper",
				Name:      "load_attempt_failures_total",
				Help:      "Failed quote list fetch attempts, including retried ones.",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(m.events, m.loadFailures)
	}

	return m
}

func (m *Metrics) observe(event string, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
	}

	m.events.WithLabelValues(event, outcome).Inc()
}
