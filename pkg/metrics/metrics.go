// Package metrics exports module statistics and session outcomes to Prometheus.
package metrics

import (
	"time"

	"github.com/Ramsey-B/fern/pkg/engine"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const DefaultNamespace = "fern"

const (
	roleSource = "source"
	roleTarget = "target"
)

// Exporter turns reset-on-read module statistics into monotonic Prometheus counters.
type Exporter struct {
	moduleInvocations *prometheus.CounterVec
	moduleErrors      *prometheus.CounterVec
	moduleLatency     *prometheus.CounterVec
	moduleMaxLatency  *prometheus.GaugeVec

	sessionsTotal   *prometheus.CounterVec
	sessionDuration prometheus.Histogram
	auditsTotal     *prometheus.CounterVec
}

// NewExporter registers the fern collectors on registerer. A nil registerer uses the default one.
func NewExporter(namespace string, registerer prometheus.Registerer) *Exporter {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &Exporter{
		moduleInvocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "module",
				Name:      "invocations_total",
				Help:      "Total number of module reads and writes by scheme and role",
			},
			[]string{"scheme", "role"},
		),
		moduleErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "module",
				Name:      "errors_total",
				Help:      "Total number of failed module reads and writes by scheme and role",
			},
			[]string{"scheme", "role"},
		),
		moduleLatency: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "module",
				Name:      "latency_seconds_total",
				Help:      "Cumulative time spent in module reads and writes in seconds",
			},
			[]string{"scheme", "role"},
		),
		moduleMaxLatency: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "module",
				Name:      "max_latency_seconds",
				Help:      "Slowest module read or write since the previous collection",
			},
			[]string{"scheme", "role"},
		),
		sessionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "processed_total",
				Help:      "Total number of processed sessions by outcome",
			},
			[]string{"outcome"},
		),
		sessionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "duration_seconds",
				Help:      "Duration of session processing in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),
		auditsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "audits_total",
				Help:      "Total number of audits raised during processing by status",
			},
			[]string{"status"},
		),
	}
}

// Collect drains the statistics of every registered module.
// Counters accumulate across calls since each snapshot resets the module's counters.
func (e *Exporter) Collect(modules *engine.ModuleRegistry) {
	for _, registration := range modules.Registrations() {
		stats, ok := modules.Statistics(registration.Scheme)
		if !ok {
			continue
		}
		snapshot := stats.Snapshot()
		e.record(registration.Scheme, roleSource, snapshot.Source)
		e.record(registration.Scheme, roleTarget, snapshot.Target)
	}
}

func (e *Exporter) record(scheme, role string, snapshot engine.RoleSnapshot) {
	e.moduleInvocations.WithLabelValues(scheme, role).Add(float64(snapshot.Invocations))
	e.moduleErrors.WithLabelValues(scheme, role).Add(float64(snapshot.Errors))
	e.moduleLatency.WithLabelValues(scheme, role).Add(snapshot.TotalLatency.Seconds())
	e.moduleMaxLatency.WithLabelValues(scheme, role).Set(snapshot.MaxLatency.Seconds())
}

// ObserveSession records the outcome of one processed session.
func (e *Exporter) ObserveSession(session *engine.Session, elapsed time.Duration, err error) {
	e.sessionDuration.Observe(elapsed.Seconds())

	outcome := "success"
	switch {
	case err != nil:
		outcome = "fatal"
	case session.HasErrors():
		outcome = "error"
	case session.HasWarns():
		outcome = "warn"
	}
	e.sessionsTotal.WithLabelValues(outcome).Inc()

	for _, audit := range session.Audits() {
		e.auditsTotal.WithLabelValues(string(audit.Status)).Inc()
	}
}
