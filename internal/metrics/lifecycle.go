// Package metrics holds the Prometheus collectors for document lifecycle activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Lifecycle counts transitions and the two non-fatal inconsistency modes.
type Lifecycle struct {
	transitions     *prometheus.CounterVec
	auditGaps       *prometheus.CounterVec
	orphanedObjects prometheus.Counter
}

// NewLifecycle creates the collectors and registers them on reg.
func NewLifecycle(reg prometheus.Registerer) (*Lifecycle, error) {
	m := &Lifecycle{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "docport",
				Subsystem: "lifecycle",
				Name:      "transitions_total",
				Help:      "Lifecycle transition attempts by action and outcome.",
			},
			[]string{"action", "outcome"},
		),
		auditGaps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "docport",
				Subsystem: "lifecycle",
				Name:      "audit_gaps_total",
				Help:      "Event log appends that failed after a successful status write.",
			},
			[]string{"action"},
		),
		orphanedObjects: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "docport",
				Subsystem: "exchange",
				Name:      "orphaned_objects_total",
				Help:      "Uploaded objects left without a document record.",
			},
		),
	}

	for _, c := range []prometheus.Collector{m.transitions, m.auditGaps, m.orphanedObjects} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Transition records one transition attempt.
func (m *Lifecycle) Transition(action, outcome string) {
	m.transitions.WithLabelValues(action, outcome).Inc()
}

// AuditGap records a failed event append.
func (m *Lifecycle) AuditGap(action string) {
	m.auditGaps.WithLabelValues(action).Inc()
}

// OrphanedObject records an upload whose registration failed.
func (m *Lifecycle) OrphanedObject() {
	m.orphanedObjects.Inc()
}
