// Package metrics exposes Prometheus counters for audit lifecycle activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	AuditsCreated      prometheus.Counter
	AuditsStarted      prometheus.Counter
	AuditsSubmitted    prometheus.Counter
	AuditsCompleted    prometheus.Counter
	RevisionsRequested prometheus.Counter
	AuditorsAssigned   prometheus.Counter
}

// New registers the lifecycle counters on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AuditsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foodaudit_audits_created_total",
			Help: "Audits created.",
		}),
		AuditsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foodaudit_audits_started_total",
			Help: "Audits moved from pending to in progress.",
		}),
		AuditsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foodaudit_audits_submitted_total",
			Help: "Audits submitted for review.",
		}),
		AuditsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foodaudit_audits_completed_total",
			Help: "Audits approved and completed.",
		}),
		RevisionsRequested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foodaudit_revisions_requested_total",
			Help: "Audits sent back for rework from review.",
		}),
		AuditorsAssigned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foodaudit_auditors_assigned_total",
			Help: "Audit-to-auditor assignments applied.",
		}),
	}
	reg.MustRegister(
		m.AuditsCreated, m.AuditsStarted, m.AuditsSubmitted,
		m.AuditsCompleted, m.RevisionsRequested, m.AuditorsAssigned,
	)
	return m
}
