// Package events emits domain events for the audit trail. Events are
// transport-agnostic: services talk to Publisher and the wiring decides
// whether they land in Kafka or an in-memory sink.
package events

import (
	"context"
	"sync"
	"time"

	id "foodaudit/pkg/domain"
)

type Type string

const (
	TypeAuditCreated      Type = "audit.created"
	TypeAuditStarted      Type = "audit.started"
	TypeAuditSubmitted    Type = "audit.submitted"
	TypeRevisionRequested Type = "audit.revision_requested"
	TypeAuditApproved     Type = "audit.approved"
	TypeAuditDeleted      Type = "audit.deleted"
	TypeAuditorAssigned   Type = "auditor.assigned"
	TypeAuditorUnassigned Type = "auditor.unassigned"
)

// Event is one audit-trail entry. AuditID keys partitioning so all events for
// one audit stay ordered.
type Event struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      Type          `json:"type"`
	AuditID   id.AuditID    `json:"audit_id"`
	AuditorID *id.AuditorID `json:"auditor_id,omitempty"`
	Actor     string        `json:"actor,omitempty"`
	Detail    string        `json:"detail,omitempty"`
}

// Publisher captures domain events. Emit must be safe to call from request
// handlers: implementations either buffer or fail fast.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// MemorySink collects events in memory so tests can assert on what was
// emitted and single-node deployments keep a recent trail.
type MemorySink struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

func (s *MemorySink) Emit(_ context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a snapshot of everything emitted so far.
func (s *MemorySink) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event(nil), s.events...)
}

// ByAudit filters the trail for one audit.
func (s *MemorySink) ByAudit(auditID id.AuditID) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, event := range s.events {
		if event.AuditID == auditID {
			out = append(out, event)
		}
	}
	return out
}
