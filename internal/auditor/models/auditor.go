// Package models holds the auditor directory aggregate.
package models

import (
	"net/mail"
	"strings"
	"time"

	id "foodaudit/pkg/domain"
	dErrors "foodaudit/pkg/domain-errors"
)

// Auditor is a directory entry for one inspector.
//
// Invariant: AssignedAudits mirrors the audits whose AuditorID points back at
// this auditor. The directory service maintains both sides inside one
// transactional boundary; the aggregate only offers the local half.
type Auditor struct {
	ID             id.AuditorID `json:"id"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	Phone          string       `json:"phone,omitempty"`
	Role           string       `json:"role,omitempty"`
	AssignedAudits []id.AuditID `json:"assigned_audits"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// New validates directory fields and returns a fresh entry with no
// assignments.
func New(auditorID id.AuditorID, name, email, phone, role string, now time.Time) (*Auditor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "auditor name must not be empty")
	}
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, dErrors.Newf(dErrors.CodeValidation, "invalid auditor email %q", email)
	}
	return &Auditor{
		ID:             auditorID,
		Name:           name,
		Email:          strings.ToLower(email),
		Phone:          strings.TrimSpace(phone),
		Role:           strings.TrimSpace(role),
		AssignedAudits: []id.AuditID{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Assigned reports whether the audit appears in this auditor's workload.
func (a *Auditor) Assigned(auditID id.AuditID) bool {
	for _, existing := range a.AssignedAudits {
		if existing == auditID {
			return true
		}
	}
	return false
}

// AddAssignment appends the audit to the workload. Adding an audit twice is a
// no-op, not an error: the caller may be repairing a half-applied link.
func (a *Auditor) AddAssignment(auditID id.AuditID, now time.Time) {
	if a.Assigned(auditID) {
		return
	}
	a.AssignedAudits = append(a.AssignedAudits, auditID)
	a.UpdatedAt = now
}

// RemoveAssignment drops the audit from the workload and reports whether it
// was present.
func (a *Auditor) RemoveAssignment(auditID id.AuditID, now time.Time) bool {
	for i, existing := range a.AssignedAudits {
		if existing == auditID {
			a.AssignedAudits = append(a.AssignedAudits[:i], a.AssignedAudits[i+1:]...)
			a.UpdatedAt = now
			return true
		}
	}
	return false
}

// Clone deep-copies the entry so stores never hand out aliased state.
func (a *Auditor) Clone() *Auditor {
	cp := *a
	cp.AssignedAudits = append([]id.AuditID(nil), a.AssignedAudits...)
	return &cp
}
