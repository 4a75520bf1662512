package models

import (
	"strings"
	"time"

	"foodaudit/internal/checklist"
	id "foodaudit/pkg/domain"
	dErrors "foodaudit/pkg/domain-errors"
)

// Audit is the aggregate root for one inspection run.
//
// Invariants:
//   - Sections is non-empty
//   - UpdatedAt >= CreatedAt; every mutation advances UpdatedAt
//   - Structural edits to Sections are legal only while Status is pending
//   - Responses are recorded only while Status is in-progress
//   - A completed audit has a response for every required item
//
// All times are UTC. DueDate is date-only: the time portion is truncated on
// construction so "due on the 15th" means the same thing in every timezone.
type Audit struct {
	ID          id.AuditID          `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Location    string              `json:"location,omitempty"`
	DueDate     time.Time           `json:"due_date"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	SubmittedAt *time.Time          `json:"submitted_at,omitempty"`
	Status      Status              `json:"status"`
	AuditorID   *id.AuditorID       `json:"auditor_id,omitempty"`
	Sections    checklist.Checklist `json:"sections"`
	Notes       string              `json:"notes,omitempty"`
	CreatedBy   id.UserID           `json:"created_by,omitempty"`
}

// New builds a pending audit around a checklist snapshot. The checklist is
// cloned so the caller's copy never aliases aggregate state.
func New(auditID id.AuditID, title, description, location string, sections checklist.Checklist, dueDate time.Time, createdBy id.UserID, now time.Time) (*Audit, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "audit title must not be empty")
	}
	if len(sections) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "audit must have at least one section")
	}
	return &Audit{
		ID:          auditID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Location:    strings.TrimSpace(location),
		DueDate:     DateOnly(dueDate),
		CreatedAt:   now,
		UpdatedAt:   now,
		Status:      StatusPending,
		Sections:    sections.Clone(),
		CreatedBy:   createdBy,
	}, nil
}

// DateOnly truncates a timestamp to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Touch advances the modification timestamp.
func (a *Audit) Touch(now time.Time) { a.UpdatedAt = now }

// Assigned reports whether an auditor is currently responsible for this run.
func (a *Audit) Assigned() bool { return a.AuditorID != nil && !a.AuditorID.IsNil() }

// EditStructure applies a structural edit to the checklist. Edits are legal
// only while the audit is pending; afterwards the structure is frozen so
// responses and findings always refer to the tree the auditor saw.
func (a *Audit) EditStructure(now time.Time, edit func(c *checklist.Checklist) error) error {
	if !a.Status.Editable() {
		return dErrors.New(dErrors.CodeInvalidState, "structure is locked once audit leaves pending")
	}
	if err := edit(&a.Sections); err != nil {
		return err
	}
	a.Touch(now)
	return nil
}

func (a *Audit) section(sectionID id.SectionID) (*checklist.Section, error) {
	for i := range a.Sections {
		if a.Sections[i].ID == sectionID {
			return &a.Sections[i], nil
		}
	}
	return nil, dErrors.Newf(dErrors.CodeNotFound, "section %q not found", sectionID)
}

func (a *Audit) item(sectionID id.SectionID, itemID id.ItemID) (*checklist.Item, error) {
	sec, err := a.section(sectionID)
	if err != nil {
		return nil, err
	}
	for i := range sec.Items {
		if sec.Items[i].ID == itemID {
			return &sec.Items[i], nil
		}
	}
	return nil, dErrors.Newf(dErrors.CodeNotFound, "item %q not found in section %q", itemID, sectionID)
}

// Item looks up one item for read-only use by services.
func (a *Audit) Item(sectionID id.SectionID, itemID id.ItemID) (checklist.Item, error) {
	item, err := a.item(sectionID, itemID)
	if err != nil {
		return checklist.Item{}, err
	}
	return *item, nil
}

// RecordResponse validates and stores one answer. Only legal while the audit
// is in progress.
func (a *Audit) RecordResponse(sectionID id.SectionID, itemID id.ItemID, value checklist.Response, notes string, now time.Time) error {
	if a.Status != StatusInProgress {
		return dErrors.Newf(dErrors.CodeInvalidState, "responses can only be recorded while in progress, audit is %s", a.Status)
	}
	item, err := a.item(sectionID, itemID)
	if err != nil {
		return err
	}
	if err := item.SetResponse(value, notes); err != nil {
		return err
	}
	a.Touch(now)
	return nil
}

// IsSectionComplete reports whether every required item in the section has a
// response.
func (a *Audit) IsSectionComplete(sectionID id.SectionID) (bool, error) {
	sec, err := a.section(sectionID)
	if err != nil {
		return false, err
	}
	return sec.Complete(), nil
}

// IsReadyToSubmit reports whether every section is complete.
func (a *Audit) IsReadyToSubmit() bool {
	for i := range a.Sections {
		if !a.Sections[i].Complete() {
			return false
		}
	}
	return true
}

// firstIncompleteSection names the section blocking submission, for error
// messages UIs can surface directly.
func (a *Audit) firstIncompleteSection() string {
	for i := range a.Sections {
		if !a.Sections[i].Complete() {
			return a.Sections[i].Title
		}
	}
	return ""
}

// CanStart checks the start() guard: pending status, and an assigned auditor
// unless the caller explicitly overrides.
func (a *Audit) CanStart(override bool) error {
	if a.Status != StatusPending {
		return invalidTransition(a.Status, "start")
	}
	if !a.Assigned() && !override {
		return dErrors.New(dErrors.CodeInvalidState, "audit cannot start without an assigned auditor")
	}
	return nil
}

// ApplyStart moves the audit into progress. Call CanStart first.
func (a *Audit) ApplyStart(now time.Time) {
	a.Status = StatusInProgress
	a.Touch(now)
}

// CanSubmit checks the submit() guard: in-progress status, a submit-ready
// checklist structure, and a complete set of required responses.
func (a *Audit) CanSubmit() error {
	if a.Status != StatusInProgress {
		return invalidTransition(a.Status, "submit")
	}
	if err := a.Sections.Validate(); err != nil {
		return err
	}
	if !a.IsReadyToSubmit() {
		return dErrors.Newf(dErrors.CodeIncompleteAudit,
			"section %q has unanswered required items", a.firstIncompleteSection())
	}
	return nil
}

// ApplySubmit moves the audit into review and stamps submission time.
// Call CanSubmit first.
func (a *Audit) ApplySubmit(now time.Time) {
	a.Status = StatusInReview
	submitted := now
	a.SubmittedAt = &submitted
	a.Touch(now)
}

// CanApprove checks the approve(assessment) guard.
func (a *Audit) CanApprove(assessment Assessment) error {
	if a.Status != StatusInReview {
		return invalidTransition(a.Status, "approve")
	}
	if err := assessment.Validate(); err != nil {
		return err
	}
	if assessment.Outcome != OutcomeApproved {
		return dErrors.Newf(dErrors.CodeValidation, "approve requires an approved outcome, got %q", string(assessment.Outcome))
	}
	return nil
}

// ApplyApprove completes the audit. Call CanApprove first.
func (a *Audit) ApplyApprove(now time.Time) {
	a.Status = StatusCompleted
	a.Touch(now)
}

// CanRequestRevision checks the requestRevision(assessment) guard: the audit
// is under review and the reviewer supplied a non-approval outcome with
// comments.
func (a *Audit) CanRequestRevision(assessment Assessment) error {
	if a.Status != StatusInReview {
		return invalidTransition(a.Status, "request-revision")
	}
	if err := assessment.Validate(); err != nil {
		return err
	}
	if assessment.Outcome == OutcomeApproved {
		return dErrors.New(dErrors.CodeValidation, "request-revision requires a non-approval outcome")
	}
	return nil
}

// ApplyRequestRevision sends the audit back for rework; the auditor may edit
// responses again. Call CanRequestRevision first.
func (a *Audit) ApplyRequestRevision(now time.Time) {
	a.Status = StatusInProgress
	a.Touch(now)
}

// AmendItemNotes updates an item's notes on a completed audit without
// touching its response. This is the explicitly named capability for
// post-completion annotation of non-compliance findings; callers gate it
// behind service configuration.
func (a *Audit) AmendItemNotes(sectionID id.SectionID, itemID id.ItemID, notes string, now time.Time) error {
	if a.Status != StatusCompleted {
		return dErrors.Newf(dErrors.CodeInvalidState, "notes can only be amended on a completed audit, audit is %s", a.Status)
	}
	item, err := a.item(sectionID, itemID)
	if err != nil {
		return err
	}
	item.Notes = strings.TrimSpace(notes)
	a.Touch(now)
	return nil
}

// Clone deep-copies the aggregate so stores never hand out aliased state.
func (a *Audit) Clone() *Audit {
	cp := *a
	cp.Sections = a.Sections.Clone()
	if a.SubmittedAt != nil {
		t := *a.SubmittedAt
		cp.SubmittedAt = &t
	}
	if a.AuditorID != nil {
		auditorID := *a.AuditorID
		cp.AuditorID = &auditorID
	}
	return &cp
}
