// Package service is the auditor directory: CRUD over directory entries plus
// the assignment operations that keep Audit.AuditorID and
// Auditor.AssignedAudits pointing at each other.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	auditmetrics "foodaudit/internal/audit/metrics"
	auditmodels "foodaudit/internal/audit/models"
	"foodaudit/internal/auditor/models"
	"foodaudit/internal/events"
	id "foodaudit/pkg/domain"
	dErrors "foodaudit/pkg/domain-errors"
	"foodaudit/pkg/platform/sentinel"
	"foodaudit/pkg/platform/tx"
	"foodaudit/pkg/requestcontext"
)

type AuditorStore interface {
	Create(ctx context.Context, auditor *models.Auditor) error
	Update(ctx context.Context, auditor *models.Auditor) error
	FindByID(ctx context.Context, auditorID id.AuditorID) (*models.Auditor, error)
	FindByEmail(ctx context.Context, email string) (*models.Auditor, error)
	List(ctx context.Context) ([]*models.Auditor, error)
	Delete(ctx context.Context, auditorID id.AuditorID) error
}

type AuditStore interface {
	Update(ctx context.Context, audit *auditmodels.Audit) error
	FindByID(ctx context.Context, auditID id.AuditID) (*auditmodels.Audit, error)
	ListByAuditor(ctx context.Context, auditorID id.AuditorID) ([]*auditmodels.Audit, error)
}

// Directory orchestrates the auditor registry. Both sides of the
// audit-auditor link change inside one tx.Runner boundary: either the audit
// and the workload both move, or neither does.
type Directory struct {
	auditors  AuditorStore
	audits    AuditStore
	runner    tx.Runner
	logger    *slog.Logger
	publisher events.Publisher
	metrics   *auditmetrics.Metrics
}

type Option func(d *Directory)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Directory) { d.logger = logger }
}

func WithPublisher(publisher events.Publisher) Option {
	return func(d *Directory) { d.publisher = publisher }
}

func WithMetrics(m *auditmetrics.Metrics) Option {
	return func(d *Directory) { d.metrics = m }
}

func New(auditors AuditorStore, audits AuditStore, runner tx.Runner, opts ...Option) *Directory {
	d := &Directory{
		auditors: auditors,
		audits:   audits,
		runner:   runner,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CreateAuditorRequest carries directory fields for registration.
type CreateAuditorRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

func (d *Directory) CreateAuditor(ctx context.Context, req CreateAuditorRequest) (*models.Auditor, error) {
	auditor, err := models.New(id.NewAuditorID(), req.Name, req.Email, req.Phone, req.Role, requestcontext.Now(ctx).UTC())
	if err != nil {
		return nil, err
	}
	if err := d.auditors.Create(ctx, auditor); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeConflict, "auditor email %s is already registered", auditor.Email)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create auditor")
	}
	return auditor, nil
}

func (d *Directory) GetAuditor(ctx context.Context, auditorID id.AuditorID) (*models.Auditor, error) {
	auditor, err := d.auditors.FindByID(ctx, auditorID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "auditor not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load auditor")
	}
	return auditor, nil
}

func (d *Directory) ListAuditors(ctx context.Context) ([]*models.Auditor, error) {
	auditors, err := d.auditors.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list auditors")
	}
	return auditors, nil
}

// UpdateAuditorRequest carries the editable directory fields. Nil means
// "leave unchanged".
type UpdateAuditorRequest struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Role  *string `json:"role,omitempty"`
}

func (d *Directory) UpdateAuditor(ctx context.Context, auditorID id.AuditorID, req UpdateAuditorRequest) (*models.Auditor, error) {
	auditor, err := d.GetAuditor(ctx, auditorID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, dErrors.New(dErrors.CodeValidation, "auditor name must not be empty")
		}
		auditor.Name = *req.Name
	}
	if req.Phone != nil {
		auditor.Phone = *req.Phone
	}
	if req.Role != nil {
		auditor.Role = *req.Role
	}
	auditor.UpdatedAt = requestcontext.Now(ctx).UTC()
	if err := d.auditors.Update(ctx, auditor); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update auditor")
	}
	return auditor, nil
}

// Workload returns the audits currently assigned to one auditor.
func (d *Directory) Workload(ctx context.Context, auditorID id.AuditorID) ([]*auditmodels.Audit, error) {
	if _, err := d.GetAuditor(ctx, auditorID); err != nil {
		return nil, err
	}
	audits, err := d.audits.ListByAuditor(ctx, auditorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load workload")
	}
	return audits, nil
}

// Assign links an audit to an auditor. Reassignment is allowed at any status:
// the audit leaves the previous auditor's workload and joins the new one, all
// inside one boundary.
func (d *Directory) Assign(ctx context.Context, auditID id.AuditID, auditorID id.AuditorID) error {
	now := requestcontext.Now(ctx).UTC()
	err := d.runner.RunInTx(ctx, func(ctx context.Context) error {
		audit, err := d.findAudit(ctx, auditID)
		if err != nil {
			return err
		}
		auditor, err := d.GetAuditor(ctx, auditorID)
		if err != nil {
			return err
		}

		if audit.AuditorID != nil && *audit.AuditorID == auditorID {
			return nil // already linked
		}
		if audit.AuditorID != nil {
			if err := d.detachFromPrevious(ctx, audit, now); err != nil {
				return err
			}
		}

		audit.AuditorID = &auditorID
		audit.Touch(now)
		if err := d.audits.Update(ctx, audit); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update audit")
		}
		auditor.AddAssignment(auditID, now)
		if err := d.auditors.Update(ctx, auditor); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update auditor workload")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if d.metrics != nil {
		d.metrics.AuditorsAssigned.Inc()
	}
	d.emit(ctx, events.Event{Type: events.TypeAuditorAssigned, AuditID: auditID, AuditorID: &auditorID})
	return nil
}

// Unassign removes the audit from its auditor's workload and clears the
// audit's side of the link.
func (d *Directory) Unassign(ctx context.Context, auditID id.AuditID) error {
	now := requestcontext.Now(ctx).UTC()
	var previous *id.AuditorID
	err := d.runner.RunInTx(ctx, func(ctx context.Context) error {
		audit, err := d.findAudit(ctx, auditID)
		if err != nil {
			return err
		}
		if !audit.Assigned() {
			return dErrors.New(dErrors.CodeInvalidState, "audit is not assigned")
		}
		previous = audit.AuditorID
		if err := d.detachFromPrevious(ctx, audit, now); err != nil {
			return err
		}
		audit.AuditorID = nil
		audit.Touch(now)
		if err := d.audits.Update(ctx, audit); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update audit")
		}
		return nil
	})
	if err != nil {
		return err
	}

	d.emit(ctx, events.Event{Type: events.TypeAuditorUnassigned, AuditID: auditID, AuditorID: previous})
	return nil
}

// DeleteAuditor removes a directory entry. Every audit still pointing at the
// auditor is unassigned first so no audit is left referencing a ghost.
func (d *Directory) DeleteAuditor(ctx context.Context, auditorID id.AuditorID) error {
	now := requestcontext.Now(ctx).UTC()
	return d.runner.RunInTx(ctx, func(ctx context.Context) error {
		auditor, err := d.GetAuditor(ctx, auditorID)
		if err != nil {
			return err
		}
		for _, auditID := range auditor.AssignedAudits {
			audit, err := d.audits.FindByID(ctx, auditID)
			if err != nil {
				if errors.Is(err, sentinel.ErrNotFound) {
					d.logger.WarnContext(ctx, "workload references missing audit",
						"code", string(dErrors.CodeIntegrity),
						"auditor_id", auditorID.String(),
						"audit_id", auditID.String())
					continue
				}
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load assigned audit")
			}
			if audit.AuditorID == nil || *audit.AuditorID != auditorID {
				d.logger.WarnContext(ctx, "workload out of sync with audit",
					"code", string(dErrors.CodeIntegrity),
					"auditor_id", auditorID.String(),
					"audit_id", auditID.String())
				continue
			}
			audit.AuditorID = nil
			audit.Touch(now)
			if err := d.audits.Update(ctx, audit); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to unassign audit")
			}
		}
		// Audits pointing here without a matching workload entry are drift
		// on the other side of the link; clear them too.
		strays, err := d.audits.ListByAuditor(ctx, auditorID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list assigned audits")
		}
		for _, stray := range strays {
			if auditor.Assigned(stray.ID) {
				continue // handled above
			}
			d.logger.WarnContext(ctx, "audit assigned outside workload",
				"code", string(dErrors.CodeIntegrity),
				"auditor_id", auditorID.String(),
				"audit_id", stray.ID.String())
			stray.AuditorID = nil
			stray.Touch(now)
			if err := d.audits.Update(ctx, stray); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to unassign audit")
			}
		}
		if err := d.auditors.Delete(ctx, auditorID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete auditor")
		}
		return nil
	})
}

// detachFromPrevious removes the audit from its current auditor's workload.
// A workload that already lost the entry, or a missing auditor, is integrity
// drift: logged and repaired rather than failed, since the desired end state
// holds either way.
func (d *Directory) detachFromPrevious(ctx context.Context, audit *auditmodels.Audit, now time.Time) error {
	previousID := *audit.AuditorID
	previous, err := d.auditors.FindByID(ctx, previousID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			d.logger.WarnContext(ctx, "audit references missing auditor",
				"code", string(dErrors.CodeIntegrity),
				"audit_id", audit.ID.String(),
				"auditor_id", previousID.String())
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load previous auditor")
	}
	if !previous.RemoveAssignment(audit.ID, now) {
		d.logger.WarnContext(ctx, "workload out of sync with audit",
			"code", string(dErrors.CodeIntegrity),
			"audit_id", audit.ID.String(),
			"auditor_id", previousID.String())
		return nil
	}
	if err := d.auditors.Update(ctx, previous); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update previous auditor")
	}
	return nil
}

func (d *Directory) findAudit(ctx context.Context, auditID id.AuditID) (*auditmodels.Audit, error) {
	audit, err := d.audits.FindByID(ctx, auditID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "audit not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load audit")
	}
	return audit, nil
}

func (d *Directory) emit(ctx context.Context, event events.Event) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.Emit(ctx, event); err != nil {
		d.logger.WarnContext(ctx, "failed to emit event", "type", string(event.Type), "error", err)
	}
}
