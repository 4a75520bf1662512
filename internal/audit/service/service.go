// Package service orchestrates the audit lifecycle: creation, structural
// editing while pending, response capture while in progress, and the
// submit/review handoff. Domain rules live on the aggregate; this layer loads,
// guards, applies and persists.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"foodaudit/internal/audit/compliance"
	"foodaudit/internal/audit/metrics"
	"foodaudit/internal/audit/models"
	"foodaudit/internal/audit/store"
	"foodaudit/internal/checklist"
	"foodaudit/internal/events"
	id "foodaudit/pkg/domain"
	dErrors "foodaudit/pkg/domain-errors"
	"foodaudit/pkg/platform/sentinel"
	"foodaudit/pkg/requestcontext"
)

var tracer = otel.Tracer("foodaudit/internal/audit/service")

type Store interface {
	Create(ctx context.Context, audit *models.Audit) error
	Update(ctx context.Context, audit *models.Audit) error
	FindByID(ctx context.Context, auditID id.AuditID) (*models.Audit, error)
	List(ctx context.Context, filter store.Filter) ([]*models.Audit, error)
	Delete(ctx context.Context, auditID id.AuditID) error
}

// Service is the audit lifecycle orchestrator.
type Service struct {
	store     Store
	templates checklist.TemplateStore
	logger    *slog.Logger
	publisher events.Publisher
	metrics   *metrics.Metrics

	// allowCompletedNotesAmendment opens the one write permitted after
	// completion: annotating item notes on an otherwise frozen audit.
	allowCompletedNotesAmendment bool
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithPublisher(publisher events.Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTemplates(templates checklist.TemplateStore) Option {
	return func(s *Service) { s.templates = templates }
}

func WithCompletedNotesAmendment() Option {
	return func(s *Service) { s.allowCompletedNotesAmendment = true }
}

func New(st Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAuditRequest carries fields for a new audit. Either Sections or
// TemplateID seeds the checklist; with neither, the audit starts with one
// default section ready for editing.
type CreateAuditRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Location    string              `json:"location"`
	DueDate     time.Time           `json:"due_date"`
	Sections    checklist.Checklist `json:"sections,omitempty"`
	TemplateID  *id.TemplateID      `json:"template_id,omitempty"`
}

func (s *Service) Create(ctx context.Context, req CreateAuditRequest) (*models.Audit, error) {
	ctx, span := tracer.Start(ctx, "audit.Create")
	defer span.End()

	sections := req.Sections
	switch {
	case req.TemplateID != nil:
		if len(sections) > 0 {
			return nil, dErrors.New(dErrors.CodeBadRequest, "provide either sections or a template, not both")
		}
		if s.templates == nil {
			return nil, dErrors.New(dErrors.CodeBadRequest, "templates are not configured")
		}
		tpl, err := s.templates.FindByID(ctx, *req.TemplateID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeNotFound, "template not found")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load template")
		}
		sections = tpl.Instantiate()
	case len(sections) == 0:
		sections = checklist.Checklist{}
		if err := sections.AddSection("General"); err != nil {
			return nil, err
		}
	default:
		// Client-supplied checklists must arrive submit-ready; only audits
		// built up interactively may hold a transiently incomplete structure.
		sections = sections.Clone()
		sections.EnsureIDs()
		if err := sections.Validate(); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	now := requestcontext.Now(ctx).UTC()
	audit, err := models.New(id.NewAuditID(), req.Title, req.Description, req.Location,
		sections, req.DueDate, requestcontext.UserID(ctx), now)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.store.Create(ctx, audit); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create audit")
	}
	span.SetAttributes(attribute.String("audit.id", audit.ID.String()))
	if s.metrics != nil {
		s.metrics.AuditsCreated.Inc()
	}
	s.emit(ctx, events.Event{Type: events.TypeAuditCreated, AuditID: audit.ID})
	s.logger.InfoContext(ctx, "audit created", "audit_id", audit.ID.String(), "title", audit.Title)
	return audit, nil
}

func (s *Service) Get(ctx context.Context, auditID id.AuditID) (*models.Audit, error) {
	return s.load(ctx, auditID)
}

func (s *Service) List(ctx context.Context, filter store.Filter) ([]*models.Audit, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown status %q", string(filter.Status))
	}
	audits, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audits")
	}
	return audits, nil
}

// Delete removes an audit. An assigned audit must be unassigned first so the
// auditor's workload never references a missing run.
func (s *Service) Delete(ctx context.Context, auditID id.AuditID) error {
	audit, err := s.load(ctx, auditID)
	if err != nil {
		return err
	}
	if audit.Assigned() {
		return dErrors.New(dErrors.CodeConflict, "audit is assigned; unassign it before deleting")
	}
	if err := s.store.Delete(ctx, auditID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "audit not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete audit")
	}
	s.emit(ctx, events.Event{Type: events.TypeAuditDeleted, AuditID: auditID})
	return nil
}

// Start moves a pending audit into progress. Override skips the
// assigned-auditor guard for self-serve runs.
func (s *Service) Start(ctx context.Context, auditID id.AuditID, override bool) (*models.Audit, error) {
	ctx, span := tracer.Start(ctx, "audit.Start")
	defer span.End()

	audit, err := s.load(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if err := audit.CanStart(override); err != nil {
		span.RecordError(err)
		return nil, err
	}
	audit.ApplyStart(requestcontext.Now(ctx).UTC())
	if err := s.update(ctx, audit); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.AuditsStarted.Inc()
	}
	s.emit(ctx, events.Event{Type: events.TypeAuditStarted, AuditID: audit.ID, AuditorID: audit.AuditorID})
	return audit, nil
}

// Submit hands a complete audit over for review.
func (s *Service) Submit(ctx context.Context, auditID id.AuditID) (*models.Audit, error) {
	ctx, span := tracer.Start(ctx, "audit.Submit")
	defer span.End()

	audit, err := s.load(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if err := audit.CanSubmit(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	audit.ApplySubmit(requestcontext.Now(ctx).UTC())
	if err := s.update(ctx, audit); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.AuditsSubmitted.Inc()
	}
	s.emit(ctx, events.Event{Type: events.TypeAuditSubmitted, AuditID: audit.ID, AuditorID: audit.AuditorID})
	s.logger.InfoContext(ctx, "audit submitted", "audit_id", audit.ID.String())
	return audit, nil
}

// RecordResponse coerces the raw JSON value against the item's declared type
// and stores the answer.
func (s *Service) RecordResponse(ctx context.Context, auditID id.AuditID, sectionID id.SectionID, itemID id.ItemID, raw json.RawMessage, notes string) (*models.Audit, error) {
	ctx, span := tracer.Start(ctx, "audit.RecordResponse", trace.WithAttributes(
		attribute.String("audit.id", auditID.String()),
	))
	defer span.End()

	audit, err := s.load(ctx, auditID)
	if err != nil {
		return nil, err
	}
	item, err := audit.Item(sectionID, itemID)
	if err != nil {
		return nil, err
	}
	value, err := checklist.ParseValue(item.Type, raw)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := audit.RecordResponse(sectionID, itemID, value, notes, requestcontext.Now(ctx).UTC()); err != nil {
		return nil, err
	}
	if err := s.update(ctx, audit); err != nil {
		return nil, err
	}
	return audit, nil
}

// AmendItemNotes annotates an item on a completed audit. Disabled unless the
// deployment opted in.
func (s *Service) AmendItemNotes(ctx context.Context, auditID id.AuditID, sectionID id.SectionID, itemID id.ItemID, notes string) (*models.Audit, error) {
	if !s.allowCompletedNotesAmendment {
		return nil, dErrors.New(dErrors.CodeForbidden, "amending notes on completed audits is disabled")
	}
	audit, err := s.load(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if err := audit.AmendItemNotes(sectionID, itemID, notes, requestcontext.Now(ctx).UTC()); err != nil {
		return nil, err
	}
	if err := s.update(ctx, audit); err != nil {
		return nil, err
	}
	return audit, nil
}

// Report is a point-in-time non-compliance summary.
type Report struct {
	AuditID     id.AuditID           `json:"audit_id"`
	Status      models.Status        `json:"status"`
	Findings    []compliance.Finding `json:"findings"`
	Count       int                  `json:"count"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// NonComplianceReport derives the findings for one audit. Available at any
// status: in-flight audits simply report what has been answered "No" so far.
func (s *Service) NonComplianceReport(ctx context.Context, auditID id.AuditID) (*Report, error) {
	audit, err := s.load(ctx, auditID)
	if err != nil {
		return nil, err
	}
	findings := compliance.Derive(audit)
	return &Report{
		AuditID:     audit.ID,
		Status:      audit.Status,
		Findings:    findings,
		Count:       len(findings),
		GeneratedAt: requestcontext.Now(ctx).UTC(),
	}, nil
}

func (s *Service) load(ctx context.Context, auditID id.AuditID) (*models.Audit, error) {
	audit, err := s.store.FindByID(ctx, auditID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "audit not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load audit")
	}
	return audit, nil
}

func (s *Service) update(ctx context.Context, audit *models.Audit) error {
	if err := s.store.Update(ctx, audit); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "audit not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save audit")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit event", "type", string(event.Type), "error", err)
	}
}
