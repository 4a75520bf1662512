package service

import (
	"context"

	"foodaudit/internal/audit/models"
	"foodaudit/internal/events"
	id "foodaudit/pkg/domain"
	"foodaudit/pkg/requestcontext"
)

// SubmitAssessment records a reviewer's verdict on an audit under review.
// An approved outcome completes the audit; needs-revision and rejected both
// send it back to the auditor with the reviewer's comments appended to the
// audit notes.
func (s *Service) SubmitAssessment(ctx context.Context, auditID id.AuditID, assessment models.Assessment) (*models.Audit, error) {
	ctx, span := tracer.Start(ctx, "audit.SubmitAssessment")
	defer span.End()

	audit, err := s.load(ctx, auditID)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx).UTC()

	if assessment.Outcome == models.OutcomeApproved {
		if err := audit.CanApprove(assessment); err != nil {
			span.RecordError(err)
			return nil, err
		}
		audit.ApplyApprove(now)
		if assessment.Comments != "" {
			audit.Notes = appendNote(audit.Notes, "Review: "+assessment.Comments)
		}
		if err := s.update(ctx, audit); err != nil {
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.AuditsCompleted.Inc()
		}
		s.emit(ctx, events.Event{Type: events.TypeAuditApproved, AuditID: audit.ID, AuditorID: audit.AuditorID})
		s.logger.InfoContext(ctx, "audit approved", "audit_id", audit.ID.String())
		return audit, nil
	}

	if err := audit.CanRequestRevision(assessment); err != nil {
		span.RecordError(err)
		return nil, err
	}
	audit.ApplyRequestRevision(now)
	audit.Notes = appendNote(audit.Notes, "Revision requested ("+string(assessment.Outcome)+"): "+assessment.Comments)
	if err := s.update(ctx, audit); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RevisionsRequested.Inc()
	}
	s.emit(ctx, events.Event{
		Type:      events.TypeRevisionRequested,
		AuditID:   audit.ID,
		AuditorID: audit.AuditorID,
		Detail:    assessment.Comments,
	})
	s.logger.InfoContext(ctx, "revision requested", "audit_id", audit.ID.String(), "outcome", string(assessment.Outcome))
	return audit, nil
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}
