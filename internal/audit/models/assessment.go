package models

import (
	"strings"

	dErrors "foodaudit/pkg/domain-errors"
)

// AssessmentOutcome is a reviewer's verdict on a submitted audit.
type AssessmentOutcome string

const (
	OutcomeApproved      AssessmentOutcome = "approved"
	OutcomeNeedsRevision AssessmentOutcome = "needs-revision"
	OutcomeRejected      AssessmentOutcome = "rejected"
)

func (o AssessmentOutcome) Valid() bool {
	switch o {
	case OutcomeApproved, OutcomeNeedsRevision, OutcomeRejected:
		return true
	}
	return false
}

// Assessment is the reviewer's input for one review cycle. It is transient:
// validated, acted on, and not stored by the core.
type Assessment struct {
	Outcome  AssessmentOutcome `json:"outcome"`
	Comments string            `json:"comments"`
}

// Validate enforces the review contract: a known outcome, and comments when
// the audit is not approved.
func (a Assessment) Validate() error {
	if !a.Outcome.Valid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown assessment outcome %q", string(a.Outcome))
	}
	if a.Outcome != OutcomeApproved && strings.TrimSpace(a.Comments) == "" {
		return dErrors.New(dErrors.CodeValidation, "comments required for non-approval")
	}
	return nil
}
