package models

import dErrors "foodaudit/pkg/domain-errors"

// Status is the audit lifecycle state.
//
// The machine:
//
//	pending -> in-progress -> in-review -> completed
//	                 ^             |
//	                 +-- revision -+
//
// A rejection during review is a request for rework, not a dead end; there is
// no terminal rejected state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusInReview   Status = "in-review"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusInReview, StatusCompleted:
		return true
	}
	return false
}

var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress},
	StatusInProgress: {StatusInReview},
	StatusInReview:   {StatusCompleted, StatusInProgress},
	StatusCompleted:  {},
}

// CanTransitionTo reports whether the machine defines an edge s -> next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Editable reports whether structural edits to the checklist are legal.
// Structure is locked the moment an audit leaves pending.
func (s Status) Editable() bool { return s == StatusPending }

func invalidTransition(from Status, event string) error {
	return dErrors.Newf(dErrors.CodeInvalidTransition,
		"event %s is not allowed while audit is %s", event, from)
}
