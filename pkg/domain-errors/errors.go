// Package domainerrors provides code-tagged errors for the audit domain.
//
// Services and aggregates return these so transport adapters can map each
// failure to a precise user-facing message and HTTP status without string
// matching. Infrastructure facts (record missing, unique violation) travel as
// pkg/platform/sentinel errors and get translated at the service boundary.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain failure.
type Code string

const (
	// CodeValidation covers malformed input: empty required titles, missing
	// mandatory review comments, unknown enum values.
	CodeValidation Code = "validation"
	// CodeTypeMismatch means a recorded response does not match the item's
	// declared question type.
	CodeTypeMismatch Code = "type_mismatch"
	// CodeInvalidChoice means a multiple-choice response is not one of the
	// item's options.
	CodeInvalidChoice Code = "invalid_choice"
	// CodeInvariantViolation means the operation would break a structural
	// invariant, e.g. removing the last item of a section.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInvalidState means the operation is not legal in the audit's
	// current status.
	CodeInvalidState Code = "invalid_state"
	// CodeInvalidTransition means a lifecycle event was fired from a status
	// it is not defined for.
	CodeInvalidTransition Code = "invalid_transition"
	// CodeIncompleteAudit means submit was attempted while required items
	// are still unanswered.
	CodeIncompleteAudit Code = "incomplete_audit"
	// CodeIndexOutOfRange means a section or item index reference is out of
	// range.
	CodeIndexOutOfRange Code = "index_out_of_range"
	// CodeIntegrity marks a data-integrity fault: the bidirectional
	// audit/auditor link has drifted. Not recoverable by the caller.
	CodeIntegrity Code = "integrity"

	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal"
)

// Error carries a Code alongside the message and an optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is/As.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		if err == nil {
			return false
		}
	}
	return false
}

// Is is a readability alias for HasCode used by handlers.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf returns the outermost code in the chain, or CodeInternal when the
// error is untagged.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
