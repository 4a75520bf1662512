// Package shared holds response helpers used by every HTTP handler: JSON
// encoding and the single mapping from domain error codes to HTTP statuses.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "foodaudit/pkg/domain-errors"
)

// errorBody is the wire shape for all error responses.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// WriteJSON encodes v with the given status. Encoding failures are terminal
// for the response; there is nothing useful left to send.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError maps a domain error to its HTTP status and writes the error
// body. Unknown errors become 500s with a generic message so internals never
// leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := statusFor(code)

	var body errorBody
	body.Error.Code = string(code)
	if status == http.StatusInternalServerError {
		body.Error.Message = "internal error"
	} else {
		body.Error.Message = err.Error()
	}
	WriteJSON(w, status, body)
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation, dErrors.CodeTypeMismatch, dErrors.CodeInvalidChoice,
		dErrors.CodeIndexOutOfRange, dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeInvalidState, dErrors.CodeInvalidTransition,
		dErrors.CodeInvariantViolation, dErrors.CodeIncompleteAudit:
		return http.StatusUnprocessableEntity
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
