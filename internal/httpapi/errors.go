package httpapi

import "net/http"

// Error codes surfaced to API clients.
const (
	CodeValidation       = "validation"
	CodeUnauthorized     = "unauthorized"
	CodeNotFound         = "not_found"
	CodeUnavailable      = "unavailable"
	CodeExtractionFailed = "extraction_failed"
	CodeInternal         = "internal"
)

// Error is the typed API failure. Transient tells clients whether a retry
// has a chance of succeeding.
type Error struct {
	Code      string
	Message   string
	Transient bool
	Status    int
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

func statusForCode(code string) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnavailable, CodeExtractionFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func newError(code, message string, transient bool) *Error {
	return &Error{Code: code, Message: message, Transient: transient, Status: statusForCode(code)}
}

func validationError(message string) *Error {
	return newError(CodeValidation, message, false)
}

func unauthorizedError(message string) *Error {
	return newError(CodeUnauthorized, message, false)
}

func internalError(message string) *Error {
	return newError(CodeInternal, message, true)
}
