package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the four client-visible failure classes. Services
// return these (wrapped or bare); handlers translate them at the boundary.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
)

// ConflictError names the field that violated a unique constraint.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("a record with this %s already exists", e.Field)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// NewConflict reports a duplicate-key failure on the given field.
func NewConflict(field string) error {
	return &ConflictError{Field: field}
}

// ValidationError carries the offending fields back to the client.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "invalid request"
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidation reports a bad request with the fields that failed.
func NewValidation(message string, fields ...string) error {
	return &ValidationError{Message: message, Fields: fields}
}

// Status maps a service error onto an HTTP status code. Anything outside
// the taxonomy is a 500; the detail stays server-side.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Payload builds the JSON error body for a service error. Unclassified
// errors get a generic message so internals never leak to the client.
func Payload(err error) map[string]interface{} {
	body := map[string]interface{}{}
	switch Status(err) {
	case http.StatusInternalServerError:
		body["error"] = "internal server error"
	default:
		body["error"] = err.Error()
	}
	var ve *ValidationError
	if errors.As(err, &ve) && len(ve.Fields) > 0 {
		body["fields"] = ve.Fields
	}
	var ce *ConflictError
	if errors.As(err, &ce) {
		body["field"] = ce.Field
	}
	return body
}
