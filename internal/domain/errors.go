package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidState      = errors.New("invalid state")
	ErrTemplateMalformed = errors.New("template malformed")
)

// TemplateMalformedError reports unbalanced placeholder markers found at render time.
// It is a validation failure: errors.Is matches both ErrTemplateMalformed and ErrValidation.
type TemplateMalformedError struct {
	Opening int // count of "{{"
	Closing int // count of "}}"
}

// Error implements the error interface
func (e *TemplateMalformedError) Error() string {
	return fmt.Sprintf("invalid template: mismatched brackets (%d opening, %d closing)", e.Opening, e.Closing)
}

// StatusCode implements the HTTPError interface
func (e *TemplateMalformedError) StatusCode() int {
	return http.StatusUnprocessableEntity
}

// Is allows errors.Is() to match against ErrTemplateMalformed and ErrValidation
func (e *TemplateMalformedError) Is(target error) bool {
	return target == ErrTemplateMalformed || target == ErrValidation
}

// StatusCode maps any error produced by the core to an HTTP status code.
// Unknown errors map to 500.
func StatusCode(err error) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode()
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
