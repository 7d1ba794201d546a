// Package apperr defines the error taxonomy shared by services and handlers.
// Services wrap failures with one of the sentinel kinds; handlers translate
// the kind into an HTTP status with Status.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrValidation   = errors.New("validation")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error carries a client-visible message plus the sentinel kind it unwraps to.
type Error struct {
	kind    error
	message string
}

func (e *Error) Error() string { return e.message }
func (e *Error) Unwrap() error { return e.kind }

func Validation(msg string) error { return &Error{kind: ErrValidation, message: msg} }

func Unauthorized(msg string) error { return &Error{kind: ErrUnauthorized, message: msg} }

func Forbidden(msg string) error { return &Error{kind: ErrForbidden, message: msg} }

func NotFound(msg string) error { return &Error{kind: ErrNotFound, message: msg} }

func Conflict(msg string) error { return &Error{kind: ErrConflict, message: msg} }

// Status maps an error to its HTTP status code. Anything outside the
// taxonomy is an internal error.
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

// Message returns the client-visible reason. Internal errors are masked so
// driver details never leak to callers.
func Message(err error) string {
	if Status(err) == http.StatusInternalServerError {
		return "error interno"
	}
	return err.Error()
}
