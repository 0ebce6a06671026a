// Package apperr is the request error taxonomy shared by the workflow
// and storage layers. Handlers translate each kind to an HTTP status;
// the core never retries.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	Validation
	Authentication
	Authorization
	NotFound
	Duplicate
	Conflict
)

type Error struct {
	Kind Kind
	Code string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.Code + ": " + e.err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.err }

func New(kind Kind, code string) *Error {
	return &Error{Kind: kind, Code: code}
}

func Wrap(kind Kind, code string, err error) *Error {
	return &Error{Kind: kind, Code: code, err: err}
}

// KindOf reports the kind of err, or Internal when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// CodeOf reports the wire code of err, or "server_error" for unknown errors.
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "server_error"
}

// Status maps an error kind to its HTTP status. Duplicate account fields
// surface as 400 to match the signup contract; re-reviewing a decided
// event is the only 409.
func Status(err error) int {
	switch KindOf(err) {
	case Validation, Duplicate:
		return http.StatusBadRequest
	case Authentication:
		return http.StatusUnauthorized
	case Authorization:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
