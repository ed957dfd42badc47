// Package apperr defines the error taxonomy shared by the lifecycle core and
// every surface that calls it.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindPermissionDenied
	KindInvalidTransition
	KindNotFound
	KindConflict
	KindNotAuthenticated
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPermissionDenied:
		return "permission_denied"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindNotAuthenticated:
		return "not_authenticated"
	default:
		return "internal"
	}
}

// Error carries a Kind, a caller-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the package sentinels by kind, so errors.Is(err, ErrConflict)
// holds for any *Error of KindConflict.
func (e *Error) Is(target error) bool {
	s, ok := target.(sentinel)
	return ok && Kind(s) == e.Kind
}

type sentinel Kind

func (s sentinel) Error() string {
	return Kind(s).String()
}

var (
	ErrInternal          error = sentinel(KindInternal)
	ErrValidation        error = sentinel(KindValidation)
	ErrPermissionDenied  error = sentinel(KindPermissionDenied)
	ErrInvalidTransition error = sentinel(KindInvalidTransition)
	ErrNotFound          error = sentinel(KindNotFound)
	ErrConflict          error = sentinel(KindConflict)
	ErrNotAuthenticated  error = sentinel(KindNotAuthenticated)
)

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error {
	return New(KindValidation, message, nil)
}

func PermissionDenied(message string) *Error {
	return New(KindPermissionDenied, message, nil)
}

func InvalidTransition(from, to string) *Error {
	return New(KindInvalidTransition, fmt.Sprintf("cannot transition from %s to %s", from, to), nil)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message, nil)
}

func Conflict(message string) *Error {
	return New(KindConflict, message, nil)
}

func NotAuthenticated(message string) *Error {
	return New(KindNotAuthenticated, message, nil)
}

func Internal(message string, err error) *Error {
	return New(KindInternal, message, err)
}

// KindOf classifies err. Errors outside the taxonomy are Internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	var s sentinel
	if errors.As(err, &s) {
		return Kind(s)
	}
	return KindInternal
}

// Message returns the caller-facing message without the wrapped cause.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
