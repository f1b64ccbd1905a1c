package controller

import (
	"errors"

	"github.com/iliyamo/bookmyshow/internal/session"
)

// Kind classifies a controller failure.  Every kind except KindStorage is
// an expected outcome shown to the visitor as a message.
type Kind string

const (
	KindNotFound              Kind = "not_found"
	KindUnauthorized          Kind = "unauthorized"
	KindForbidden             Kind = "forbidden"
	KindInvalidRole           Kind = "invalid_role"
	KindDuplicateUsername     Kind = "duplicate_username"
	KindValidation            Kind = "validation"
	KindMissingSessionContext Kind = "missing_session_context"
	KindInvalidTransition     Kind = "invalid_transition"
	KindStorage               Kind = "storage"
)

// Error is returned by every controller operation that did not succeed.
// Message is safe to show to the visitor.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// KindOf returns the Kind of err.  Errors that did not come from this
// package are treated as storage failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindStorage
}

func storageError(err error) *Error {
	return newError(KindStorage, "Something went wrong, please try again.", err)
}

// sessionError maps state machine refusals to controller errors.
func sessionError(err error) *Error {
	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		return newError(KindUnauthorized, "Please login first.", err)
	case errors.Is(err, session.ErrForbidden):
		return newError(KindForbidden, "You are not allowed to open that page.", err)
	case errors.Is(err, session.ErrUnknownPage):
		return newError(KindNotFound, "Unknown page.", err)
	default:
		return newError(KindInvalidTransition, "That action is not available on this page.", err)
	}
}
