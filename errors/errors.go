package errors

import (
	stderrors "errors"
	"fmt"
)

// Error is the normalized error propagated to every caller of the API client.
type Error struct {
	// Kind classifies the failure.
	Kind Kind `json:"kind"`
	// HTTPStatus is the response status, 0 when no response was received.
	HTTPStatus int `json:"status,omitempty"`
	// Message is the human-readable text shown to the user.
	Message string `json:"message"`
	// ServerMessage is the message supplied by the backend, if any.
	ServerMessage string `json:"server_message,omitempty"`
	// Cause is the raw failure the error was normalized from.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.HTTPStatus > 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Kind, e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the raw failure.
func (e *Error) Unwrap() error { return e.Cause }

// Severity returns how loudly the error should be surfaced.
func (e *Error) Severity() Severity { return SeverityOf(e.Kind) }

// New creates an Error of the given kind.
func New(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, HTTPStatus: status, Message: message}
}

// WithCause sets the raw failure and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindUnknown if err is not normalized.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is a normalized error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
