package sheets

import (
	"errors"
	"fmt"
)

// Kind is the closed set of adapter error categories. Handlers map kinds to
// HTTP statuses with a total function; no string matching anywhere.
type Kind string

const (
	KindNotConfigured     Kind = "NOT_CONFIGURED"
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindNotFound          Kind = "NOT_FOUND"
	KindRateLimited       Kind = "RATE_LIMITED"
	KindUpstreamTransient Kind = "UPSTREAM_TRANSIENT"
	KindBadRange          Kind = "BAD_RANGE"
	KindAuthFailed        Kind = "AUTH_FAILED"
	KindInternal          Kind = "INTERNAL"
)

// Error is the categorized adapter error. Message never contains raw
// upstream response bodies.
type Error struct {
	Kind    Kind
	Status  int // upstream HTTP status, 0 for network faults
	Message string
	Retries int
	cause   error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("sheets: %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("sheets: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// retryable reports whether the error belongs to the transient class.
func (e *Error) retryable() bool { return e.Kind == KindUpstreamTransient }

func newError(kind Kind, status int, msg string) *Error {
	return &Error{Kind: kind, Status: status, Message: msg}
}

func wrapError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, cause: cause}
}

// kindForStatus maps an upstream HTTP status to an error kind.
func kindForStatus(status int) Kind {
	switch {
	case status == 400:
		return KindBadRange
	case status == 401:
		return KindUnauthorized
	case status == 404:
		return KindNotFound
	case status == 429:
		return KindRateLimited
	case status == 408 || status >= 500:
		return KindUpstreamTransient
	default:
		return KindInternal
	}
}

// KindOf extracts the kind from err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}
