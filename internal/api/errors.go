package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed call. Unauthorized is fatal to the session;
// everything else is locally recoverable.
type Kind int

const (
	KindUnclassified Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindServer
)

// Error is the classified failure every gateway call returns. Message is
// the server-supplied message when one was present.
type Error struct {
	Kind    Kind
	Status  int
	Message string

	cause error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request failed"
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.cause != nil {
		return msg + ": " + e.cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.cause }

// userMessage is the notification text for this class of failure.
// Conflicts and unclassified failures surface the server's own message.
func (e *Error) userMessage() string {
	switch e.Kind {
	case KindUnauthorized:
		return "Session expired. Please login again."
	case KindForbidden:
		return "Access denied"
	case KindNotFound:
		return "Resource not found"
	case KindConflict:
		if e.Message != "" {
			return e.Message
		}
		return "Conflict"
	case KindServer:
		return "Server error. Please try again later."
	}
	if e.Message != "" {
		return e.Message
	}
	return "An error occurred"
}

// classify maps an HTTP status to the error taxonomy. Pure; side effects
// live in the response hooks.
func classify(status int, message string) *Error {
	e := &Error{Status: status, Message: message}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind = KindUnauthorized
	case status == http.StatusForbidden:
		e.Kind = KindForbidden
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status == http.StatusConflict:
		e.Kind = KindConflict
	case status >= 500:
		e.Kind = KindServer
	default:
		e.Kind = KindUnclassified
	}
	return e
}

func isKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// IsUnauthorized reports whether err is a session-ending 401 failure
func IsUnauthorized(err error) bool { return isKind(err, KindUnauthorized) }

// IsConflict reports whether err is an optimistic-concurrency conflict
func IsConflict(err error) bool { return isKind(err, KindConflict) }

// IsNotFound reports whether err is a missing-resource failure
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }
