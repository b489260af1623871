package apiclient

import (
	"errors"
	"fmt"
)

// Kind classifies why a call failed. Callers switch on it instead of
// inspecting ad hoc response flags.
type Kind string

const (
	// KindNetwork means no HTTP response was received.
	KindNetwork Kind = "network"
	// KindHTTP is a non-2xx status other than 401.
	KindHTTP Kind = "http"
	// KindUnauthorized is a 401; the session has already been cleared.
	KindUnauthorized Kind = "unauthorized"
	// KindRejected is a 2xx response carrying success:false.
	KindRejected Kind = "rejected"
	// KindDecode means the response body was not the expected shape.
	KindDecode Kind = "decode"
	// KindCanceled means the caller's context ended first.
	KindCanceled Kind = "canceled"
)

// Error is the single failure type returned by Client.
type Error struct {
	Kind   Kind
	Method string
	Path   string
	Status int
	// Message is the server's own message, when the body carried one.
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: %s (%d): %s", e.Method, e.Path, e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s %s: %s: %s", e.Method, e.Path, e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == k
}

// Message picks the text shown to the operator: the server's message first,
// then the underlying error's message, then fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	if apiErr.Err != nil {
		return apiErr.Err.Error()
	}
	return fallback
}
