package faults

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies a failure into the closed set of conditions the service
// distinguishes at its boundaries.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindConflict     Kind = "conflict"
	KindUnavailable  Kind = "unavailable"
)

// Fault is a typed error carrying one of the closed kinds.
type Fault struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface
func (f *Fault) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Cause)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Unwrap returns the underlying error
func (f *Fault) Unwrap() error {
	return f.Cause
}

// WithCause wraps an underlying error
func (f *Fault) WithCause(err error) *Fault {
	f.Cause = err
	return f
}

// Validation creates a validation fault
func Validation(format string, args ...interface{}) *Fault {
	return &Fault{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not-found fault
func NotFound(format string, args ...interface{}) *Fault {
	return &Fault{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized creates an unauthorized fault
func Unauthorized(format string, args ...interface{}) *Fault {
	return &Fault{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a conflict fault
func Conflict(format string, args ...interface{}) *Fault {
	return &Fault{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Unavailable creates an unavailable fault
func Unavailable(format string, args ...interface{}) *Fault {
	return &Fault{Kind: KindUnavailable, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the fault kind from an error chain. Errors that carry no
// fault are reported as unavailable, the catch-all for upstream failures.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindUnavailable
}

// Is reports whether the error chain contains a fault of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps a fault kind to the HTTP status the transport boundary
// responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusServiceUnavailable
	}
}
