// Package errors provides centralized error types for gcouch.
// Keep it minimal - only add what's actually used.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for type checking with errors.Is()
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrBadRequest    = errors.New("bad request")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrUnavailable   = errors.New("unavailable")
	ErrNotConfigured = errors.New("not configured")
	ErrMalformedURL  = errors.New("malformed connection string")
)

// Error is a typed error with code, message and optional details
type Error struct {
	Code    string
	Message string
	Err     error
	Details map[string]any
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

func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return errors.Is(e.Err, target)
}

// WithDetail adds a detail to the error (chainable)
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool { return errors.As(err, target) }

// New returns a plain error, re-exported so callers need a single import.
func New(text string) error { return errors.New(text) }

// --- Error constructors ---

// Wrap wraps an error with a message
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    "ERROR",
		Message: message,
		Err:     err,
	}
}

// NotFound creates a not found error
func NotFound(resource, id string) *Error {
	return &Error{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
		Err:     ErrNotFound,
	}
}

// Unauthorized creates an authentication/authorization error
func Unauthorized(message string) *Error {
	return &Error{
		Code:    "UNAUTHORIZED",
		Message: message,
		Err:     ErrUnauthorized,
	}
}

// Conflict creates a conflict error
func Conflict(resource, reason string) *Error {
	return &Error{
		Code:    "CONFLICT",
		Message: fmt.Sprintf("%s conflict: %s", resource, reason),
		Err:     ErrConflict,
	}
}

// Unavailable creates a service unavailable error
func Unavailable(message string) *Error {
	return &Error{
		Code:    "UNAVAILABLE",
		Message: message,
		Err:     ErrUnavailable,
	}
}

// BadRequest creates a bad request error
func BadRequest(message string) *Error {
	return &Error{
		Code:    "BAD_REQUEST",
		Message: message,
		Err:     ErrBadRequest,
	}
}

// NotConfigured creates an error for a missing configuration value
func NotConfigured(key string) *Error {
	return &Error{
		Code:    "NOT_CONFIGURED",
		Message: key + " must be set",
		Err:     ErrNotConfigured,
	}
}
