// Package domainerrors carries coded errors from services to the transport layer.
//
// Services return *Error values created with New or Wrap. The HTTP layer maps the
// Code to a status and decides how much of the message is safe to expose.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code is a stable, client-facing error identifier.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodePolicyViolation    Code = "location_rejected"
	CodeInvariantViolation Code = "invariant_violation"
	CodeRateLimited        Code = "rate_limited"
	CodeTimeout            Code = "timeout"
	CodeUnavailable        Code = "service_unavailable"
	CodeInternal           Code = "internal_error"
)

// Error is a domain error with a code, a human-readable message and optional
// per-reason details.
type Error struct {
	Code    Code
	Message string
	Details []string
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

// New creates a domain error without an underlying cause.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// WithDetails returns a domain error carrying the given details. Non-domain errors
// are wrapped as internal errors.
func WithDetails(err error, details []string) *Error {
	var de *Error
	if errors.As(err, &de) {
		cp := *de
		cp.Details = append([]string(nil), details...)
		return &cp
	}
	return &Error{Code: CodeInternal, Message: "internal error", Err: err, Details: append([]string(nil), details...)}
}

// HasCode reports whether err (or anything it wraps) is a domain error with code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for call sites that read better with it.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// As extracts the outermost domain error from err.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
