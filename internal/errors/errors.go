// Package errors provides typed application errors shared by the catalog,
// the pricing engine and the transport boundaries.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error.
type Type string

const (
	// TypeValidation indicates caller input that cannot be estimated.
	TypeValidation Type = "VALIDATION_ERROR"

	// TypeConfig indicates an invalid catalog or process configuration.
	TypeConfig Type = "CONFIG_ERROR"

	// TypeNotFound indicates a missing resource.
	TypeNotFound Type = "NOT_FOUND"

	// TypeInternal indicates a failure the caller cannot fix.
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error is a domain error with a category and optional cause.
type Error struct {
	Type    Type   `json:"type"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new error.
func New(errType Type, message string) *Error {
	return &Error{Type: errType, Message: message}
}

// Newf creates a new formatted error.
func Newf(errType Type, format string, args ...any) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps cause with a category and message.
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{Type: errType, Message: message, Cause: cause}
}

// Validation creates a validation error.
func Validation(format string, args ...any) *Error {
	return Newf(TypeValidation, format, args...)
}

// Config creates a configuration error.
func Config(format string, args ...any) *Error {
	return Newf(TypeConfig, format, args...)
}

// NotFound creates a not found error.
func NotFound(resourceType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resourceType, identifier)
}

// Internal creates an internal error.
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}

// IsType reports whether any error in err's chain is an *Error of type t.
func IsType(err error, t Type) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// TypeOf returns the category of err, or TypeInternal for untyped errors.
func TypeOf(err error) Type {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return TypeInternal
}

// MessageOf returns the caller-facing message of err without the type
// prefix or cause.
func MessageOf(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
