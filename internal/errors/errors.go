// Package errors provides the typed error taxonomy for api-manager.
// Every failure raised by the gateways or the router is classified into one
// of a small set of codes, and each code maps to exactly one HTTP status.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique identifier for different error types
type ErrorCode string

const (
	// Request errors
	ErrBadRequest ErrorCode = "BAD_REQUEST"
	ErrConflict   ErrorCode = "CONFLICT"
	ErrNotFound   ErrorCode = "NOT_FOUND"

	// Container runtime errors
	ErrRuntimeUnavailable ErrorCode = "RUNTIME_UNAVAILABLE"
	ErrRuntime            ErrorCode = "RUNTIME_ERROR"

	// Version control errors
	ErrVCS ErrorCode = "VCS_ERROR"

	// Internal errors
	ErrInternal ErrorCode = "INTERNAL_ERROR"
	ErrConfig   ErrorCode = "CONFIG_INVALID"
)

// Error is a classified failure carrying the message shown to clients and
// the underlying cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Message {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by code, so sentinel values work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Message == "" || t.Message == e.Message)
}

// HTTPStatus returns the status code for this error
func (e *Error) HTTPStatus() int {
	return StatusFor(e.Code)
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code ErrorCode) int {
	switch code {
	case ErrBadRequest:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new Error
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a new Error that wraps an existing error
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// As extracts an *Error from anywhere in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// GetCode extracts the error code from an error, or "" when it is unclassified
func GetCode(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.Code
	}
	return ""
}

// HasCode checks if an error has a specific error code
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// ErrorMessage returns the client-facing message of a classified error, or
// the plain error text otherwise.
func ErrorMessage(err error) string {
	if e, ok := As(err); ok {
		return e.Message
	}
	return err.Error()
}
