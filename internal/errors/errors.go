// Package errors provides structured errors for rumor operations and their HTTP status mapping.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error for logging and response formatting.
type ErrorType string

const (
	// TypeNotFound indicates the rumor id is not in the store (HTTP 404)
	TypeNotFound ErrorType = "not_found"
	// TypeInvalidTransition indicates an operation not allowed in the rumor's lifecycle state (HTTP 409)
	TypeInvalidTransition ErrorType = "invalid_transition"
	// TypeMalformedInput indicates a record or request missing required fields (HTTP 422)
	TypeMalformedInput ErrorType = "malformed_input"
	// TypeConflict indicates a duplicate rumor id (HTTP 409)
	TypeConflict ErrorType = "conflict"
	// TypeRateLimited indicates the caller exceeded a request budget (HTTP 429)
	TypeRateLimited ErrorType = "rate_limited"
	// TypeInternal indicates an unexpected failure (HTTP 500)
	TypeInternal ErrorType = "internal"
)

// Error represents a structured error with type, message, and context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for this error type.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeNotFound:
		return http.StatusNotFound
	case TypeInvalidTransition, TypeConflict:
		return http.StatusConflict
	case TypeMalformedInput:
		return http.StatusUnprocessableEntity
	case TypeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func newError(t ErrorType, message string) *Error {
	return &Error{
		Type:    t,
		Message: message,
		Context: make(map[string]any),
	}
}

// NotFoundError creates a new not-found error.
func NotFoundError(message string) *Error {
	return newError(TypeNotFound, message)
}

// InvalidTransitionError creates a new invalid-transition error.
func InvalidTransitionError(message string) *Error {
	return newError(TypeInvalidTransition, message)
}

// MalformedInputError creates a new malformed-input error.
func MalformedInputError(message string) *Error {
	return newError(TypeMalformedInput, message)
}

// ConflictError creates a new conflict error.
func ConflictError(message string) *Error {
	return newError(TypeConflict, message)
}

// RateLimitedError creates a new rate-limited error.
func RateLimitedError(message string) *Error {
	return newError(TypeRateLimited, message)
}

// InternalError creates a new internal error wrapping cause.
func InternalError(message string, cause error) *Error {
	e := newError(TypeInternal, message)
	e.Cause = cause
	return e
}

// WithContext adds context fields to the error (chainable).
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithCause attaches an underlying cause (chainable).
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// ErrorResponse represents the JSON structure sent to API clients.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Type    ErrorType      `json:"type"`
	Context map[string]any `json:"context,omitempty"`
}

// ToResponse converts an Error to an ErrorResponse for JSON serialization.
func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Type:    e.Type,
		Context: e.Context,
	}
}

// AsStructuredError converts any error into a structured Error.
// If err is already an *Error, returns it unchanged.
// Otherwise wraps it as an internal error.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	return InternalError("internal error", err)
}

// IsType reports whether err is a structured error of type t anywhere in its chain.
func IsType(err error, t ErrorType) bool {
	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr.Type == t
	}
	return false
}
