package errx

import (
	"errors"
	"fmt"
)

// Error is a typed error carrying a stable code, an HTTP status, and
// optional detail context (per-field validation messages and the like).
type Error struct {
	// Code is the stable, prefixed error code.
	Code string `json:"code"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error.
	Type Type `json:"type"`

	// HTTPStatus is the status the HTTP layer should respond with.
	HTTPStatus int `json:"http_status"`

	// Details carries additional context, e.g. field -> message maps.
	Details map[string]interface{} `json:"details,omitempty"`

	// Err is the underlying cause. Never serialized to clients.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail attaches one detail entry and returns the error for chaining.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails attaches multiple detail entries.
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// New creates an Error of the given type with the default status mapping.
func New(message string, errType Type) *Error {
	return &Error{
		Code:       string(errType),
		Message:    message,
		Type:       errType,
		HTTPStatus: typeToHTTPStatus(errType),
		Details:    make(map[string]interface{}),
	}
}

// Wrap wraps a cause with a message and type. Returns nil for a nil cause.
func Wrap(err error, message string, errType Type) *Error {
	if err == nil {
		return nil
	}

	// Preserve the original code and status when wrapping one of our own.
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{
			Code:       existing.Code,
			Message:    message,
			Type:       errType,
			HTTPStatus: existing.HTTPStatus,
			Details:    existing.Details,
			Err:        err,
		}
	}

	return &Error{
		Code:       string(errType),
		Message:    message,
		Type:       errType,
		HTTPStatus: typeToHTTPStatus(errType),
		Details:    make(map[string]interface{}),
		Err:        err,
	}
}

// Wrapf wraps a cause with a formatted message.
func Wrapf(err error, errType Type, format string, args ...interface{}) *Error {
	return Wrap(err, fmt.Sprintf(format, args...), errType)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// typeToHTTPStatus maps error types to default HTTP status codes.
// Validation maps to 422: every input failure in this API is an
// unprocessable-entity response, not a 400.
func typeToHTTPStatus(t Type) int {
	switch t {
	case TypeValidation:
		return 422
	case TypeAuthorization:
		return 401
	case TypeNotFound:
		return 404
	case TypeConflict:
		return 409
	case TypeExternal:
		return 500
	case TypeInternal:
		return 500
	default:
		return 500
	}
}
