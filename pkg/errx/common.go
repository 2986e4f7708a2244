package errx

// Convenience constructors for one-off errors.

// Internal creates an internal server error.
func Internal(message string) *Error {
	return New(message, TypeInternal)
}

// Validation creates a validation error.
func Validation(message string) *Error {
	return New(message, TypeValidation)
}

// NotFound creates a not found error.
func NotFound(message string) *Error {
	return New(message, TypeNotFound)
}

// Unauthorized creates an authorization error.
func Unauthorized(message string) *Error {
	return New(message, TypeAuthorization)
}

// Forbidden creates an authorization error carrying a 403 status.
func Forbidden(message string) *Error {
	e := New(message, TypeAuthorization)
	e.HTTPStatus = 403
	return e
}

// Conflict creates a conflict error.
func Conflict(message string) *Error {
	return New(message, TypeConflict)
}

// External creates an upstream platform error.
func External(message string) *Error {
	return New(message, TypeExternal)
}
