package errx

// Type categorizes an error for status mapping and logging.
type Type string

const (
	// TypeInternal is an unexpected failure inside this service.
	TypeInternal Type = "INTERNAL"

	// TypeValidation is a missing or malformed input.
	TypeValidation Type = "VALIDATION"

	// TypeAuthorization is a missing, invalid, or insufficient credential.
	TypeAuthorization Type = "AUTHORIZATION"

	// TypeNotFound is an identifier that resolves to nothing.
	TypeNotFound Type = "NOT_FOUND"

	// TypeConflict is a resource that already exists.
	TypeConflict Type = "CONFLICT"

	// TypeExternal is a failure reported by an upstream platform call.
	TypeExternal Type = "EXTERNAL"
)

// String returns the string representation of the error type.
func (t Type) String() string {
	return string(t)
}
