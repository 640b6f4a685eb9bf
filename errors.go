package mallow

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrMissingAttribute indicates a schema references an attribute absent
	// on the source object (e.g., a nil single-nested value).
	ErrMissingAttribute = errors.New("missing attribute")

	// ErrValidation indicates a field value failed its declared format.
	ErrValidation = errors.New("validation failed")

	// ErrUnresolvedSchema indicates a deferred schema reference failed to
	// resolve at first use.
	ErrUnresolvedSchema = errors.New("unresolved schema reference")

	// ErrRecursionGuard indicates a mutually-nesting schema pair was
	// declared without the required reciprocal exclusion.
	ErrRecursionGuard = errors.New("unguarded schema recursion")

	// ErrDuplicateKey indicates a schema declared the same output key twice.
	ErrDuplicateKey = errors.New("duplicate field key")

	// ErrUnknownKey indicates an Only/Except filter names an undeclared key.
	ErrUnknownKey = errors.New("unknown field key")

	// ErrInvalidTag indicates a struct tag has an invalid format or value.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrPreDump indicates the pre-dump hook failed.
	ErrPreDump = errors.New("pre-dump hook failed")

	// ErrMarshal indicates a codec failed to marshal dump output.
	ErrMarshal = errors.New("marshal failed")
)

// FieldError represents a failure extracting one field during a dump.
// It wraps the underlying error with the schema and output key involved.
type FieldError struct {
	Err    error  // Underlying error, wrapping a sentinel where applicable
	Schema string // Schema name
	Field  string // Output key that failed
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("schema %s: field %s: %v", e.Schema, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// SchemaError represents a schema declaration or configuration error.
type SchemaError struct {
	Err    error  // Underlying sentinel error (ErrDuplicateKey, etc.)
	Schema string // Schema name
	Detail string // Offending key, tag, or description
	Cause  error  // Original error, when one exists
}

func (e *SchemaError) Error() string {
	switch {
	case e.Detail != "" && e.Cause != nil:
		return fmt.Sprintf("schema %s: %s: %s: %v", e.Schema, e.Err.Error(), e.Detail, e.Cause)
	case e.Detail != "":
		return fmt.Sprintf("schema %s: %s: %s", e.Schema, e.Err.Error(), e.Detail)
	case e.Cause != nil:
		return fmt.Sprintf("schema %s: %s: %v", e.Schema, e.Err.Error(), e.Cause)
	default:
		return fmt.Sprintf("schema %s: %s", e.Schema, e.Err.Error())
	}
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ResolveError represents a failed deferred schema lookup.
type ResolveError struct {
	Err    error  // Always wraps ErrUnresolvedSchema
	Name   string // Registry name that failed to resolve
	Detail string // Why resolution failed
}

func (e *ResolveError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %q: %s", e.Err.Error(), e.Name, e.Detail)
	}
	return fmt.Sprintf("%s %q", e.Err.Error(), e.Name)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// RecursionError represents a two-way nesting declared without the
// required reciprocal exclusion. Reported by Validate (or the first dump)
// rather than by recursing until a resource limit is hit.
type RecursionError struct {
	Err   error  // Always wraps ErrRecursionGuard
	Outer string // Schema declaring the offending nested field
	Inner string // Schema reached again through that field
	Field string // Nested field key on the outer schema
}

func (e *RecursionError) Error() string {
	return fmt.Sprintf("%s: %s.%s reaches %s again; exclude the reciprocal field on the nested instance",
		e.Err.Error(), e.Outer, e.Field, e.Inner)
}

func (e *RecursionError) Unwrap() error {
	return e.Err
}
