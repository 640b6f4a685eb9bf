package mallow

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Kind identifies a field conversion.
type Kind string

const (
	// KindString copies a string value unchanged.
	KindString Kind = "string"

	// KindInt copies an integer value unchanged.
	KindInt Kind = "int"

	// KindFloat copies a floating-point value unchanged.
	KindFloat Kind = "float"

	// KindBool copies a boolean value unchanged.
	KindBool Kind = "bool"

	// KindEmail passes a string through after a coarse email-shape check.
	KindEmail Kind = "email"

	// KindDate renders a time.Time as 2006-01-02.
	KindDate Kind = "date"

	// KindDateTime renders a time.Time as 2006-01-02T15:04:05, no offset.
	KindDateTime Kind = "datetime"

	// KindDateTimeTZ renders a time.Time as RFC 3339, carrying the zone.
	KindDateTimeTZ Kind = "datetimetz"

	// KindAny uses a caller-supplied accessor returning (any, error).
	KindAny Kind = "any"

	// KindNested splices a child schema's output under the field key.
	KindNested Kind = "nested"
)

// validKinds contains all valid field kinds for tag validation.
var validKinds = map[Kind]bool{
	KindString:     true,
	KindInt:        true,
	KindFloat:      true,
	KindBool:       true,
	KindEmail:      true,
	KindDate:       true,
	KindDateTime:   true,
	KindDateTimeTZ: true,
	KindAny:        true,
	KindNested:     true,
}

// IsValidKind returns true if k is a known field kind.
func IsValidKind(k Kind) bool {
	return validKinds[k]
}

// Wire formats for date and datetime values.
const (
	// DateFormat is the layout for Date fields.
	DateFormat = "2006-01-02"

	// DateTimeFormat is the layout for DateTime fields. No fractional
	// seconds, no zone suffix.
	DateTimeFormat = "2006-01-02T15:04:05"
)

// emailCheck is the shared validator for email-format fields.
var emailCheck = validator.New()

// Field maps one attribute of T to one named output value.
// Construct with the typed constructors below and attach via Schema.Field.
type Field[T any] struct {
	kind     Kind
	dump     func(T) (any, error)
	edge     *nestedEdge
	dumpOnly bool
	optional bool
}

// Kind returns the field's conversion kind.
func (f Field[T]) Kind() Kind {
	return f.kind
}

// DumpOnly marks the field as populated only during serialization.
// Any future mapping-to-object direction must skip it entirely; the dump
// path is unaffected.
func (f Field[T]) DumpOnly() Field[T] {
	f.dumpOnly = true
	return f
}

// Optional maps an absent value to null instead of failing the dump with
// ErrMissingAttribute.
func (f Field[T]) Optional() Field[T] {
	f.optional = true
	return f
}

// String maps a string attribute unchanged.
func String[T any](get func(T) string) Field[T] {
	return Field[T]{kind: KindString, dump: func(v T) (any, error) {
		return get(v), nil
	}}
}

// Int maps an integer attribute unchanged.
func Int[T any](get func(T) int) Field[T] {
	return Field[T]{kind: KindInt, dump: func(v T) (any, error) {
		return get(v), nil
	}}
}

// Float maps a floating-point attribute unchanged.
func Float[T any](get func(T) float64) Field[T] {
	return Field[T]{kind: KindFloat, dump: func(v T) (any, error) {
		return get(v), nil
	}}
}

// Bool maps a boolean attribute unchanged.
func Bool[T any](get func(T) bool) Field[T] {
	return Field[T]{kind: KindBool, dump: func(v T) (any, error) {
		return get(v), nil
	}}
}

// Email maps a string attribute through a coarse email-shape check.
// A malformed address fails the dump with ErrValidation.
func Email[T any](get func(T) string) Field[T] {
	return Field[T]{kind: KindEmail, dump: func(v T) (any, error) {
		addr := get(v)
		if err := emailCheck.Var(addr, "email"); err != nil {
			return nil, fmt.Errorf("%w: malformed email %q", ErrValidation, addr)
		}
		return addr, nil
	}}
}

// Date maps a time.Time attribute to its 2006-01-02 form.
func Date[T any](get func(T) time.Time) Field[T] {
	return Field[T]{kind: KindDate, dump: func(v T) (any, error) {
		return get(v).Format(DateFormat), nil
	}}
}

// DateTime maps a time.Time attribute to its 2006-01-02T15:04:05 form.
// The zone is dropped; use DateTimeTZ for sources that carry one.
func DateTime[T any](get func(T) time.Time) Field[T] {
	return Field[T]{kind: KindDateTime, dump: func(v T) (any, error) {
		return get(v).Format(DateTimeFormat), nil
	}}
}

// DateTimeTZ maps a time.Time attribute to its RFC 3339 form, keeping the
// zone offset.
func DateTimeTZ[T any](get func(T) time.Time) Field[T] {
	return Field[T]{kind: KindDateTimeTZ, dump: func(v T) (any, error) {
		return get(v).Format(time.RFC3339), nil
	}}
}

// Any maps an attribute through a caller-supplied accessor. The returned
// value should be a serializable primitive, *Map, or []*Map. Values
// implementing Valuer are converted through DumpValue.
func Any[T any](get func(T) (any, error)) Field[T] {
	return Field[T]{kind: KindAny, dump: func(v T) (any, error) {
		val, err := get(v)
		if err != nil {
			return nil, err
		}
		if dv, ok := val.(Valuer); ok {
			return dv.DumpValue()
		}
		return val, nil
	}}
}
