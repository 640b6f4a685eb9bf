package mallow

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register the schema tag with sentinel
	sentinel.Tag("mallow")
}

var timeType = reflect.TypeOf(time.Time{})

// Infer builds a flat schema for struct type T from `mallow` struct tags.
//
// Tag syntax:
//
//	mallow:"{key}[,{kind}]"
//
// The key names the output field; an empty key uses the lowercased Go
// field name. The kind defaults by field type: string fields to string,
// integer fields to int, floats to float, bools to bool, and time.Time
// fields to datetime. Explicit kinds narrow the conversion:
//
//	type Patient struct {
//	    Name  string    `mallow:"name"`
//	    Email string    `mallow:"email,email"`
//	    DOB   time.Time `mallow:"dob,date"`
//	}
//
// Untagged fields are skipped, as are fields tagged "-". Tagged struct,
// pointer, slice, map, and interface fields are rejected: nesting requires
// explicit schema composition via Nested or NestedRef.
func Infer[T any](name string) (*Schema[T], error) {
	if reflect.TypeFor[T]().Kind() != reflect.Struct {
		return nil, &SchemaError{
			Err:    ErrInvalidTag,
			Schema: name,
			Detail: fmt.Sprintf("cannot infer fields for non-struct type %s", reflect.TypeFor[T]()),
		}
	}

	spec := sentinel.Scan[T]()
	s := NewSchema[T](name)
	for _, field := range spec.Fields {
		tag, ok := field.Tags["mallow"]
		if !ok || tag == "-" {
			continue
		}

		key, kindName, _ := strings.Cut(tag, ",")
		if key == "" {
			key = strings.ToLower(field.Name)
		}

		f, err := inferField[T](name, field, Kind(kindName))
		if err != nil {
			return nil, err
		}
		s.Field(key, f)
	}

	if s.buildErr != nil {
		return nil, s.buildErr
	}
	return s, nil
}

// inferField maps one tagged struct field to a typed field mapper.
func inferField[T any](schemaName string, meta sentinel.FieldMetadata, kind Kind) (Field[T], error) {
	rt := meta.ReflectType
	index := meta.Index

	badKind := func() (Field[T], error) {
		return Field[T]{}, &SchemaError{
			Err:    ErrInvalidTag,
			Schema: schemaName,
			Detail: fmt.Sprintf("field %s: kind %q not valid for type %s", meta.Name, kind, rt),
		}
	}
	if kind != "" && !IsValidKind(kind) {
		return badKind()
	}

	read := func(v T) reflect.Value {
		return reflect.ValueOf(v).FieldByIndex(index)
	}

	if rt == timeType {
		switch kind {
		case "", KindDateTime:
			return DateTime(func(v T) time.Time { return read(v).Interface().(time.Time) }), nil
		case KindDate:
			return Date(func(v T) time.Time { return read(v).Interface().(time.Time) }), nil
		case KindDateTimeTZ:
			return DateTimeTZ(func(v T) time.Time { return read(v).Interface().(time.Time) }), nil
		default:
			return badKind()
		}
	}

	switch rt.Kind() {
	case reflect.String:
		switch kind {
		case "", KindString:
			return String(func(v T) string { return read(v).String() }), nil
		case KindEmail:
			return Email(func(v T) string { return read(v).String() }), nil
		default:
			return badKind()
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if kind != "" && kind != KindInt {
			return badKind()
		}
		return Int(func(v T) int { return int(read(v).Int()) }), nil
	case reflect.Float32, reflect.Float64:
		if kind != "" && kind != KindFloat {
			return badKind()
		}
		return Float(func(v T) float64 { return read(v).Float() }), nil
	case reflect.Bool:
		if kind != "" && kind != KindBool {
			return badKind()
		}
		return Bool(func(v T) bool { return read(v).Bool() }), nil
	default:
		return Field[T]{}, &SchemaError{
			Err:    ErrInvalidTag,
			Schema: schemaName,
			Detail: fmt.Sprintf("field %s: type %s requires explicit schema composition", meta.Name, rt),
		}
	}
}
