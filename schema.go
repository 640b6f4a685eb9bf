package mallow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// fieldEntry pairs an output key with its field mapper.
type fieldEntry[T any] struct {
	key   string
	field Field[T]
}

// Schema describes how to flatten one object type into a Map: an ordered
// set of named field mappers, an optional pre-dump hook, and optional
// Only/Except filters.
//
// Declare all fields before the first dump or filtered instance; a Schema
// is effectively immutable once dumping begins and is then safe for
// concurrent use. Filtered instances created by Only/Except share the
// underlying field list.
//
// Validation runs automatically on the first dump and covers duplicate
// keys, filters naming undeclared keys, unresolved deferred references,
// and the recursion guard for mutually-nesting pairs. Call Validate
// explicitly to catch declaration errors at startup.
type Schema[T any] struct {
	name   string
	fields []fieldEntry[T]
	hook   func(T) (T, error)

	only   map[string]bool // nil when no Only filter is set
	except map[string]bool

	// First declaration error, surfaced at validation
	buildErr error

	// Validation state (runs once on first dump)
	validateOnce sync.Once
	validateErr  error
}

// NewSchema creates an empty schema named name. The name appears in
// errors and signals and is the handle for Register.
func NewSchema[T any](name string) *Schema[T] {
	s := &Schema[T]{name: name}
	emitSchemaCreated(context.Background(), name)
	return s
}

// Name returns the schema name.
func (s *Schema[T]) Name() string {
	return s.name
}

// Field appends a field under key. Keys must be unique within one schema;
// a duplicate is recorded and surfaced at validation. Returns the schema
// for chaining.
func (s *Schema[T]) Field(key string, f Field[T]) *Schema[T] {
	for _, e := range s.fields {
		if e.key == key {
			if s.buildErr == nil {
				s.buildErr = &SchemaError{Err: ErrDuplicateKey, Schema: s.name, Detail: key}
			}
			return s
		}
	}
	s.fields = append(s.fields, fieldEntry[T]{key: key, field: f})
	return s
}

// PreDump attaches the pre-processing hook, invoked exactly once per
// source object before any field extraction. The hook returns the value
// the field accessors will read; derive transient attributes there rather
// than mutating caller-owned data. Returns the schema for chaining.
func (s *Schema[T]) PreDump(fn func(T) (T, error)) *Schema[T] {
	s.hook = fn
	return s
}

// Only returns a filtered instance keeping only the named keys. Combining
// with an existing Only intersects the two sets; combining with Except is
// plain set algebra and carries no ordering concerns.
func (s *Schema[T]) Only(keys ...string) *Schema[T] {
	only := make(map[string]bool, len(keys))
	for _, k := range keys {
		if s.only == nil || s.only[k] {
			only[k] = true
		}
	}
	return s.filtered(only, s.except)
}

// Except returns a filtered instance dropping the named keys. Repeated
// applications accumulate.
func (s *Schema[T]) Except(keys ...string) *Schema[T] {
	except := make(map[string]bool, len(s.except)+len(keys))
	for k := range s.except {
		except[k] = true
	}
	for _, k := range keys {
		except[k] = true
	}
	return s.filtered(s.only, except)
}

// filtered builds a new instance sharing this schema's field list.
func (s *Schema[T]) filtered(only, except map[string]bool) *Schema[T] {
	return &Schema[T]{
		name:     s.name,
		fields:   s.fields,
		hook:     s.hook,
		only:     only,
		except:   except,
		buildErr: s.buildErr,
	}
}

// included reports whether key survives the instance filters.
func (s *Schema[T]) included(key string) bool {
	if s.only != nil && !s.only[key] {
		return false
	}
	return !s.except[key]
}

// Fields returns the effective output keys, in declaration order with
// filters applied.
func (s *Schema[T]) Fields() []string {
	keys := make([]string, 0, len(s.fields))
	for _, e := range s.fields {
		if s.included(e.key) {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Validate checks the schema declaration: duplicate keys, filters naming
// undeclared keys, unresolved deferred references, and the recursion
// guard. Validation also runs automatically on the first dump; calling
// Validate explicitly allows catching declaration errors at startup.
func (s *Schema[T]) Validate() error {
	return s.ensureValidated()
}

// ensureValidated runs validation once and caches the result.
func (s *Schema[T]) ensureValidated() error {
	s.validateOnce.Do(func() {
		s.validateErr = s.validate()
	})
	return s.validateErr
}

func (s *Schema[T]) validate() error {
	if s.buildErr != nil {
		return s.buildErr
	}

	declared := make(map[string]bool, len(s.fields))
	for _, e := range s.fields {
		declared[e.key] = true
	}
	for k := range s.only {
		if !declared[k] {
			return &SchemaError{Err: ErrUnknownKey, Schema: s.name, Detail: "only: " + k}
		}
	}
	for k := range s.except {
		if !declared[k] {
			return &SchemaError{Err: ErrUnknownKey, Schema: s.name, Detail: "except: " + k}
		}
	}

	return checkRecursion(s, nil)
}

// Dump applies the schema to a single object.
func (s *Schema[T]) Dump(ctx context.Context, v T) (*Map, error) {
	if err := s.ensureValidated(); err != nil {
		return nil, err
	}

	start := time.Now()
	emitDumpStart(ctx, s.name, 1)

	var retErr error
	defer func() {
		emitDumpComplete(ctx, s.name, 1, time.Since(start), retErr)
	}()

	m, err := s.dumpObject(v)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	return m, nil
}

// DumpMany applies the schema to each element independently, in input
// order. The hook and field extraction run per element with no shared
// derived state; the first failing element aborts the batch.
func (s *Schema[T]) DumpMany(ctx context.Context, vs []T) ([]*Map, error) {
	if err := s.ensureValidated(); err != nil {
		return nil, err
	}

	start := time.Now()
	emitDumpStart(ctx, s.name, len(vs))

	var retErr error
	defer func() {
		emitDumpComplete(ctx, s.name, len(vs), time.Since(start), retErr)
	}()

	out := make([]*Map, 0, len(vs))
	for i, v := range vs {
		m, err := s.dumpObject(v)
		if err != nil {
			retErr = fmt.Errorf("element %d: %w", i, err)
			return nil, retErr
		}
		out = append(out, m)
	}
	return out, nil
}

// dumpObject runs the hook, then extracts each effective field in
// declaration order. Nested dumps enter here directly, so signals are
// emitted only by the public entry points.
func (s *Schema[T]) dumpObject(v T) (*Map, error) {
	if err := s.ensureValidated(); err != nil {
		return nil, err
	}

	if s.hook != nil {
		derived, err := s.hook(v)
		if err != nil {
			return nil, &SchemaError{Err: ErrPreDump, Schema: s.name, Cause: err}
		}
		v = derived
	}

	out := newMap(len(s.fields))
	for _, e := range s.fields {
		if !s.included(e.key) {
			continue
		}
		val, err := e.field.dump(v)
		if err != nil {
			if errors.Is(err, ErrMissingAttribute) && e.field.optional {
				out.set(e.key, nil)
				continue
			}
			return nil, &FieldError{Err: err, Schema: s.name, Field: e.key}
		}
		out.set(e.key, val)
	}
	return out, nil
}

// schemaCore is the untyped view of a schema instance used by the
// recursion guard.
type schemaCore interface {
	schemaName() string
	nestedEdges() ([]graphEdge, error)
}

// graphEdge is one resolved nested reference surviving the instance
// filters.
type graphEdge struct {
	key   string
	child schemaCore
}

func (s *Schema[T]) schemaName() string {
	return s.name
}

func (s *Schema[T]) nestedEdges() ([]graphEdge, error) {
	var out []graphEdge
	for _, e := range s.fields {
		if e.field.edge == nil || !s.included(e.key) {
			continue
		}
		child, err := e.field.edge.resolve()
		if err != nil {
			return nil, err
		}
		out = append(out, graphEdge{key: e.key, child: child})
	}
	return out, nil
}

// recursionStep records one instance on the current DFS path and the
// nested field that led away from it.
type recursionStep struct {
	node  schemaCore
	field string
}

// checkRecursion walks nested references depth-first over schema
// instances. Deferred references cache their resolved instance, so the
// instance graph is finite; revisiting an instance already on the path
// means a nesting cycle whose reciprocal exclusion is missing. This keeps
// the guard a declaration-time contract: a properly excluded pair has no
// back edge and the walk simply terminates.
func checkRecursion(s schemaCore, path []recursionStep) error {
	for _, step := range path {
		if step.node == s {
			prev := path[len(path)-1]
			return &RecursionError{
				Err:   ErrRecursionGuard,
				Outer: prev.node.schemaName(),
				Inner: s.schemaName(),
				Field: prev.field,
			}
		}
	}

	edges, err := s.nestedEdges()
	if err != nil {
		return err
	}
	for _, e := range edges {
		if err := checkRecursion(e.child, append(path, recursionStep{node: s, field: e.key})); err != nil {
			return err
		}
	}
	return nil
}
