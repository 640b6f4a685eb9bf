package mallow

import "sync"

// nestedEdge is the declaration-side record of one nested reference,
// resolvable to the child schema instance for the recursion guard.
type nestedEdge struct {
	resolve func() (schemaCore, error)
}

// Nested wraps child under a field key with single cardinality. The
// accessor returns a pointer: nil fails the dump with ErrMissingAttribute
// unless the field is marked Optional, which maps nil to null instead.
func Nested[T any, C any](child *Schema[C], get func(T) *C) Field[T] {
	f := Field[T]{
		kind: KindNested,
		edge: &nestedEdge{resolve: func() (schemaCore, error) { return child, nil }},
	}
	f.dump = func(v T) (any, error) {
		c := get(v)
		if c == nil {
			return nil, ErrMissingAttribute
		}
		return child.dumpObject(*c)
	}
	return f
}

// NestedMany wraps child under a field key with many cardinality. The
// child schema applies to each element independently, preserving input
// order. A nil slice dumps as an empty sequence.
func NestedMany[T any, C any](child *Schema[C], get func(T) []C) Field[T] {
	f := Field[T]{
		kind: KindNested,
		edge: &nestedEdge{resolve: func() (schemaCore, error) { return child, nil }},
	}
	f.dump = func(v T) (any, error) {
		return dumpSlice(child, get(v))
	}
	return f
}

// NestedRef is Nested with the child schema resolved through the registry
// at first use. Use when two schemas must reference each other and no
// declaration order can satisfy both.
func NestedRef[T any, C any](ref Ref[C], get func(T) *C) Field[T] {
	resolve := ref.resolver()
	f := Field[T]{
		kind: KindNested,
		edge: &nestedEdge{resolve: func() (schemaCore, error) {
			child, err := resolve()
			if err != nil {
				return nil, err
			}
			return child, nil
		}},
	}
	f.dump = func(v T) (any, error) {
		child, err := resolve()
		if err != nil {
			return nil, err
		}
		c := get(v)
		if c == nil {
			return nil, ErrMissingAttribute
		}
		return child.dumpObject(*c)
	}
	return f
}

// NestedManyRef is NestedMany with the child schema resolved through the
// registry at first use.
func NestedManyRef[T any, C any](ref Ref[C], get func(T) []C) Field[T] {
	resolve := ref.resolver()
	f := Field[T]{
		kind: KindNested,
		edge: &nestedEdge{resolve: func() (schemaCore, error) {
			child, err := resolve()
			if err != nil {
				return nil, err
			}
			return child, nil
		}},
	}
	f.dump = func(v T) (any, error) {
		child, err := resolve()
		if err != nil {
			return nil, err
		}
		return dumpSlice(child, get(v))
	}
	return f
}

func dumpSlice[C any](child *Schema[C], cs []C) ([]*Map, error) {
	out := make([]*Map, 0, len(cs))
	for _, c := range cs {
		m, err := child.dumpObject(c)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Ref is a deferred reference to a registered schema, with optional
// Only/Except filters applied to the instance it resolves to. The zero
// value is unusable; construct with SchemaRef.
type Ref[C any] struct {
	name   string
	only   []string
	except []string
}

// SchemaRef creates a deferred reference to the schema registered under
// name. Resolution happens at the first dump or validation that needs it,
// so registration may follow declaration.
func SchemaRef[C any](name string) Ref[C] {
	return Ref[C]{name: name}
}

// Only records an inclusion filter for the resolved instance.
func (r Ref[C]) Only(keys ...string) Ref[C] {
	r.only = append(r.only[:len(r.only):len(r.only)], keys...)
	return r
}

// Except records an exclusion filter for the resolved instance. This is
// the half of the recursion-guard contract a mutually-nesting pair
// declares on each side.
func (r Ref[C]) Except(keys ...string) Ref[C] {
	r.except = append(r.except[:len(r.except):len(r.except)], keys...)
	return r
}

// resolver returns a lookup function caching the resolved, filtered
// instance after first success. One resolver is shared by the dump path
// and the recursion guard of the declaring field, so both see the same
// instance.
func (r Ref[C]) resolver() func() (*Schema[C], error) {
	var (
		mu     sync.Mutex
		cached *Schema[C]
	)
	return func() (*Schema[C], error) {
		mu.Lock()
		defer mu.Unlock()
		if cached != nil {
			return cached, nil
		}
		s, err := lookup[C](r.name)
		if err != nil {
			return nil, err
		}
		if len(r.only) > 0 {
			s = s.Only(r.only...)
		}
		if len(r.except) > 0 {
			s = s.Except(r.except...)
		}
		cached = s
		return cached, nil
	}
}
