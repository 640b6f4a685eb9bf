// Package mallow provides declarative schema serialization with
// cycle-safe nesting.
//
// A Schema describes how to flatten one object type into an ordered,
// string-keyed Map. Fields are declared with typed accessor functions
// bound at construction time; there is no per-call attribute discovery.
//
// # Basic Usage
//
//	type Patient struct {
//	    Name  string
//	    Email string
//	    DOB   time.Time
//	}
//
//	patientSchema := mallow.NewSchema[Patient]("Patient").
//	    Field("name", mallow.String(func(p Patient) string { return p.Name })).
//	    Field("email", mallow.Email(func(p Patient) string { return p.Email })).
//	    Field("dob", mallow.Date(func(p Patient) time.Time { return p.DOB }))
//
//	out, err := patientSchema.Dump(ctx, patient)
//
// # Nesting
//
// Nested and NestedMany splice a child schema's output under a named key.
// Cardinality is declared, never inferred: Nested takes a pointer accessor
// and produces one mapping, NestedMany takes a slice accessor and produces
// an ordered sequence.
//
// # Two-Way Nesting
//
// When two schemas reference each other, recursion is broken statically by
// configuration: the instance installed as the nested field on one side
// must exclude the reciprocal key. Register both schemas and defer the
// references:
//
//	mallow.Register("Author", authorSchema)
//	mallow.Register("Book", bookSchema)
//
//	authorSchema.Field("books", mallow.NestedManyRef(
//	    mallow.SchemaRef[Book]("Book").Except("author"),
//	    func(a Author) []Book { return booksBy(a) },
//	).DumpOnly())
//
//	bookSchema.Field("author", mallow.NestedRef(
//	    mallow.SchemaRef[Author]("Author").Except("books"),
//	    func(b Book) *Author { return b.Author },
//	))
//
// A pair declared without the reciprocal exclusion fails validation with
// ErrRecursionGuard before any object is dumped. There is no runtime depth
// counter or visited set.
//
// # Filtering
//
// Only and Except produce a filtered instance of a schema. Filters are set
// algebra over the declared keys (declared intersect only, minus except),
// so the two forms combine without ordering concerns. Filtered instances
// share the underlying definition and are cheap to construct per use.
//
// # Pre-Dump Hook
//
// PreDump attaches a derivation step invoked exactly once per source
// object, before any field extraction. The hook receives the object by
// value and returns the value the accessors will read, so caller-owned
// data is never mutated.
//
// # Value Formats
//
//   - Date fields render as 2006-01-02.
//   - DateTime fields render as 2006-01-02T15:04:05 with no offset.
//   - DateTimeTZ fields render as RFC 3339 for sources that carry a zone.
//   - Email fields pass through after a format check.
//
// # Codec Providers
//
// The dump output renders through Codec implementations in subpackages:
//
//   - json - JSON encoding (application/json)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//
// All three preserve schema declaration order in mapping output.
package mallow

import "context"

// Codec renders dump output to a wire encoding.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes a dump result (*Map, []*Map, or primitive) into bytes.
	Marshal(v any) ([]byte, error)
}

// Dump applies schema to a single object. Equivalent to schema.Dump.
func Dump[T any](ctx context.Context, schema *Schema[T], v T) (*Map, error) {
	return schema.Dump(ctx, v)
}

// DumpMany applies schema to each element independently, preserving input
// order. Equivalent to schema.DumpMany.
func DumpMany[T any](ctx context.Context, schema *Schema[T], vs []T) ([]*Map, error) {
	return schema.DumpMany(ctx, vs)
}
