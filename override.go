package mallow

// Valuer allows value types to bypass declared conversion.
// When a value returned by an Any accessor implements this interface, the
// dump pipeline calls DumpValue instead of emitting the value as-is.
//
// This is the escape hatch for attribute types the typed constructors do
// not cover (wrapped identifiers, units, enumerations rendered by name).
type Valuer interface {
	// DumpValue returns the serializable form of the receiver: a primitive,
	// *Map, or []*Map.
	DumpValue() (any, error)
}
