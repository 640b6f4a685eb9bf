package mallow

import (
	"bytes"
	"encoding/json"
)

// Map is the dump output: a string-keyed mapping whose keys keep the
// declaration order of the schema that produced it. Values are
// serializable primitives, nil, *Map, or []*Map.
type Map struct {
	keys   []string
	values map[string]any
}

func newMap(capacity int) *Map {
	return &Map{
		keys:   make([]string, 0, capacity),
		values: make(map[string]any, capacity),
	}
}

// set inserts a key. Schemas guarantee unique keys, so a repeat insert can
// only come from a bug upstream; the first position wins.
func (m *Map) set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Len returns the number of keys.
func (m *Map) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order. The slice is a copy.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Get returns the value for key and whether the key is present.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Value returns the value for key, or nil when absent.
func (m *Map) Value(key string) any {
	return m.values[key]
}

// MarshalJSON writes the mapping as a JSON object with keys in insertion
// order. Nested *Map and []*Map values marshal recursively.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
