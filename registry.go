package mallow

import (
	"fmt"
	"sync"
)

var (
	registry   = make(map[string]any)
	registryMu sync.RWMutex
)

// Register makes schema resolvable by name through SchemaRef. Registering
// a name again replaces the earlier entry; references that already
// resolved keep the instance they cached.
func Register[T any](name string, schema *Schema[T]) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = schema
}

// lookup resolves name to a registered *Schema[C].
func lookup[C any](name string) (*Schema[C], error) {
	registryMu.RLock()
	entry, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, &ResolveError{Err: ErrUnresolvedSchema, Name: name, Detail: "not registered"}
	}
	schema, ok := entry.(*Schema[C])
	if !ok {
		return nil, &ResolveError{
			Err:    ErrUnresolvedSchema,
			Name:   name,
			Detail: fmt.Sprintf("registered for a different type (%T)", entry),
		}
	}
	return schema, nil
}

// Reset clears the schema registry.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]any)
}
