// Package json provides a JSON codec implementation.
package json

import (
	"encoding/json"

	"github.com/mallowkit/mallow"
)

// jsonCodec implements mallow.Codec for JSON.
type jsonCodec struct{}

// New returns a JSON codec.
func New() mallow.Codec {
	return &jsonCodec{}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON. Map values marshal as objects with keys in
// schema declaration order.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}
