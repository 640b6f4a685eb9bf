// Package msgpack provides a MessagePack codec implementation.
//
// Mapping output preserves schema declaration order by writing map entries
// through the streaming encoder.
package msgpack

import (
	"bytes"

	"github.com/mallowkit/mallow"
	"github.com/vmihailenco/msgpack/v5"
)

// msgpackCodec implements mallow.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec.
func New() mallow.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encode(enc, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encode writes dump output through the streaming encoder, keeping Map
// key order.
func encode(enc *msgpack.Encoder, v any) error {
	switch val := v.(type) {
	case *mallow.Map:
		if err := enc.EncodeMapLen(val.Len()); err != nil {
			return err
		}
		for _, key := range val.Keys() {
			if err := enc.EncodeString(key); err != nil {
				return err
			}
			if err := encode(enc, val.Value(key)); err != nil {
				return err
			}
		}
		return nil
	case []*mallow.Map:
		if err := enc.EncodeArrayLen(len(val)); err != nil {
			return err
		}
		for _, m := range val {
			if err := encode(enc, m); err != nil {
				return err
			}
		}
		return nil
	default:
		return enc.Encode(v)
	}
}
