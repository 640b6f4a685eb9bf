// Package yaml provides a YAML codec implementation.
//
// Mapping output preserves schema declaration order by encoding through
// yaml mapping nodes rather than Go maps.
package yaml

import (
	"fmt"

	"github.com/mallowkit/mallow"
	"gopkg.in/yaml.v3"
)

// yamlCodec implements mallow.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec.
func New() mallow.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	node, err := toNode(v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

// toNode converts dump output into yaml nodes, keeping Map key order.
func toNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case *mallow.Map:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range val.Keys() {
			keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
			valNode, err := toNode(val.Value(key))
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, keyNode, valNode)
		}
		return node, nil
	case []*mallow.Map:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, m := range val {
			child, err := toNode(m)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return nil, fmt.Errorf("%w: %v", mallow.ErrMarshal, err)
		}
		return node, nil
	}
}
