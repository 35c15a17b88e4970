// Package yaml provides a YAML codec implementation.
package yaml

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"github.com/zoobzio/porter"
	"gopkg.in/yaml.v3"
)

// yamlCodec implements porter.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec.
func New() porter.Codec {
	return &yamlCodec{}
}

// Format returns "yaml".
func (c *yamlCodec) Format() string {
	return "yaml"
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML, emitting ordered mappings in insertion order.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	node, err := toNode(v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

func toNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case *orderedmap.OrderedMap[string, any]:
		if t == nil {
			break
		}
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			value, err := toNode(pair.Value)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: pair.Key},
				value,
			)
		}
		return node, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range t {
			child, err := toNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	}

	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	return node, nil
}
