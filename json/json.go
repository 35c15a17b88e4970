// Package json provides a JSON codec implementation.
package json

import (
	"encoding/json"

	"github.com/zoobzio/porter"
)

// jsonCodec implements porter.Codec for JSON. Ordered mappings marshal
// themselves in insertion order.
type jsonCodec struct{}

// New returns a JSON codec.
func New() porter.Codec {
	return &jsonCodec{}
}

// Format returns "json".
func (c *jsonCodec) Format() string {
	return "json"
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}
