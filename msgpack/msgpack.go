// Package msgpack provides a MessagePack codec implementation.
package msgpack

import (
	"github.com/vmihailenco/msgpack/v5"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"github.com/zoobzio/porter"
)

// msgpackCodec implements porter.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec.
func New() porter.Codec {
	return &msgpackCodec{}
}

// Format returns "msgpack".
func (c *msgpackCodec) Format() string {
	return "msgpack"
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack, emitting ordered mappings in insertion order.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(wrap(v))
}

// orderedMap writes an ordered mapping as a msgpack map.
type orderedMap struct {
	m *orderedmap.OrderedMap[string, any]
}

func (o orderedMap) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(o.m.Len()); err != nil {
		return err
	}
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		if err := enc.EncodeString(pair.Key); err != nil {
			return err
		}
		if err := enc.Encode(wrap(pair.Value)); err != nil {
			return err
		}
	}
	return nil
}

func wrap(v any) any {
	switch t := v.(type) {
	case *orderedmap.OrderedMap[string, any]:
		if t == nil {
			return nil
		}
		return orderedMap{m: t}
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = wrap(item)
		}
		return out
	}
	return v
}
