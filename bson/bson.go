// Package bson provides a BSON codec implementation.
package bson

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"github.com/zoobzio/porter"
	"go.mongodb.org/mongo-driver/bson"
)

// bsonCodec implements porter.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() porter.Codec {
	return &bsonCodec{}
}

// Format returns "bson".
func (c *bsonCodec) Format() string {
	return "bson"
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as a BSON document. The top-level value must be an
// ordered mapping; its order is kept by converting it to bson.D.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	doc, ok := convert(v).(bson.D)
	if !ok {
		return nil, fmt.Errorf("bson: top-level value must be a document, got %T", v)
	}
	return bson.Marshal(doc)
}

func convert(v any) any {
	switch t := v.(type) {
	case *orderedmap.OrderedMap[string, any]:
		if t == nil {
			return nil
		}
		doc := make(bson.D, 0, t.Len())
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			doc = append(doc, bson.E{Key: pair.Key, Value: convert(pair.Value)})
		}
		return doc
	case []any:
		arr := make(bson.A, len(t))
		for i, item := range t {
			arr[i] = convert(item)
		}
		return arr
	}
	return v
}
