package bson

import (
	"context"
	"errors"
	"reflect"
	"testing"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"github.com/zoobzio/porter"
	portertest "github.com/zoobzio/porter/testing"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestFormatAndContentType(t *testing.T) {
	c := New()
	if c.Format() != "bson" {
		t.Errorf("Format() = %q, want %q", c.Format(), "bson")
	}
	if c.ContentType() != "application/bson" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/bson")
	}
}

func rawKeys(t *testing.T, data []byte) []string {
	t.Helper()
	elems, err := bson.Raw(data).Elements()
	if err != nil {
		t.Fatalf("Elements() error: %v", err)
	}
	keys := make([]string, len(elems))
	for i, e := range elems {
		keys[i] = e.Key()
	}
	return keys
}

func TestMarshalKeepsOrder(t *testing.T) {
	m := orderedmap.New[string, any]()
	m.Set("zeta", int32(1))
	m.Set("alpha", []any{"a"})
	m.Set("mid", "m")

	data, err := New().Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if keys := rawKeys(t, data); !reflect.DeepEqual(keys, []string{"zeta", "alpha", "mid"}) {
		t.Errorf("keys = %v, want [zeta alpha mid]", keys)
	}
	if got := bson.Raw(data).Lookup("alpha", "0").StringValue(); got != "a" {
		t.Errorf("alpha.0 = %q, want a", got)
	}
}

func TestMarshalNonDocument(t *testing.T) {
	if _, err := New().Marshal([]any{1}); err == nil {
		t.Error("Marshal() of a sequence should fail")
	}
}

func TestSerializeDTO(t *testing.T) {
	s := porter.New(porter.WithCodec(New()))

	data, err := s.Serialize(context.Background(), portertest.OrderView{
		ID:    5,
		Owner: portertest.User{Name: "Alice"},
	}, "bson")
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}
	if keys := rawKeys(t, data); !reflect.DeepEqual(keys, []string{"ID", "owner"}) {
		t.Errorf("keys = %v, want [ID owner]", keys)
	}
	if got := bson.Raw(data).Lookup("owner").StringValue(); got != "Alice" {
		t.Errorf("owner = %q, want Alice", got)
	}
}

func TestSerializeScalarFails(t *testing.T) {
	s := porter.New(porter.WithCodec(New()))
	_, err := s.Serialize(context.Background(), "plain", "bson")
	if !errors.Is(err, porter.ErrMarshal) {
		t.Errorf("Serialize() error = %v, want ErrMarshal", err)
	}
}
