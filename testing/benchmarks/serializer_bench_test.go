package benchmarks

import (
	"context"
	"testing"

	"github.com/zoobzio/porter"
	"github.com/zoobzio/porter/json"
	portertest "github.com/zoobzio/porter/testing"
)

type sanitizedView struct {
	porter.DTO
	Email    string `dto.mask:"email"`
	Password string `dto.hash:"sha256"`
	Token    string `dto.redact:"[redacted]"`
}

func BenchmarkSerialize_NoDirectives(b *testing.B) {
	s := porter.New(porter.WithCodec(json.New()))
	view := portertest.PlainView{ID: 1, Title: "title", Tags: []string{"a", "b"}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Serialize(context.Background(), view, "json")
	}
}

func BenchmarkSerialize_Extraction(b *testing.B) {
	s := porter.New(porter.WithCodec(json.New()))
	view := portertest.OrderView{ID: 5, Owner: portertest.User{ID: 7, Name: "Alice"}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Serialize(context.Background(), view, "json")
	}
}

func BenchmarkSerialize_Transforms(b *testing.B) {
	s := porter.New(porter.WithCodec(json.New()))
	view := sanitizedView{Email: "alice@example.com", Password: "secret", Token: "tok"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Serialize(context.Background(), view, "json")
	}
}

func BenchmarkNormalize_Recording(b *testing.B) {
	n := porter.NewDTONormalizer(&portertest.RecordingSerializer{})
	view := portertest.PersonView{FullName: "Bob"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = n.Normalize(context.Background(), view, "json", nil)
	}
}

func BenchmarkSerialize_Parallel(b *testing.B) {
	s := porter.New(porter.WithCodec(json.New()))
	view := portertest.OrderView{ID: 5, Owner: portertest.User{Name: "Alice"}}

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = s.Serialize(context.Background(), view, "json")
		}
	})
}
