// Package testing provides test utilities for porter.
package testing

import (
	"context"
	"sync"

	"github.com/stretchr/objx"
	"github.com/zoobzio/porter"
)

// User is a plain struct used as an extraction container.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderView is a DTO exercising both directives.
type OrderView struct {
	porter.DTO
	ID    int
	Owner User `dto.key:"owner" dto.extract:"name"`
}

// PersonView is a DTO with a rename directive.
type PersonView struct {
	porter.DTO
	FullName string `dto.key:"name"`
}

// PlainView is a DTO without directives.
type PlainView struct {
	porter.DTO
	ID    int
	Title string
	Tags  []string
}

// SanitizedView is a DTO combining extraction with mask and redact directives.
type SanitizedView struct {
	porter.DTO
	ID       string `dto.key:"id"`
	Email    string `dto.key:"email" dto.mask:"email"`
	Password string `dto.key:"password" dto.redact:"***"`
	SSN      string `dto.key:"ssn" dto.mask:"ssn"`
	Note     string `dto.key:"note" dto.redact:"[REDACTED]"`
	Owner    User   `dto.key:"owner_email" dto.extract:"email" dto.mask:"email"`
}

// Call records one Normalize call received by a RecordingSerializer.
type Call struct {
	Value  any
	Format string
	Attrs  objx.Map
}

// RecordingSerializer is a porter.Normalizer stub that records every call
// and returns the value unchanged, or Err when set.
type RecordingSerializer struct {
	Err error

	mu    sync.Mutex
	calls []Call
}

// SupportsNormalization implements porter.Normalizer.
func (r *RecordingSerializer) SupportsNormalization(any, string) bool {
	return true
}

// Normalize implements porter.Normalizer.
func (r *RecordingSerializer) Normalize(_ context.Context, value any, format string, attrs objx.Map) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Value: value, Format: format, Attrs: attrs})
	if r.Err != nil {
		return nil, r.Err
	}
	return value, nil
}

// Calls returns a copy of the recorded calls.
func (r *RecordingSerializer) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}
