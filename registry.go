package porter

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/zoobzio/sentinel"
)

var (
	registry   = make(map[reflect.Type]sentinel.Metadata)
	registryMu sync.RWMutex
)

// Register marks struct type T as a data transfer object without requiring
// it to embed DTO. Its field metadata is scanned once with sentinel and
// reused by every normalizer. Registering the same type twice is a no-op.
func Register[T any]() error {
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return &UnsupportedTypeError{Type: typ.String()}
	}

	registryMu.RLock()
	if _, ok := registry[typ]; ok {
		registryMu.RUnlock()
		return nil
	}
	registryMu.RUnlock()

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, ok := registry[typ]; ok {
		return nil
	}

	registry[typ] = sentinel.Scan[T]()
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister[T any]() {
	if err := Register[T](); err != nil {
		panic(fmt.Sprintf("porter: register %s: %v", reflect.TypeFor[T](), err))
	}
}

// registered returns the sentinel metadata for an explicitly registered type.
func registered(t reflect.Type) (sentinel.Metadata, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	md, ok := registry[t]
	return md, ok
}

// Reset clears the type registry.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[reflect.Type]sentinel.Metadata)
}
