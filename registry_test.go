package porter

import (
	"reflect"
	"testing"
)

type registryFixture struct {
	Code string `dto.key:"code"`
}

func TestRegister_Idempotent(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if err := Register[registryFixture](); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := Register[registryFixture](); err != nil {
		t.Fatalf("second Register() error: %v", err)
	}

	md, ok := registered(reflect.TypeFor[registryFixture]())
	if !ok {
		t.Fatal("type should be registered")
	}
	if len(md.Fields) != 1 || md.Fields[0].Tags[TagKey] != "code" {
		t.Errorf("metadata fields = %+v, want Code tagged code", md.Fields)
	}
}

func TestReset(t *testing.T) {
	MustRegister[registryFixture]()
	Reset()

	if _, ok := registered(reflect.TypeFor[registryFixture]()); ok {
		t.Error("Reset() should clear registered types")
	}
}

func TestMustRegister_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustRegister[string]() should panic")
		}
	}()
	MustRegister[string]()
}
