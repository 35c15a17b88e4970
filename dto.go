package porter

import "reflect"

// DataTransferObject is the capability marker for values the DTO
// normalizer handles. Embed DTO to satisfy it:
//
//	type OrderView struct {
//	    porter.DTO
//	    ID    int
//	    Owner User `dto.extract:"name"`
//	}
//
// Types that cannot embed the marker can be registered with Register.
type DataTransferObject interface {
	DataTransferObject()
}

// DTO implements DataTransferObject. The embedded field itself is never
// emitted.
type DTO struct{}

// DataTransferObject implements the marker interface.
func (DTO) DataTransferObject() {}

var (
	dtoInterface = reflect.TypeFor[DataTransferObject]()
	dtoMarker    = reflect.TypeFor[DTO]()
)

// isMarked reports whether t, or a pointer to t, implements the marker.
func isMarked(t reflect.Type) bool {
	return t.Implements(dtoInterface) || reflect.PointerTo(t).Implements(dtoInterface)
}

// structValue dereferences v down to a struct. ok is false for nil
// values, nil pointers and non-struct kinds.
func structValue(v any) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	return rv, true
}

// typeName returns a printable name for v's dynamic type.
func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	return reflect.TypeOf(v).String()
}
