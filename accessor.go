package porter

import (
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// PropertyAccessor reads the value at a path inside an arbitrary container.
type PropertyAccessor interface {
	Get(container any, path string) (any, error)
}

// PathAccessor is the default PropertyAccessor.
//
// Paths are dotted segments with optional bracket indices:
//
//	owner.name
//	items[0].sku
//	[region].code
//	tags.0
//
// Each segment is resolved against the current value as an exported
// struct field (exact name, capitalized name, then json tag name), a
// zero-argument getter (GetX, X, IsX, HasX), a map key, or a slice index.
// PathExtractor implementations and json.RawMessage containers receive
// the remainder of the path; raw JSON is queried with gjson, and objects
// or arrays found there are returned as json.RawMessage.
type PathAccessor struct{}

var errorType = reflect.TypeFor[error]()

// Get implements PropertyAccessor. Every failure is a *PathError.
func (a PathAccessor) Get(container any, path string) (any, error) {
	segs, err := parsePath(path)
	if err != nil {
		return nil, &PathError{Path: path, Segment: path, Reason: err.Error()}
	}

	cur := container
	for i, seg := range segs {
		if isNil(cur) {
			return nil, &PathError{Path: path, Segment: seg, Reason: "container is nil"}
		}

		switch c := cur.(type) {
		case PathExtractor:
			v, err := c.ExtractPath(joinPath(segs[i:]))
			if err != nil {
				return nil, &PathError{Path: path, Segment: seg, Reason: "extractor failed", Cause: err}
			}
			return v, nil
		case json.RawMessage:
			res := gjson.GetBytes(c, gjsonPath(segs[i:]))
			if !res.Exists() {
				return nil, &PathError{Path: path, Segment: seg, Reason: "not found in raw JSON"}
			}
			if res.IsObject() || res.IsArray() {
				return json.RawMessage(res.Raw), nil
			}
			return res.Value(), nil
		}

		next, reason, err := step(reflect.ValueOf(cur), seg)
		if reason != "" {
			return nil, &PathError{Path: path, Segment: seg, Reason: reason, Cause: err}
		}
		cur = next
	}
	return cur, nil
}

// step resolves one segment. A non-empty reason reports failure.
func step(rv reflect.Value, seg string) (any, string, error) {
	orig := rv
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, "container is nil", nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		if fv, ok := structField(rv, seg); ok {
			return fv.Interface(), "", nil
		}
		if m, ok := getter(orig, rv, seg); ok {
			out := m.Call(nil)
			if len(out) == 2 && !out[1].IsNil() {
				return nil, "getter failed", out[1].Interface().(error)
			}
			return out[0].Interface(), "", nil
		}
		return nil, "no field or getter on " + rv.Type().String(), nil

	case reflect.Map:
		key, err := mapKey(rv.Type().Key(), seg)
		if err != nil {
			return nil, "invalid map key", err
		}
		v := rv.MapIndex(key)
		if !v.IsValid() {
			return nil, "missing map key", nil
		}
		return v.Interface(), "", nil

	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(seg)
		if err != nil {
			return nil, "invalid index", err
		}
		if i < 0 || i >= rv.Len() {
			return nil, "index out of range", nil
		}
		return rv.Index(i).Interface(), "", nil
	}

	return nil, "cannot traverse " + rv.Kind().String(), nil
}

func structField(rv reflect.Value, name string) (reflect.Value, bool) {
	t := rv.Type()
	for _, candidate := range []string{name, upperFirst(name)} {
		if sf, ok := t.FieldByName(candidate); ok && sf.IsExported() {
			if fv, err := rv.FieldByIndexErr(sf.Index); err == nil {
				return fv, true
			}
		}
	}
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		tagName, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if tagName == name {
			if fv, err := rv.FieldByIndexErr(sf.Index); err == nil {
				return fv, true
			}
		}
	}
	return reflect.Value{}, false
}

// getter finds a zero-argument method returning (T) or (T, error).
// Pointer receivers are reachable even when the container was passed by value.
func getter(orig, rv reflect.Value, name string) (reflect.Value, bool) {
	receivers := []reflect.Value{orig}
	if orig.Kind() != reflect.Pointer {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		receivers = append(receivers, ptr)
	}

	upper := upperFirst(name)
	for _, methodName := range []string{"Get" + upper, upper, "Is" + upper, "Has" + upper} {
		for _, recv := range receivers {
			m := recv.MethodByName(methodName)
			if !m.IsValid() {
				continue
			}
			mt := m.Type()
			if mt.NumIn() != 0 {
				continue
			}
			if mt.NumOut() == 1 || (mt.NumOut() == 2 && mt.Out(1) == errorType) {
				return m, true
			}
		}
	}
	return reflect.Value{}, false
}

func mapKey(kt reflect.Type, seg string) (reflect.Value, error) {
	key := reflect.New(kt).Elem()
	switch kt.Kind() {
	case reflect.String:
		key.SetString(seg)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(seg, 10, kt.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		key.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(seg, 10, kt.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		key.SetUint(n)
	default:
		return reflect.Value{}, errors.New("unsupported key kind " + kt.Kind().String())
	}
	return key, nil
}

// parsePath splits a path into segments, unwrapping bracket indices.
func parsePath(path string) ([]string, error) {
	if path == "" {
		return nil, errors.New("empty path")
	}

	var segs []string
	for i := 0; i < len(path); {
		switch path[i] {
		case '[':
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				return nil, errors.New("unclosed bracket")
			}
			if end == 1 {
				return nil, errors.New("empty bracket")
			}
			segs = append(segs, path[i+1:i+end])
			i += end + 1
			if i < len(path) && path[i] == '.' {
				i++
				if i == len(path) {
					return nil, errors.New("trailing dot")
				}
			}
		case '.':
			return nil, errors.New("empty segment")
		default:
			end := strings.IndexAny(path[i:], ".[")
			if end < 0 {
				segs = append(segs, path[i:])
				i = len(path)
				continue
			}
			segs = append(segs, path[i:i+end])
			i += end
			if path[i] == '.' {
				i++
				if i == len(path) {
					return nil, errors.New("trailing dot")
				}
			}
		}
	}
	return segs, nil
}

// isNil reports nil values and typed nil pointers, interfaces, maps and slices.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// joinPath is the inverse of parsePath: segments holding '.' or '['
// are bracketed.
func joinPath(segs []string) string {
	var b strings.Builder
	for i, seg := range segs {
		if strings.ContainsAny(seg, ".[") {
			b.WriteString("[" + seg + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

// gjsonPath escapes gjson's path syntax inside each segment.
func gjsonPath(segs []string) string {
	escaped := make([]string, len(segs))
	for i, seg := range segs {
		var b strings.Builder
		for _, r := range seg {
			if strings.ContainsRune(`\.*?|#@!`, r) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
		escaped[i] = b.String()
	}
	return strings.Join(escaped, ".")
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
