package porter

import (
	"cmp"
	"context"
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/stretchr/objx"
	"github.com/tidwall/gjson"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultMaxDepth bounds nested normalization.
const DefaultMaxDepth = 64

// Serializer normalizes values through a chain of normalizers and encodes
// the result with a registered codec.
//
// The chain is, in order: normalizers added with WithNormalizer, the
// EntityIDNormalizer, the DTONormalizer, then a generic fallback that
// handles scalars, maps, slices and plain structs.
//
// A Serializer is immutable after New and safe for concurrent use.
type Serializer struct {
	normalizers []Normalizer
	codecs      map[string]Codec
	maxDepth    int
}

type serializerConfig struct {
	codecs      []Codec
	normalizers []func(s Normalizer) Normalizer
	dtoOpts     []Option
	maxDepth    int
}

// SerializerOption configures a Serializer.
type SerializerOption func(*serializerConfig)

// WithCodec registers a codec under its Format() and ContentType().
func WithCodec(c Codec) SerializerOption {
	return func(cfg *serializerConfig) { cfg.codecs = append(cfg.codecs, c) }
}

// WithNormalizer adds a custom normalizer ahead of the built-in ones.
// The factory receives the serializer so the normalizer can recurse.
func WithNormalizer(factory func(s Normalizer) Normalizer) SerializerOption {
	return func(cfg *serializerConfig) { cfg.normalizers = append(cfg.normalizers, factory) }
}

// WithDTOOptions configures the built-in DTONormalizer.
func WithDTOOptions(opts ...Option) SerializerOption {
	return func(cfg *serializerConfig) { cfg.dtoOpts = append(cfg.dtoOpts, opts...) }
}

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(depth int) SerializerOption {
	return func(cfg *serializerConfig) { cfg.maxDepth = depth }
}

// New creates a Serializer.
func New(opts ...SerializerOption) *Serializer {
	cfg := serializerConfig{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Serializer{
		codecs:   make(map[string]Codec, len(cfg.codecs)*2),
		maxDepth: cfg.maxDepth,
	}
	for _, c := range cfg.codecs {
		s.codecs[c.Format()] = c
		s.codecs[c.ContentType()] = c
	}
	for _, factory := range cfg.normalizers {
		s.normalizers = append(s.normalizers, factory(s))
	}
	s.normalizers = append(s.normalizers,
		NewEntityIDNormalizer(s),
		NewDTONormalizer(s, cfg.dtoOpts...),
	)
	return s
}

// SupportsNormalization always returns true; the generic fallback accepts
// anything a normalizer in the chain does not.
func (s *Serializer) SupportsNormalization(any, string) bool {
	return true
}

// Normalize dispatches value to the first supporting normalizer, or to the
// generic fallback.
func (s *Serializer) Normalize(ctx context.Context, value any, format string, attrs objx.Map) (any, error) {
	depth := depthFrom(ctx)
	if depth >= s.maxDepth {
		return nil, fmt.Errorf("%w: %d levels", ErrMaxDepth, s.maxDepth)
	}
	ctx = withDepth(ctx, depth+1)

	for _, n := range s.normalizers {
		if supports(n, value, format, attrs) {
			return n.Normalize(ctx, value, format, attrs)
		}
	}
	return s.normalizeGeneric(ctx, value, format, attrs)
}

// Serialize normalizes value and encodes it with the codec registered for
// format (a format name or content type).
func (s *Serializer) Serialize(ctx context.Context, value any, format string) ([]byte, error) {
	start := time.Now()
	var data []byte
	var retErr error
	defer func() {
		emitSerializeComplete(ctx, format, typeName(value), len(data), time.Since(start), retErr)
	}()

	codec, ok := s.codecs[format]
	if !ok {
		retErr = newCodecError(ErrUnknownFormat, format, nil)
		return nil, retErr
	}

	tree, err := s.Normalize(ctx, value, format, objx.Map{})
	if err != nil {
		retErr = err
		return nil, err
	}

	data, err = codec.Marshal(tree)
	if err != nil {
		retErr = newCodecError(ErrMarshal, format, err)
		return nil, retErr
	}
	return data, nil
}

func supports(n Normalizer, value any, format string, attrs objx.Map) bool {
	if ca, ok := n.(ContextAwareNormalizer); ok {
		return ca.SupportsNormalizationWith(value, format, attrs)
	}
	return n.SupportsNormalization(value, format)
}

func (s *Serializer) normalizeGeneric(ctx context.Context, value any, format string, attrs objx.Map) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case json.RawMessage:
		return s.Normalize(ctx, rawTree(gjson.ParseBytes(v)), format, attrs)
	case *orderedmap.OrderedMap[string, any]:
		if v == nil {
			return nil, nil
		}
		out := orderedmap.New[string, any]()
		for pair := v.Oldest(); pair != nil; pair = pair.Next() {
			nv, err := s.Normalize(ctx, pair.Value, format, attrs)
			if err != nil {
				return nil, err
			}
			out.Set(pair.Key, nv)
		}
		return out, nil
	case encoding.TextMarshaler:
		if isNilPointer(v) {
			return nil, nil
		}
		text, err := v.MarshalText()
		if err != nil {
			return nil, err
		}
		return string(text), nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return s.Normalize(ctx, rv.Elem().Interface(), format, attrs)

	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return value, nil

	case reflect.Map:
		if rv.IsNil() {
			return nil, nil
		}
		return s.normalizeMap(ctx, rv, format, attrs)

	case reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
		return s.normalizeList(ctx, rv, format, attrs)

	case reflect.Array:
		return s.normalizeList(ctx, rv, format, attrs)

	case reflect.Struct:
		return s.normalizeStruct(ctx, rv, format, attrs)
	}

	return nil, &UnsupportedTypeError{Type: rv.Type().String()}
}

// normalizeMap sorts keys by their string form so output is deterministic.
func (s *Serializer) normalizeMap(ctx context.Context, rv reflect.Value, format string, attrs objx.Map) (any, error) {
	type entry struct {
		key   string
		value reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries = append(entries, entry{key: fmt.Sprint(iter.Key().Interface()), value: iter.Value()})
	}
	slices.SortFunc(entries, func(a, b entry) int { return cmp.Compare(a.key, b.key) })

	out := orderedmap.New[string, any]()
	for _, e := range entries {
		nv, err := s.Normalize(ctx, e.value.Interface(), format, attrs)
		if err != nil {
			return nil, err
		}
		out.Set(e.key, nv)
	}
	return out, nil
}

func (s *Serializer) normalizeList(ctx context.Context, rv reflect.Value, format string, attrs objx.Map) (any, error) {
	out := make([]any, rv.Len())
	for i := range out {
		nv, err := s.Normalize(ctx, rv.Index(i).Interface(), format, attrs)
		if err != nil {
			return nil, err
		}
		out[i] = nv
	}
	return out, nil
}

// normalizeStruct follows encoding/json naming: json tag name when set,
// "-" skipped, omitempty honored.
func (s *Serializer) normalizeStruct(ctx context.Context, rv reflect.Value, format string, attrs objx.Map) (any, error) {
	out := orderedmap.New[string, any]()
	for _, sf := range reflect.VisibleFields(rv.Type()) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}

		name, opts, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" && opts == "" {
			continue
		}
		if name == "" {
			name = sf.Name
		}

		fv, err := rv.FieldByIndexErr(sf.Index)
		if err != nil {
			continue
		}
		if strings.Contains(opts, "omitempty") && fv.IsZero() {
			continue
		}

		nv, err := s.Normalize(ctx, fv.Interface(), format, attrs)
		if err != nil {
			return nil, err
		}
		out.Set(name, nv)
	}
	return out, nil
}

// rawTree converts parsed JSON keeping the document's key order.
func rawTree(res gjson.Result) any {
	switch {
	case res.IsObject():
		out := orderedmap.New[string, any]()
		res.ForEach(func(key, value gjson.Result) bool {
			out.Set(key.String(), rawTree(value))
			return true
		})
		return out
	case res.IsArray():
		items := res.Array()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = rawTree(item)
		}
		return out
	}
	return res.Value()
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

type depthKey struct{}

func depthFrom(ctx context.Context) int {
	d, _ := ctx.Value(depthKey{}).(int)
	return d
}

func withDepth(ctx context.Context, depth int) context.Context {
	return context.WithValue(ctx, depthKey{}, depth)
}
