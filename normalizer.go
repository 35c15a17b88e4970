package porter

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/stretchr/objx"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// AttrDTOOrigin is set on the attributes handed back to the serializer
// when a DTO's mapping is re-normalized. Downstream normalizers read it
// with FromDTO.
const AttrDTOOrigin = "dtoOrigin"

// FromDTO reports whether attrs mark a DTO-originated mapping.
func FromDTO(attrs objx.Map) bool {
	return attrs != nil && attrs.Get(AttrDTOOrigin).Bool()
}

// Normalizer converts values into encodable trees. A serializer is itself
// a Normalizer that dispatches to a chain of them.
type Normalizer interface {
	// SupportsNormalization reports whether Normalize accepts value.
	SupportsNormalization(value any, format string) bool

	// Normalize converts value for the given format. attrs carries
	// free-form options down the normalization tree and is never mutated.
	Normalize(ctx context.Context, value any, format string, attrs objx.Map) (any, error)
}

// ContextAwareNormalizer lets a normalizer inspect attributes when the
// serializer selects it.
type ContextAwareNormalizer interface {
	Normalizer
	SupportsNormalizationWith(value any, format string, attrs objx.Map) bool
}

// DTONormalizer turns data transfer objects into ordered mappings of
// output key to value, then hands the mapping back to the serializer.
//
// For every exported field, in declaration order, the output key is the
// field's rename directive or its Go name. The value is the field's raw
// value, or the value found at the field's extraction path inside it.
// A path that does not resolve fails the whole call with an
// *ExtractionError. Two fields resolving to the same key keep the later
// value unless WithStrictKeys is set.
//
// DTONormalizer holds no per-call state and is safe for concurrent use
// as long as its collaborators are.
type DTONormalizer struct {
	serializer Normalizer
	source     MetadataSource
	accessor   PropertyAccessor
	hashers    map[HashAlgo]Hasher
	maskers    map[MaskType]Masker
	strictKeys bool

	mu    sync.RWMutex
	plans map[reflect.Type]*typePlan
}

// Option configures a DTONormalizer.
type Option func(*DTONormalizer)

// WithMetadataSource replaces the default TagSource.
func WithMetadataSource(src MetadataSource) Option {
	return func(n *DTONormalizer) { n.source = src }
}

// WithAccessor replaces the default PathAccessor.
func WithAccessor(a PropertyAccessor) Option {
	return func(n *DTONormalizer) { n.accessor = a }
}

// WithStrictKeys fails normalization with ErrDuplicateKey when two fields
// resolve to the same output key.
func WithStrictKeys() Option {
	return func(n *DTONormalizer) { n.strictKeys = true }
}

// WithHasher registers or replaces the hasher used for dto.hash:"<algo>".
func WithHasher(algo HashAlgo, h Hasher) Option {
	return func(n *DTONormalizer) { n.hashers[algo] = h }
}

// WithMasker registers or replaces the masker used for dto.mask:"<type>".
func WithMasker(mt MaskType, m Masker) Option {
	return func(n *DTONormalizer) { n.maskers[mt] = m }
}

// NewDTONormalizer creates a DTONormalizer delegating to serializer.
func NewDTONormalizer(serializer Normalizer, opts ...Option) *DTONormalizer {
	n := &DTONormalizer{
		serializer: serializer,
		source:     TagSource{},
		accessor:   PathAccessor{},
		hashers:    builtinHashers(),
		maskers:    builtinMaskers(),
		plans:      make(map[reflect.Type]*typePlan),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SupportsNormalization reports whether value is a non-nil struct (or
// pointer to one) whose type embeds DTO, implements DataTransferObject,
// or was registered.
func (n *DTONormalizer) SupportsNormalization(value any, _ string) bool {
	rv, ok := structValue(value)
	if !ok {
		return false
	}
	if isMarked(rv.Type()) {
		return true
	}
	_, ok = registered(rv.Type())
	return ok
}

// Normalize resolves value's fields and returns the serializer's
// normalization of the resulting mapping. Errors from the accessor and
// the serializer abort the call; no partial result is returned.
func (n *DTONormalizer) Normalize(ctx context.Context, value any, format string, attrs objx.Map) (any, error) {
	rv, ok := structValue(value)
	if !ok {
		return nil, &UnsupportedTypeError{Type: typeName(value)}
	}

	start := time.Now()
	name := rv.Type().String()
	emitNormalizeStart(ctx, format, name)

	var fields int
	var retErr error
	defer func() {
		emitNormalizeComplete(ctx, format, name, time.Since(start), fields, retErr)
	}()

	plan, err := n.plan(ctx, rv.Type())
	if err != nil {
		retErr = err
		return nil, err
	}
	fields = len(plan.fields)

	body, err := n.resolve(plan, rv)
	if err != nil {
		retErr = err
		return nil, err
	}

	out, err := n.serializer.Normalize(ctx, body, format, withDTOOrigin(attrs))
	if err != nil {
		retErr = err
		return nil, err
	}
	return out, nil
}

// Map returns the ordered mapping for value without handing it to the
// serializer.
func (n *DTONormalizer) Map(ctx context.Context, value any) (*orderedmap.OrderedMap[string, any], error) {
	rv, ok := structValue(value)
	if !ok {
		return nil, &UnsupportedTypeError{Type: typeName(value)}
	}
	plan, err := n.plan(ctx, rv.Type())
	if err != nil {
		return nil, err
	}
	return n.resolve(plan, rv)
}

func (n *DTONormalizer) resolve(plan *typePlan, rv reflect.Value) (*orderedmap.OrderedMap[string, any], error) {
	body := orderedmap.New[string, any]()

	for _, f := range plan.fields {
		fv, err := rv.FieldByIndexErr(f.index)
		if err != nil {
			// promoted through a nil embedded pointer
			continue
		}

		value := fv.Interface()
		if f.extract != "" {
			extracted, err := n.accessor.Get(value, f.extract)
			if err != nil {
				return nil, &ExtractionError{Type: plan.typeName, Field: f.name, Path: f.extract, Cause: err}
			}
			value = extracted
		}

		value, err = n.transform(f, value)
		if err != nil {
			return nil, err
		}

		body.Set(f.key, value)
	}

	return body, nil
}

// transform applies hash, mask and redact directives, in that order.
func (n *DTONormalizer) transform(f fieldPlan, value any) (any, error) {
	if f.hash != "" {
		s, ok := stringOf(value)
		if !ok {
			return nil, newTransformError("hash", f.name, fmt.Errorf("unsupported value type %T", value))
		}
		hashed, err := n.hashers[f.hash].Hash([]byte(s))
		if err != nil {
			return nil, newTransformError("hash", f.name, err)
		}
		value = hashed
	}

	if f.mask != "" {
		s, ok := stringOf(value)
		if !ok {
			return nil, newTransformError("mask", f.name, fmt.Errorf("unsupported value type %T", value))
		}
		value = n.maskers[f.mask].Mask(s)
	}

	if f.redacted {
		value = f.redact
	}

	return value, nil
}

// stringOf accepts string kinds and byte slices.
func stringOf(value any) (string, bool) {
	if value == nil {
		return "", false
	}
	if b, ok := value.([]byte); ok {
		return string(b), true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

// withDTOOrigin copies attrs and sets AttrDTOOrigin on the copy.
func withDTOOrigin(attrs objx.Map) objx.Map {
	sub := make(objx.Map, len(attrs)+1)
	for k, v := range attrs {
		sub[k] = v
	}
	sub[AttrDTOOrigin] = true
	return sub
}
