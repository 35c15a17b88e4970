package porter

import (
	"context"

	"github.com/stretchr/objx"
)

// EntityIDNormalizer collapses Identifiable values to their identifier
// inside DTO-originated mappings, so a DTO field holding an entity emits
// the entity's ID instead of the whole entity. Outside such mappings it
// declines and the value is normalized normally.
type EntityIDNormalizer struct {
	serializer Normalizer
}

// NewEntityIDNormalizer creates an EntityIDNormalizer delegating the
// identifier's own normalization to serializer.
func NewEntityIDNormalizer(serializer Normalizer) *EntityIDNormalizer {
	return &EntityIDNormalizer{serializer: serializer}
}

// SupportsNormalization returns false: support depends on attributes.
func (n *EntityIDNormalizer) SupportsNormalization(any, string) bool {
	return false
}

// SupportsNormalizationWith implements ContextAwareNormalizer.
func (n *EntityIDNormalizer) SupportsNormalizationWith(value any, _ string, attrs objx.Map) bool {
	if !FromDTO(attrs) {
		return false
	}
	if _, ok := value.(Identifiable); !ok {
		return false
	}
	return !isNilPointer(value)
}

// Normalize implements Normalizer.
func (n *EntityIDNormalizer) Normalize(ctx context.Context, value any, format string, attrs objx.Map) (any, error) {
	id, ok := value.(Identifiable)
	if !ok || isNilPointer(value) {
		return nil, &UnsupportedTypeError{Type: typeName(value)}
	}
	return n.serializer.Normalize(ctx, id.EntityID(), format, attrs)
}
