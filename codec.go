package porter

// Codec encodes a normalized value tree into bytes.
//
// Normalized trees contain nil, scalars, strings, []byte, []any and
// *orderedmap.OrderedMap[string, any]. Codecs must preserve mapping order.
type Codec interface {
	// Format returns the short format name used to select the codec (e.g., "json").
	Format() string

	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)
}
