package porter

// Override interfaces let types bypass reflection-based processing.
// When a value implements one of these interfaces, porter calls the
// interface method instead of walking the value with reflection.

// PathExtractor bypasses reflection when an extraction path is resolved
// against the implementing value.
type PathExtractor interface {
	// ExtractPath returns the value at path, which is the remainder of the
	// extraction path starting at the receiver. Returning an error fails
	// the extraction.
	ExtractPath(path string) (any, error)
}

// Identifiable marks values that collapse to their identifier when they
// appear inside a DTO-originated mapping. See EntityIDNormalizer.
type Identifiable interface {
	EntityID() any
}
