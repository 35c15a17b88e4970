package porter

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrUnsupportedType indicates Normalize was called on a value that is not a DTO.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrExtraction indicates an extraction path could not be resolved.
	ErrExtraction = errors.New("extraction failed")

	// ErrInvalidTag indicates a struct tag or metadata entry has an invalid value.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrDuplicateKey indicates two fields resolve to the same output key
	// while strict keys are enabled.
	ErrDuplicateKey = errors.New("duplicate output key")

	// ErrMaxDepth indicates normalization exceeded the configured nesting depth.
	ErrMaxDepth = errors.New("max depth exceeded")

	// ErrUnknownFormat indicates no codec is registered for the requested format.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrMarshal indicates the codec failed to encode the normalized value.
	ErrMarshal = errors.New("marshal failed")

	// ErrTransform indicates a hash, mask or redact directive failed.
	ErrTransform = errors.New("transform failed")
)

// UnsupportedTypeError reports a value that cannot be normalized as a DTO.
type UnsupportedTypeError struct {
	Type string // Go type of the rejected value, "<nil>" for nil
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s: %s is not a data transfer object", ErrUnsupportedType.Error(), e.Type)
}

func (e *UnsupportedTypeError) Unwrap() error {
	return ErrUnsupportedType
}

// ExtractionError reports a field whose extraction directive did not resolve.
type ExtractionError struct {
	Type  string // DTO type name
	Field string // Go field name carrying the directive
	Path  string // Extraction path from the directive
	Cause error  // Error returned by the property accessor
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extract %q from %s.%s: %v", e.Path, e.Type, e.Field, e.Cause)
	}
	return fmt.Sprintf("extract %q from %s.%s", e.Path, e.Type, e.Field)
}

// Unwrap exposes both the sentinel and the accessor error.
func (e *ExtractionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrExtraction}
	}
	return []error{ErrExtraction, e.Cause}
}

// PathError is returned by PathAccessor when a path segment cannot be read.
type PathError struct {
	Path    string // Full path being resolved
	Segment string // Segment that failed
	Reason  string // Human readable reason
	Cause   error  // Error returned by a getter, if any
}

func (e *PathError) Error() string {
	msg := fmt.Sprintf("path %q: segment %q: %s", e.Path, e.Segment, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *PathError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrExtraction}
	}
	return []error{ErrExtraction, e.Cause}
}

// ConfigError represents an invalid field directive found while building a plan.
// It wraps a sentinel error with additional context about the field and value.
type ConfigError struct {
	Err   error  // Underlying sentinel error (ErrInvalidTag, ErrDuplicateKey)
	Type  string // DTO type name
	Field string // Field name that triggered the error
	Value string // Offending directive value or output key
}

func (e *ConfigError) Error() string {
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("%s %q (field %s.%s)", e.Err.Error(), e.Value, e.Type, e.Field)
	}
	if e.Value != "" {
		return fmt.Sprintf("%s %q", e.Err.Error(), e.Value)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s (field %s.%s)", e.Err.Error(), e.Type, e.Field)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TransformError represents an error during a field transform.
type TransformError struct {
	Field     string // Field name that failed
	Operation string // hash, mask or redact
	Cause     error  // Original error from the underlying operation
}

func (e *TransformError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s field %s: %v", e.Operation, e.Field, e.Cause)
	}
	return fmt.Sprintf("%s field %s", e.Operation, e.Field)
}

func (e *TransformError) Unwrap() error {
	return ErrTransform
}

// CodecError represents an encoding failure.
type CodecError struct {
	Err    error  // Underlying sentinel error (ErrMarshal, ErrUnknownFormat)
	Format string // Requested format
	Cause  error  // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.Err.Error(), e.Format, e.Cause)
	}
	return fmt.Sprintf("%s (%s)", e.Err.Error(), e.Format)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// newConfigError creates a ConfigError for plan building failures.
func newConfigError(sentinel error, typeName, field, value string) error {
	return &ConfigError{
		Err:   sentinel,
		Type:  typeName,
		Field: field,
		Value: value,
	}
}

// newTransformError creates a TransformError for field transform failures.
func newTransformError(operation, field string, cause error) error {
	return &TransformError{
		Field:     field,
		Operation: operation,
		Cause:     cause,
	}
}

// newCodecError creates a CodecError for encoding failures.
func newCodecError(sentinel error, format string, cause error) error {
	return &CodecError{
		Err:    sentinel,
		Format: format,
		Cause:  cause,
	}
}
