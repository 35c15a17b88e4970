package porter

import (
	"fmt"
	"os"
	"reflect"

	"github.com/zoobzio/sentinel"
	"gopkg.in/yaml.v3"
)

// Struct tags understood by TagSource.
const (
	TagKey     = "dto.key"     // rename directive: output key
	TagExtract = "dto.extract" // extraction directive: path read from the raw value
	TagHash    = "dto.hash"    // hash the resolved value
	TagMask    = "dto.mask"    // mask the resolved value
	TagRedact  = "dto.redact"  // replace the resolved value
)

func init() {
	sentinel.Tag(TagKey)
	sentinel.Tag(TagExtract)
	sentinel.Tag(TagHash)
	sentinel.Tag(TagMask)
	sentinel.Tag(TagRedact)
}

// FieldMetadata holds the directives attached to one DTO field.
// Empty strings mean the directive is absent.
type FieldMetadata struct {
	Key      string   // Output key; the Go field name when empty
	Extract  string   // Path extracted from the raw value
	Hash     HashAlgo // Hash applied to the resolved value
	Mask     MaskType // Mask applied to the resolved value
	Redact   string   // Replacement value when Redacted is set
	Redacted bool     // Redact may legitimately be empty
}

// MetadataSource looks up the directives for a field of a struct type.
// A field without directives returns the zero FieldMetadata and no error.
type MetadataSource interface {
	FieldMetadata(t reflect.Type, field string) (FieldMetadata, error)
}

// TagSource reads directives from struct tags.
type TagSource struct{}

// FieldMetadata implements MetadataSource.
func (TagSource) FieldMetadata(t reflect.Type, field string) (FieldMetadata, error) {
	tags := fieldTags(t, field)
	md := FieldMetadata{
		Key:     tags[TagKey],
		Extract: tags[TagExtract],
		Hash:    HashAlgo(tags[TagHash]),
		Mask:    MaskType(tags[TagMask]),
	}
	md.Redact, md.Redacted = tags[TagRedact]
	return md, nil
}

// fieldTags reads the directive tags of a field declared by t. Registered
// types locate the field through their sentinel metadata; the directive
// values always come from the struct tag so empty values such as
// dto.redact:"" survive.
func fieldTags(t reflect.Type, field string) map[string]string {
	if spec, ok := registered(t); ok {
		for _, f := range spec.Fields {
			if f.Name == field {
				return parseDirectiveTags(t.FieldByIndex(f.Index).Tag)
			}
		}
	}

	sf, ok := t.FieldByName(field)
	if !ok {
		return nil
	}
	return parseDirectiveTags(sf.Tag)
}

func parseDirectiveTags(tag reflect.StructTag) map[string]string {
	tags := make(map[string]string)
	for _, name := range []string{TagKey, TagExtract, TagHash, TagMask, TagRedact} {
		if val, ok := tag.Lookup(name); ok {
			tags[name] = val
		}
	}
	return tags
}

// FileSource reads directives from a YAML document:
//
//	types:
//	  example.com/shop.OrderView:
//	    fields:
//	      Owner: {extract: name}
//	      FullName: {key: name}
//
// Types are matched by import path and name, then by reflect.Type.String().
type FileSource struct {
	types map[string]map[string]FieldMetadata
}

type fileDocument struct {
	Types map[string]struct {
		Fields map[string]fileField `yaml:"fields"`
	} `yaml:"types"`
}

type fileField struct {
	Key     string  `yaml:"key"`
	Extract string  `yaml:"extract"`
	Hash    string  `yaml:"hash"`
	Mask    string  `yaml:"mask"`
	Redact  *string `yaml:"redact"`
}

// LoadFileSource reads and parses a YAML metadata file.
func LoadFileSource(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata file: %w", err)
	}
	return ParseFileSource(data)
}

// ParseFileSource parses a YAML metadata document.
func ParseFileSource(data []byte) (*FileSource, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}

	fs := &FileSource{types: make(map[string]map[string]FieldMetadata, len(doc.Types))}
	for typ, entry := range doc.Types {
		fields := make(map[string]FieldMetadata, len(entry.Fields))
		for name, f := range entry.Fields {
			md := FieldMetadata{
				Key:     f.Key,
				Extract: f.Extract,
				Hash:    HashAlgo(f.Hash),
				Mask:    MaskType(f.Mask),
			}
			if f.Redact != nil {
				md.Redact, md.Redacted = *f.Redact, true
			}
			fields[name] = md
		}
		fs.types[typ] = fields
	}
	return fs, nil
}

// FieldMetadata implements MetadataSource.
func (fs *FileSource) FieldMetadata(t reflect.Type, field string) (FieldMetadata, error) {
	fields, ok := fs.types[t.PkgPath()+"."+t.Name()]
	if !ok {
		fields = fs.types[t.String()]
	}
	return fields[field], nil
}

// ChainSource merges sources. For each directive the first source that
// sets it wins.
func ChainSource(sources ...MetadataSource) MetadataSource {
	return chainSource(sources)
}

type chainSource []MetadataSource

func (c chainSource) FieldMetadata(t reflect.Type, field string) (FieldMetadata, error) {
	var out FieldMetadata
	for _, src := range c {
		md, err := src.FieldMetadata(t, field)
		if err != nil {
			return FieldMetadata{}, err
		}
		if out.Key == "" {
			out.Key = md.Key
		}
		if out.Extract == "" {
			out.Extract = md.Extract
		}
		if out.Hash == "" {
			out.Hash = md.Hash
		}
		if out.Mask == "" {
			out.Mask = md.Mask
		}
		if !out.Redacted && md.Redacted {
			out.Redact, out.Redacted = md.Redact, true
		}
	}
	return out, nil
}
