package porter

import (
	"context"
	"reflect"

	"github.com/zoobzio/sentinel"
)

// typePlan is the resolved field list for one DTO type.
type typePlan struct {
	typeName string
	fields   []fieldPlan
}

// fieldPlan describes how one field contributes to the output mapping.
type fieldPlan struct {
	index    []int  // reflect.Value.FieldByIndex access path
	name     string // Go field name, for errors and signals
	key      string // output key
	extract  string // extraction path, empty when absent
	hash     HashAlgo
	mask     MaskType
	redact   string
	redacted bool
}

// plan returns the cached plan for t, building it on first use.
func (n *DTONormalizer) plan(ctx context.Context, t reflect.Type) (*typePlan, error) {
	n.mu.RLock()
	if p, ok := n.plans[t]; ok {
		n.mu.RUnlock()
		return p, nil
	}
	n.mu.RUnlock()

	n.mu.Lock()
	defer n.mu.Unlock()

	if p, ok := n.plans[t]; ok {
		return p, nil
	}

	p := &typePlan{typeName: t.String()}
	err := n.buildFields(ctx, p, t)
	emitPlanBuilt(ctx, p.typeName, len(p.fields), err)
	if err != nil {
		return nil, err
	}

	n.plans[t] = p
	return p, nil
}

// buildFields appends t's exported fields in declaration order. Fields of
// embedded structs are promoted in place following Go's visibility rules:
// a shallower field shadows deeper ones and same-depth conflicts drop out.
func (n *DTONormalizer) buildFields(ctx context.Context, p *typePlan, t reflect.Type) error {
	seen := make(map[string]string)

	for _, field := range describe(t).Fields {
		owner := declaringType(t, field.Index)
		md, err := n.source.FieldMetadata(owner, field.Name)
		if err != nil {
			return err
		}

		fp := fieldPlan{
			index:    field.Index,
			name:     field.Name,
			key:      field.Name,
			extract:  md.Extract,
			hash:     md.Hash,
			mask:     md.Mask,
			redact:   md.Redact,
			redacted: md.Redacted,
		}
		if md.Key != "" {
			fp.key = md.Key
		}

		if err := n.validateField(p.typeName, fp); err != nil {
			return err
		}

		if prev, dup := seen[fp.key]; dup {
			if n.strictKeys {
				return newConfigError(ErrDuplicateKey, p.typeName, fp.name, fp.key+" (also "+prev+")")
			}
			emitKeyCollision(ctx, p.typeName, fp.key, fp.name)
		}
		seen[fp.key] = fp.name

		p.fields = append(p.fields, fp)
	}

	return nil
}

// declaringType returns the struct type that declares the field at index.
func declaringType(t reflect.Type, index []int) reflect.Type {
	for _, i := range index[:len(index)-1] {
		t = t.Field(i).Type
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
	}
	return t
}

func (n *DTONormalizer) validateField(typeName string, fp fieldPlan) error {
	if fp.hash != "" {
		if _, ok := n.hashers[fp.hash]; !ok {
			return newConfigError(ErrInvalidTag, typeName, fp.name, string(fp.hash))
		}
	}
	if fp.mask != "" {
		if _, ok := n.maskers[fp.mask]; !ok {
			return newConfigError(ErrInvalidTag, typeName, fp.name, string(fp.mask))
		}
	}
	if fp.extract != "" {
		if _, ok := n.accessor.(PathAccessor); ok {
			if _, err := parsePath(fp.extract); err != nil {
				return newConfigError(ErrInvalidTag, typeName, fp.name, fp.extract)
			}
		}
	}
	return nil
}

// describe lists the fields a DTO of type t emits, in declaration order.
// Index is the full access path from t. Embedded structs contribute their
// promoted fields instead of themselves; the DTO marker contributes nothing.
func describe(t reflect.Type) sentinel.Metadata {
	spec := sentinel.Metadata{
		TypeName:    t.Name(),
		PackageName: t.PkgPath(),
	}

	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() {
			continue
		}
		if sf.Anonymous {
			embedded := sf.Type
			if embedded.Kind() == reflect.Pointer {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				continue
			}
		}
		if len(sf.Index) > 1 && promotedFromMarker(t, sf.Index) {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Pointer:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		spec.Fields = append(spec.Fields, fm)
	}

	return spec
}

// promotedFromMarker reports whether the field at index is reached
// through an embedded DTO marker.
func promotedFromMarker(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		ft := t.Field(i).Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft == dtoMarker {
			return true
		}
		t = ft
	}
	return false
}
