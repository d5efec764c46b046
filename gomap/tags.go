package gomap

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/signadot/deltoid"
)

// TagKey is the struct tag key read by the derivation.
const TagKey = "delta"

// FieldInfo holds field metadata extracted from struct tags.
type FieldInfo struct {
	// Name is the struct field name.
	Name string

	// DeltaName is the name of the field in deltas.
	DeltaName string

	// Index is the field index in its struct.
	Index int

	// Ignore marks a field which carries no delta.
	Ignore bool
}

// ParseStructTag parses a struct tag value into key/value pairs.  Parts
// are separated by commas or spaces; a part without '=' is a flag and maps
// to "".  Values may be single or double quoted.
//
//	`delta:"field=kind"`
//	`delta:"ignore"`
//	`delta:"-"`
func ParseStructTag(tag string) (map[string]string, error) {
	result := make(map[string]string)
	if tag == "" {
		return result, nil
	}
	var (
		parts   []string
		current strings.Builder
		quote   byte
	)
	flush := func() {
		part := strings.TrimSpace(current.String())
		if part != "" {
			parts = append(parts, part)
		}
		current.Reset()
	}
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			current.WriteByte(c)
		case c == '\'' || c == '"':
			quote = c
			current.WriteByte(c)
		case c == ',' || c == ' ':
			flush()
		default:
			current.WriteByte(c)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("invalid tag %q: unterminated quote", tag)
	}
	flush()
	for _, part := range parts {
		key, value, ok := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid tag: empty key in %q", part)
		}
		if !ok {
			result[key] = ""
			continue
		}
		result[key] = unquoteValue(strings.TrimSpace(value))
	}
	return result, nil
}

func unquoteValue(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '\'' || first == '"') && first == last {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// StructFields returns the delta metadata of the exported fields of the
// struct type t.  Unexported fields are not listed; they are never diffed
// and are carried over from the patched value.
func StructFields(t reflect.Type) ([]FieldInfo, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", deltoid.ErrShapeMismatch, t)
	}
	var res []FieldInfo
	byName := map[string]string{}
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		info := FieldInfo{Name: f.Name, DeltaName: f.Name, Index: i}
		parsed, err := ParseStructTag(f.Tag.Get(TagKey))
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t, f.Name, err)
		}
		if _, ok := parsed["-"]; ok {
			info.Ignore = true
		}
		if _, ok := parsed["ignore"]; ok {
			info.Ignore = true
		}
		if renamed, ok := parsed["field"]; ok && renamed != "" {
			info.DeltaName = renamed
		}
		if prev, dup := byName[info.DeltaName]; dup {
			return nil, fmt.Errorf("%w: %s fields %s and %s are both named %q",
				deltoid.ErrShapeMismatch, t, prev, f.Name, info.DeltaName)
		}
		byName[info.DeltaName] = f.Name
		res = append(res, info)
	}
	return res, nil
}
