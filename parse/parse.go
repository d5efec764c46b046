package parse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/signadot/deltoid/format"
	"github.com/signadot/deltoid/ir"
)

// Parse reads one document.  YAML is the default format; JSON input is
// valid YAML, but ParseJSON keeps the exact text of JSON numbers.  Empty
// input is the null document.
func Parse(data []byte, opts ...ParseOption) (*ir.Node, error) {
	o := &parseOpts{}
	for _, opt := range opts {
		opt(o)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ir.Null(), nil
	}
	if o.format.IsJSON() {
		n := &ir.Node{}
		if err := json.Unmarshal(data, n); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		return n, nil
	}
	var v any
	if err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return fromYAML(v)
}

// ParseFile reads the document in path, in the format given by its
// extension.
func ParseFile(path string) (*ir.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	n, err := Parse(data, ParseFormat(format.FromPath(path)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

func fromYAML(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case yaml.MapSlice:
		kvs := make([]ir.KeyVal, 0, len(x))
		for _, item := range x {
			k, err := keyString(item.Key)
			if err != nil {
				return nil, err
			}
			val, err := fromYAML(item.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			kvs = append(kvs, ir.KeyVal{Key: k, Val: val})
		}
		return ir.FromKeyVals(kvs), nil
	case []any:
		vs := make([]*ir.Node, len(x))
		for i, e := range x {
			n, err := fromYAML(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			vs[i] = n
		}
		return ir.FromSlice(vs), nil
	case time.Time:
		return ir.FromString(x.Format(time.RFC3339Nano)), nil
	}
	n, err := ir.FromAny(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return n, nil
}

func keyString(k any) (string, error) {
	switch x := k.(type) {
	case string:
		return x, nil
	case nil:
		return "null", nil
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(x), nil
	}
	return "", fmt.Errorf("%w: key %v", ErrKeyTag, k)
}
