package libdiff

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/signadot/deltoid"
	"github.com/signadot/deltoid/ir"
)

// Operation is one RFC 6902 JSON patch operation.
type Operation struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
}

// JSONPatch renders diff, taken against doc, as a JSON patch.  Applying
// the operations in order to the JSON form of doc yields the JSON form of
// the patched document.
func JSONPatch(doc *ir.Node, diff *Delta) ([]Operation, error) {
	var ops []Operation
	if err := jsonPatch(&ops, "", doc, diff); err != nil {
		return nil, err
	}
	return ops, nil
}

func pointerToken(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

func jsonPatch(ops *[]Operation, path string, a *ir.Node, d *Delta) error {
	if d == nil || d.IsNoop() {
		return nil
	}
	if d.Edit != nil && a != nil {
		switch d.Variant {
		case ArrayVariant:
			return arrayPatch(ops, path, a, d.Edit)
		case ObjectVariant:
			return objectPatch(ops, path, a, d.Edit)
		}
	}
	b, err := Patch(a, d)
	if err != nil {
		return fmt.Errorf("at %q: %w", path, err)
	}
	switch {
	case a == nil:
		return addOp(ops, "add", path, b)
	case b == nil && path != "":
		*ops = append(*ops, Operation{Op: "remove", Path: path})
		return nil
	}
	return addOp(ops, "replace", path, b)
}

func addOp(ops *[]Operation, op, path string, v *ir.Node) error {
	if v == nil {
		v = ir.Null()
	}
	d, err := v.MarshalJSON()
	if err != nil {
		return fmt.Errorf("at %q: %w", path, err)
	}
	*ops = append(*ops, Operation{Op: op, Path: path, Value: d})
	return nil
}

func arrayPatch(ops *[]Operation, path string, a *ir.Node, edit any) error {
	d, err := deltoid.Coerce[ArrayDelta](edit)
	if err != nil {
		return fmt.Errorf("at %q: %w", path, err)
	}
	for _, e := range d.Edits {
		if e.Index < 0 || e.Index >= len(a.Values) {
			return fmt.Errorf("at %q: %w: element %d of %d", path, deltoid.ErrExpectedValue, e.Index, len(a.Values))
		}
		if err := jsonPatch(ops, path+"/"+strconv.Itoa(e.Index), a.Values[e.Index], e.Delta); err != nil {
			return err
		}
	}
	if d.Truncate != nil {
		m := *d.Truncate
		if m < 0 || m > len(a.Values) {
			return fmt.Errorf("at %q: %w: truncate to %d of %d", path, deltoid.ErrExpectedValue, m, len(a.Values))
		}
		for i := len(a.Values) - 1; i >= m; i-- {
			*ops = append(*ops, Operation{Op: "remove", Path: path + "/" + strconv.Itoa(i)})
		}
	}
	for _, v := range d.Append {
		if err := addOp(ops, "add", path+"/-", v); err != nil {
			return err
		}
	}
	return nil
}

func objectPatch(ops *[]Operation, path string, a *ir.Node, edit any) error {
	d, err := deltoid.Coerce[ObjectDelta](edit)
	if err != nil {
		return fmt.Errorf("at %q: %w", path, err)
	}
	d = withNulls(d)
	fields := ir.ToMap(a)
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		c := d[k]
		p := path + "/" + pointerToken(k)
		switch {
		case c.Remove:
			*ops = append(*ops, Operation{Op: "remove", Path: p})
		case c.Insert != nil:
			op := "add"
			if _, ok := fields[k]; ok {
				op = "replace"
			}
			if err := addOp(ops, op, p, *c.Insert); err != nil {
				return err
			}
		case c.Edit != nil:
			v, ok := fields[k]
			if !ok {
				return fmt.Errorf("at %q: %w: edit of missing field", p, deltoid.ErrExpectedValue)
			}
			if err := jsonPatch(ops, p, v, *c.Edit); err != nil {
				return err
			}
		}
	}
	return nil
}
