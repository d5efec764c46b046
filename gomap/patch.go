package gomap

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strconv"

	"github.com/signadot/deltoid"
)

func (n *node) patch(a reflect.Value, d *Delta) (reflect.Value, error) {
	if d == nil {
		return n.clone(a), nil
	}
	switch d.Op {
	case OpSet:
		return n.value(d.Value)
	case OpClear:
		if n.kind != ptrKind {
			return reflect.Value{}, fmt.Errorf("%w: clear of %s", deltoid.ErrShapeMismatch, n.t)
		}
		return reflect.New(n.t).Elem(), nil
	case OpRemove:
		return reflect.Value{}, fmt.Errorf("%w: remove outside of map keys", deltoid.ErrShapeMismatch)
	case OpEdit:
		return n.patchEdit(a, d)
	}
	return reflect.Value{}, fmt.Errorf("%w: unknown op %q", deltoid.ErrShapeMismatch, d.Op)
}

func (n *node) want(d *Delta, m mode) error {
	for _, x := range d.modes() {
		if x != m {
			return fmt.Errorf("%w: %s addressed by %s", deltoid.ErrShapeMismatch, n.t, x)
		}
	}
	return nil
}

func (n *node) patchEdit(a reflect.Value, d *Delta) (reflect.Value, error) {
	var none reflect.Value
	switch n.kind {
	case leafKind:
		return none, fmt.Errorf("%w: edit of leaf %s", deltoid.ErrShapeMismatch, n.t)
	case structKind:
		if err := n.want(d, fieldsMode); err != nil {
			return none, err
		}
		return n.patchStruct(a, d)
	case ptrKind:
		if err := n.want(d, elemMode); err != nil {
			return none, err
		}
		if d.Elem == nil {
			return none, fmt.Errorf("%w: pointer edit without a delta", deltoid.ErrExpectedValue)
		}
		if a.IsNil() {
			return none, fmt.Errorf("%w: edit of nil %s", deltoid.ErrExpectedValue, n.t)
		}
		v, err := n.elem.patch(a.Elem(), d.Elem)
		if err != nil {
			return none, err
		}
		p := reflect.New(n.t.Elem())
		p.Elem().Set(v)
		return p, nil
	case sliceKind, arrayKind:
		if err := n.want(d, elemsMode); err != nil {
			return none, err
		}
		return n.patchElems(a, d)
	case mapKind:
		if err := n.want(d, keysMode); err != nil {
			return none, err
		}
		return n.patchMap(a, d)
	}
	return none, fmt.Errorf("%w: %s", deltoid.ErrUnsupportedType, n.t)
}

func (n *node) patchStruct(a reflect.Value, d *Delta) (reflect.Value, error) {
	res := n.clone(a)
	names := make([]string, 0, len(d.Fields))
	for name := range d.Fields {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		f, ok := n.byName[name]
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: %s has no field %q", deltoid.ErrShapeMismatch, n.t, name)
		}
		if f.Ignore {
			continue
		}
		fv := res.Field(f.Index)
		v, err := f.node.patch(fv, d.Fields[name])
		if err != nil {
			return reflect.Value{}, fmt.Errorf("field %s: %w", name, err)
		}
		fv.Set(v)
	}
	for i := range n.fields {
		if f := &n.fields[i]; f.Ignore {
			fv := res.Field(f.Index)
			fv.Set(reflect.Zero(fv.Type()))
		}
	}
	return res, nil
}

func (n *node) patchElems(a reflect.Value, d *Delta) (reflect.Value, error) {
	var none reflect.Value
	if n.kind == arrayKind && (d.Truncate != nil || d.Append != nil) {
		return none, fmt.Errorf("%w: length change of array %s", deltoid.ErrShapeMismatch, n.t)
	}
	res := n.clone(a)
	for _, e := range d.Elems {
		if e.Index < 0 || e.Index >= res.Len() {
			return none, fmt.Errorf("%w: element %d of %d", deltoid.ErrExpectedValue, e.Index, res.Len())
		}
		ev := res.Index(e.Index)
		v, err := n.elem.patch(ev, e.Delta)
		if err != nil {
			return none, fmt.Errorf("element %d: %w", e.Index, err)
		}
		ev.Set(v)
	}
	if d.Truncate != nil {
		m := *d.Truncate
		if m < 0 || m > res.Len() {
			return none, fmt.Errorf("%w: truncate to %d of %d", deltoid.ErrExpectedValue, m, res.Len())
		}
		res = res.Slice(0, m)
	}
	for i, x := range d.Append {
		v, err := n.elem.value(x)
		if err != nil {
			return none, fmt.Errorf("append %d: %w", i, err)
		}
		res = reflect.Append(res, v)
	}
	return res, nil
}

func (n *node) patchMap(a reflect.Value, d *Delta) (reflect.Value, error) {
	var none reflect.Value
	res := n.clone(a)
	if res.IsNil() && len(d.Keys) != 0 {
		res.Set(reflect.MakeMapWithSize(n.t, len(d.Keys)))
	}
	keys := make([]string, 0, len(d.Keys))
	for k := range d.Keys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, ks := range keys {
		kd := d.Keys[ks]
		k, err := parseKey(n.t.Key(), ks)
		if err != nil {
			return none, err
		}
		if kd == nil {
			continue
		}
		switch kd.Op {
		case OpRemove:
			res.SetMapIndex(k, reflect.Value{})
			continue
		case OpEdit, OpClear:
			if !res.MapIndex(k).IsValid() {
				return none, fmt.Errorf("%w: edit of missing key %q", deltoid.ErrExpectedValue, ks)
			}
		}
		cur := res.MapIndex(k)
		if !cur.IsValid() {
			cur = reflect.Zero(n.t.Elem())
		}
		v, err := n.elem.patch(cur, kd)
		if err != nil {
			return none, fmt.Errorf("key %s: %w", ks, err)
		}
		res.SetMapIndex(k, v)
	}
	return res, nil
}

func parseKey(t reflect.Type, s string) (reflect.Value, error) {
	k := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		k.SetString(s)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return k, fmt.Errorf("%w: key %q of %s: %w", deltoid.ErrShapeMismatch, s, t, err)
		}
		k.SetUint(u)
	default:
		i, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return k, fmt.Errorf("%w: key %q of %s: %w", deltoid.ErrShapeMismatch, s, t, err)
		}
		k.SetInt(i)
	}
	return k, nil
}

// value turns a replacement carried by a delta into a value of n's type.
// Values built by Diff have that type already.  Values read back by a
// codec are generic trees and are converted through their JSON form.
func (n *node) value(x any) (reflect.Value, error) {
	if x == nil {
		return reflect.New(n.t).Elem(), nil
	}
	v := reflect.ValueOf(x)
	switch {
	case v.Type() == n.t:
		return n.clone(v), nil
	case n.kind == ptrKind && v.Type() == n.t.Elem():
		p := reflect.New(n.t.Elem())
		p.Elem().Set(n.elem.clone(v))
		return p, nil
	}
	data, err := json.Marshal(x)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %T: %w", deltoid.ErrShapeMismatch, x, err)
	}
	p := reflect.New(n.t)
	if err := json.Unmarshal(data, p.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %T as %s: %w", deltoid.ErrShapeMismatch, x, n.t, err)
	}
	return p.Elem(), nil
}

func (n *node) cloneDelta(d *Delta) *Delta {
	if d == nil {
		return nil
	}
	res := &Delta{Op: d.Op, Value: n.cloneValue(d.Value)}
	switch n.kind {
	case ptrKind:
		res.Elem = n.elem.cloneDelta(d.Elem)
	case structKind:
		if d.Fields != nil {
			res.Fields = make(map[string]*Delta, len(d.Fields))
			for name, fd := range d.Fields {
				if f, ok := n.byName[name]; ok && !f.Ignore {
					res.Fields[name] = f.node.cloneDelta(fd)
				}
			}
		}
	case sliceKind, arrayKind:
		if d.Elems != nil {
			res.Elems = make([]Elem, len(d.Elems))
			for i, e := range d.Elems {
				res.Elems[i] = Elem{Index: e.Index, Delta: n.elem.cloneDelta(e.Delta)}
			}
		}
		if d.Truncate != nil {
			m := *d.Truncate
			res.Truncate = &m
		}
		if d.Append != nil {
			res.Append = make([]any, len(d.Append))
			for i, x := range d.Append {
				res.Append[i] = n.elem.cloneValue(x)
			}
		}
	case mapKind:
		if d.Keys != nil {
			res.Keys = make(map[string]*Delta, len(d.Keys))
			for k, kd := range d.Keys {
				res.Keys[k] = n.elem.cloneDelta(kd)
			}
		}
	}
	return res
}

func (n *node) cloneValue(x any) any {
	if x == nil {
		return nil
	}
	v := reflect.ValueOf(x)
	switch {
	case v.Type() == n.t:
		return n.clone(v).Interface()
	case n.kind == ptrKind && v.Type() == n.t.Elem():
		return n.elem.clone(v).Interface()
	}
	return cloneTree(x)
}

// cloneTree copies a generic decoded tree.
func cloneTree(x any) any {
	switch v := x.(type) {
	case map[string]any:
		res := make(map[string]any, len(v))
		for k, e := range v {
			res[k] = cloneTree(e)
		}
		return res
	case []any:
		res := make([]any, len(v))
		for i, e := range v {
			res[i] = cloneTree(e)
		}
		return res
	}
	return x
}
