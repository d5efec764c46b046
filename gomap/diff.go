package gomap

import (
	"reflect"
	"strconv"
)

func (n *node) diff(a, b reflect.Value) *Delta {
	if n.equal(a, b) {
		return nil
	}
	switch n.kind {
	case leafKind:
		return &Delta{Op: OpSet, Value: b.Interface()}
	case structKind:
		fields := map[string]*Delta{}
		for i := range n.fields {
			f := &n.fields[i]
			if f.Ignore {
				continue
			}
			if d := f.node.diff(a.Field(f.Index), b.Field(f.Index)); d != nil {
				fields[f.DeltaName] = d
			}
		}
		return &Delta{Op: OpEdit, Fields: fields}
	case ptrKind:
		switch {
		case a.IsNil():
			return &Delta{Op: OpSet, Value: n.elem.clone(b.Elem()).Interface()}
		case b.IsNil():
			return &Delta{Op: OpClear}
		}
		return &Delta{Op: OpEdit, Elem: n.elem.diff(a.Elem(), b.Elem())}
	case sliceKind:
		return n.diffSlice(a, b)
	case arrayKind:
		d := &Delta{Op: OpEdit}
		for i := range a.Len() {
			if ed := n.elem.diff(a.Index(i), b.Index(i)); ed != nil {
				d.Elems = append(d.Elems, Elem{Index: i, Delta: ed})
			}
		}
		return d
	case mapKind:
		return n.diffMap(a, b)
	}
	return nil
}

func (n *node) diffSlice(a, b reflect.Value) *Delta {
	d := &Delta{Op: OpEdit}
	la, lb := a.Len(), b.Len()
	m := min(la, lb)
	for i := range m {
		if ed := n.elem.diff(a.Index(i), b.Index(i)); ed != nil {
			d.Elems = append(d.Elems, Elem{Index: i, Delta: ed})
		}
	}
	switch {
	case lb < la:
		d.Truncate = &m
	case lb > la:
		d.Append = make([]any, 0, lb-m)
		for i := m; i < lb; i++ {
			d.Append = append(d.Append, n.elem.clone(b.Index(i)).Interface())
		}
	}
	return d
}

func (n *node) diffMap(a, b reflect.Value) *Delta {
	keys := map[string]*Delta{}
	iter := a.MapRange()
	for iter.Next() {
		k := keyString(iter.Key())
		bv := b.MapIndex(iter.Key())
		if !bv.IsValid() {
			keys[k] = &Delta{Op: OpRemove}
			continue
		}
		if ed := n.elem.diff(iter.Value(), bv); ed != nil {
			keys[k] = ed
		}
	}
	iter = b.MapRange()
	for iter.Next() {
		if a.MapIndex(iter.Key()).IsValid() {
			continue
		}
		keys[keyString(iter.Key())] = &Delta{Op: OpSet, Value: n.elem.clone(iter.Value()).Interface()}
	}
	return &Delta{Op: OpEdit, Keys: keys}
}

func keyString(k reflect.Value) string {
	switch k.Kind() {
	case reflect.String:
		return k.String()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(k.Uint(), 10)
	}
	return strconv.FormatInt(k.Int(), 10)
}
