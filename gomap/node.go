package gomap

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/signadot/deltoid"
)

type kind int

const (
	leafKind kind = iota
	structKind
	ptrKind
	sliceKind
	arrayKind
	mapKind
)

// node is the derived algebra of one Go type.
type node struct {
	t      reflect.Type
	kind   kind
	elem   *node
	fields []field
	byName map[string]*field
}

type field struct {
	FieldInfo
	node *node
}

var (
	cacheMu sync.Mutex
	cache   = map[reflect.Type]*node{}
)

// nodeFor derives the algebra of t.  Derived algebras are cached.
func nodeFor(t reflect.Type) (*node, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if n, ok := cache[t]; ok {
		return n, nil
	}
	building := map[reflect.Type]*node{}
	n, err := build(t, building)
	if err != nil {
		return nil, err
	}
	for bt, bn := range building {
		cache[bt] = bn
	}
	return n, nil
}

func build(t reflect.Type, building map[reflect.Type]*node) (*node, error) {
	if n, ok := cache[t]; ok {
		return n, nil
	}
	if n, ok := building[t]; ok {
		// recursive type, n is completed by the caller up the stack
		return n, nil
	}
	n := &node{t: t}
	building[t] = n
	var err error
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		n.kind = leafKind
	case reflect.Struct:
		n.kind = structKind
		err = n.buildStruct(building)
	case reflect.Pointer:
		n.kind = ptrKind
		n.elem, err = build(t.Elem(), building)
	case reflect.Slice:
		n.kind = sliceKind
		n.elem, err = build(t.Elem(), building)
	case reflect.Array:
		n.kind = arrayKind
		n.elem, err = build(t.Elem(), building)
	case reflect.Map:
		n.kind = mapKind
		if !keyKindOK(t.Key().Kind()) {
			err = fmt.Errorf("%w: map key %s of %s", deltoid.ErrUnsupportedType, t.Key(), t)
			break
		}
		n.elem, err = build(t.Elem(), building)
	default:
		err = fmt.Errorf("%w: %s (%s)", deltoid.ErrUnsupportedType, t, t.Kind())
	}
	if err != nil {
		delete(building, t)
		return nil, err
	}
	return n, nil
}

func (n *node) buildStruct(building map[reflect.Type]*node) error {
	infos, err := StructFields(n.t)
	if err != nil {
		return err
	}
	n.fields = make([]field, len(infos))
	n.byName = make(map[string]*field, len(infos))
	for i, info := range infos {
		n.fields[i].FieldInfo = info
		n.byName[info.DeltaName] = &n.fields[i]
		if info.Ignore {
			continue
		}
		ft := n.t.Field(info.Index).Type
		fn, err := build(ft, building)
		if err != nil {
			return fmt.Errorf("field %s: %w", info.Name, err)
		}
		n.fields[i].node = fn
	}
	return nil
}

func keyKindOK(k reflect.Kind) bool {
	switch k {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func (n *node) equal(a, b reflect.Value) bool {
	switch n.kind {
	case leafKind:
		switch n.t.Kind() {
		case reflect.Bool:
			return a.Bool() == b.Bool()
		case reflect.String:
			return a.String() == b.String()
		case reflect.Float32, reflect.Float64:
			return a.Float() == b.Float()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return a.Uint() == b.Uint()
		}
		return a.Int() == b.Int()
	case structKind:
		for i := range n.fields {
			f := &n.fields[i]
			if f.Ignore {
				continue
			}
			if !f.node.equal(a.Field(f.Index), b.Field(f.Index)) {
				return false
			}
		}
		return true
	case ptrKind:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		return n.elem.equal(a.Elem(), b.Elem())
	case sliceKind, arrayKind:
		if a.Len() != b.Len() {
			return false
		}
		for i := range a.Len() {
			if !n.elem.equal(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case mapKind:
		if a.Len() != b.Len() {
			return false
		}
		iter := a.MapRange()
		for iter.Next() {
			bv := b.MapIndex(iter.Key())
			if !bv.IsValid() || !n.elem.equal(iter.Value(), bv) {
				return false
			}
		}
		return true
	}
	return false
}

// clone returns an independent copy of v as a settable value.
func (n *node) clone(v reflect.Value) reflect.Value {
	res := reflect.New(n.t).Elem()
	switch n.kind {
	case leafKind:
		res.Set(v)
	case structKind:
		res.Set(v)
		for i := range n.fields {
			f := &n.fields[i]
			if f.Ignore {
				continue
			}
			res.Field(f.Index).Set(f.node.clone(v.Field(f.Index)))
		}
	case ptrKind:
		if v.IsNil() {
			break
		}
		p := reflect.New(n.t.Elem())
		p.Elem().Set(n.elem.clone(v.Elem()))
		res.Set(p)
	case sliceKind:
		if v.IsNil() {
			break
		}
		s := reflect.MakeSlice(n.t, v.Len(), v.Len())
		for i := range v.Len() {
			s.Index(i).Set(n.elem.clone(v.Index(i)))
		}
		res.Set(s)
	case arrayKind:
		for i := range v.Len() {
			res.Index(i).Set(n.elem.clone(v.Index(i)))
		}
	case mapKind:
		if v.IsNil() {
			break
		}
		m := reflect.MakeMapWithSize(n.t, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			m.SetMapIndex(iter.Key(), n.elem.clone(iter.Value()))
		}
		res.Set(m)
	}
	return res
}
