package gomap

import (
	"fmt"
	"reflect"

	"github.com/signadot/deltoid"
	"github.com/signadot/deltoid/debug"
)

// Ops is the delta algebra of T derived from its Go type.  It implements
// deltoid.Ops[T, *Delta].
type Ops[T any] struct {
	root *node
}

var _ deltoid.Ops[int, *Delta] = (*Ops[int])(nil)

// For derives the algebra of T.  Supported shapes are booleans, strings,
// numbers, structs, pointers, slices, arrays and maps keyed by strings or
// integers, nested arbitrarily and possibly recursive.  Other shapes,
// including interfaces, yield deltoid.ErrUnsupportedType.
func For[T any]() (*Ops[T], error) {
	t := reflect.TypeFor[T]()
	n, err := nodeFor(t)
	if err != nil {
		return nil, fmt.Errorf("derive %s: %w", t, err)
	}
	return &Ops[T]{root: n}, nil
}

// MustFor is like For but panics on error.
func MustFor[T any]() *Ops[T] {
	o, err := For[T]()
	if err != nil {
		panic(err)
	}
	return o
}

func (o *Ops[T]) Diff(a, b T) *Delta {
	d := o.root.diff(reflect.ValueOf(&a).Elem(), reflect.ValueOf(&b).Elem())
	if debug.Diff() {
		debug.Logf("gomap diff %s\n  -> %v\n", o.root.t, d)
	}
	return d
}

func (o *Ops[T]) Patch(a T, d *Delta) (T, error) {
	v, err := o.root.patch(reflect.ValueOf(&a).Elem(), d)
	if err != nil {
		var zero T
		if debug.Patch() {
			debug.Logf("gomap patch %s %v failed: %v\n", o.root.t, d, err)
		}
		return zero, err
	}
	return v.Interface().(T), nil
}

func (o *Ops[T]) Equal(a, b T) bool {
	return o.root.equal(reflect.ValueOf(&a).Elem(), reflect.ValueOf(&b).Elem())
}

func (o *Ops[T]) Clone(v T) T {
	return o.root.clone(reflect.ValueOf(&v).Elem()).Interface().(T)
}

func (o *Ops[T]) CloneDelta(d *Delta) *Delta {
	return o.root.cloneDelta(d)
}

// Fields returns the delta metadata of T when T is a struct.
func (o *Ops[T]) Fields() []FieldInfo {
	res := make([]FieldInfo, 0, len(o.root.fields))
	for i := range o.root.fields {
		res = append(res, o.root.fields[i].FieldInfo)
	}
	return res
}
