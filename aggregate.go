package deltoid

import (
	"fmt"
	"slices"
)

// FieldOps describes how one field of the aggregate T takes part in
// diffing.  Values are built with [Field] and [Ignore].
type FieldOps[T any] interface {
	Name() string
	// Ignored reports whether the field carries no delta.
	Ignored() bool

	diff(a, b *T) (any, bool)
	patch(dst *T, edit any) error
	reset(dst *T)
	equal(a, b *T) bool
	clone(dst, src *T)
	cloneDelta(edit any) any
}

type field[T, F, D any] struct {
	name string
	get  func(*T) *F
	ops  Ops[F, D]
}

// Field declares a field of T addressed by get whose values are diffed
// with ops.
func Field[T, F, D any](name string, get func(*T) *F, ops Ops[F, D]) FieldOps[T] {
	return &field[T, F, D]{name: name, get: get, ops: ops}
}

func (f *field[T, F, D]) Name() string  { return f.name }
func (f *field[T, F, D]) Ignored() bool { return false }

func (f *field[T, F, D]) diff(a, b *T) (any, bool) {
	x, y := f.get(a), f.get(b)
	if f.ops.Equal(*x, *y) {
		return nil, false
	}
	return f.ops.Diff(*x, *y), true
}

func (f *field[T, F, D]) patch(dst *T, edit any) error {
	d, err := coerce[D](edit)
	if err != nil {
		return err
	}
	p := f.get(dst)
	v, err := f.ops.Patch(*p, d)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (f *field[T, F, D]) reset(*T) {}

func (f *field[T, F, D]) equal(a, b *T) bool {
	return f.ops.Equal(*f.get(a), *f.get(b))
}

func (f *field[T, F, D]) clone(dst, src *T) {
	*f.get(dst) = f.ops.Clone(*f.get(src))
}

func (f *field[T, F, D]) cloneDelta(edit any) any {
	d, err := coerce[D](edit)
	if err != nil {
		return edit
	}
	return f.ops.CloneDelta(d)
}

type ignored[T, F any] struct {
	name string
	get  func(*T) *F
}

// Ignore declares a field of T which never carries a delta.  Patch always
// leaves it at the zero F, whatever either side held.
func Ignore[T, F any](name string, get func(*T) *F) FieldOps[T] {
	return &ignored[T, F]{name: name, get: get}
}

func (f *ignored[T, F]) Name() string             { return f.name }
func (f *ignored[T, F]) Ignored() bool            { return true }
func (f *ignored[T, F]) diff(_, _ *T) (any, bool) { return nil, false }
func (f *ignored[T, F]) patch(*T, any) error      { return nil }
func (f *ignored[T, F]) equal(_, _ *T) bool       { return true }
func (f *ignored[T, F]) clone(_, _ *T)            {}
func (f *ignored[T, F]) cloneDelta(e any) any     { return e }

func (f *ignored[T, F]) reset(dst *T) {
	var zero F
	*f.get(dst) = zero
}

// StructDelta maps field names to field deltas.  Unchanged and ignored
// fields are absent.
type StructDelta map[string]any

// StructOps is the algebra of an aggregate T assembled from its fields.
// Fields that are not declared are copied as is by Clone and Patch.
type StructOps[T any] struct {
	fields []FieldOps[T]
	byName map[string]FieldOps[T]
}

// Struct returns the algebra of T given its field declarations.
func Struct[T any](fields ...FieldOps[T]) *StructOps[T] {
	s := &StructOps[T]{
		fields: fields,
		byName: make(map[string]FieldOps[T], len(fields)),
	}
	for _, f := range fields {
		if _, dup := s.byName[f.Name()]; dup {
			panic(fmt.Sprintf("duplicate field %q", f.Name()))
		}
		s.byName[f.Name()] = f
	}
	return s
}

// Fields returns the declared field names in declaration order.
func (s *StructOps[T]) Fields() []string {
	res := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		res = append(res, f.Name())
	}
	return res
}

func (s *StructOps[T]) Diff(a, b T) StructDelta {
	res := StructDelta{}
	for _, f := range s.fields {
		if d, changed := f.diff(&a, &b); changed {
			res[f.Name()] = d
		}
	}
	return res
}

func (s *StructOps[T]) Patch(a T, d StructDelta) (T, error) {
	var zero T
	res := s.Clone(a)
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		f, ok := s.byName[name]
		if !ok {
			return zero, fmt.Errorf("%w: %T has no field %q", ErrShapeMismatch, a, name)
		}
		if f.Ignored() {
			continue
		}
		if err := f.patch(&res, d[name]); err != nil {
			return zero, fmt.Errorf("field %s: %w", name, err)
		}
	}
	for _, f := range s.fields {
		f.reset(&res)
	}
	return res, nil
}

func (s *StructOps[T]) Equal(a, b T) bool {
	for _, f := range s.fields {
		if !f.equal(&a, &b) {
			return false
		}
	}
	return true
}

func (s *StructOps[T]) Clone(v T) T {
	res := v
	for _, f := range s.fields {
		f.clone(&res, &v)
	}
	return res
}

func (s *StructOps[T]) CloneDelta(d StructDelta) StructDelta {
	if d == nil {
		return nil
	}
	res := make(StructDelta, len(d))
	for name, e := range d {
		if f, ok := s.byName[name]; ok {
			res[name] = f.cloneDelta(e)
			continue
		}
		res[name] = e
	}
	return res
}
