package deltoid

import (
	"fmt"

	"github.com/signadot/deltoid/debug"
)

// Variant describes one alternative of a tagged union over T.  Variants
// are built with [Case].
type Variant[T any] interface {
	// Name is the variant tag recorded in deltas.
	Name() string
	// Holds reports whether v is of this variant.
	Holds(v T) bool

	diff(a, b T) any
	patch(a T, edit any) (T, error)
	payload(v T) any
	fromPayload(p any) (T, error)
	equal(a, b T) bool
	clone(v T) T
	cloneDelta(edit any) any
}

type caseOps[T, P, D any] struct {
	name string
	get  func(T) (P, bool)
	wrap func(P) T
	ops  Ops[P, D]
}

// Case declares a union variant named name whose payload P is extracted
// with get, rebuilt with wrap and diffed with ops.
func Case[T, P, D any](name string, get func(T) (P, bool), wrap func(P) T, ops Ops[P, D]) Variant[T] {
	return &caseOps[T, P, D]{name: name, get: get, wrap: wrap, ops: ops}
}

func (c *caseOps[T, P, D]) Name() string { return c.name }

func (c *caseOps[T, P, D]) Holds(v T) bool {
	_, ok := c.get(v)
	return ok
}

func (c *caseOps[T, P, D]) must(v T) P {
	p, ok := c.get(v)
	if !ok {
		panic(fmt.Sprintf("variant %s does not hold %T", c.name, v))
	}
	return p
}

func (c *caseOps[T, P, D]) diff(a, b T) any {
	return c.ops.Diff(c.must(a), c.must(b))
}

func (c *caseOps[T, P, D]) patch(a T, edit any) (T, error) {
	var zero T
	p, ok := c.get(a)
	if !ok {
		return zero, expectedValue("variant %s edit of a %T of another variant", c.name, a)
	}
	d, err := coerce[D](edit)
	if err != nil {
		return zero, fmt.Errorf("variant %s: %w", c.name, err)
	}
	res, err := c.ops.Patch(p, d)
	if err != nil {
		return zero, fmt.Errorf("variant %s: %w", c.name, err)
	}
	return c.wrap(res), nil
}

func (c *caseOps[T, P, D]) payload(v T) any {
	return c.ops.Clone(c.must(v))
}

func (c *caseOps[T, P, D]) fromPayload(p any) (T, error) {
	if p == nil {
		var zero P
		return c.wrap(zero), nil
	}
	x, err := coerce[P](p)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("variant %s payload: %w", c.name, err)
	}
	return c.wrap(c.ops.Clone(x)), nil
}

func (c *caseOps[T, P, D]) equal(a, b T) bool {
	return c.ops.Equal(c.must(a), c.must(b))
}

func (c *caseOps[T, P, D]) clone(v T) T {
	return c.wrap(c.ops.Clone(c.must(v)))
}

func (c *caseOps[T, P, D]) cloneDelta(edit any) any {
	d, err := coerce[D](edit)
	if err != nil {
		return edit
	}
	return c.ops.CloneDelta(d)
}

// UnionDelta is the delta of a tagged union value.
//
//   - zero value: unchanged
//   - Replace set: the value became variant Variant with payload Replace
//   - Edit set: the value stayed variant Variant, Edit is the payload delta
//   - Zero set: the value became the zero value, which holds no variant
type UnionDelta struct {
	Variant string `json:"variant,omitempty" yaml:"variant,omitempty"`
	Replace any    `json:"replace,omitempty" yaml:"replace,omitempty"`
	Edit    any    `json:"edit,omitempty" yaml:"edit,omitempty"`
	Zero    bool   `json:"zero,omitempty" yaml:"zero,omitempty"`
}

// IsNoop reports whether d records no change.
func (d UnionDelta) IsNoop() bool {
	return d.Variant == "" && d.Replace == nil && d.Edit == nil && !d.Zero
}

// UnionOps is the algebra of a tagged union over T.
type UnionOps[T any] struct {
	variants []Variant[T]
	byName   map[string]Variant[T]
}

// Union returns the algebra of the union of variants.  Variant names must
// be distinct.
func Union[T any](variants ...Variant[T]) *UnionOps[T] {
	u := &UnionOps[T]{
		variants: variants,
		byName:   make(map[string]Variant[T], len(variants)),
	}
	for _, v := range variants {
		if _, dup := u.byName[v.Name()]; dup {
			panic(fmt.Sprintf("duplicate union variant %q", v.Name()))
		}
		u.byName[v.Name()] = v
	}
	return u
}

// VariantOf returns the variant held by v, or nil if v holds none.
func (u *UnionOps[T]) VariantOf(v T) Variant[T] {
	for _, x := range u.variants {
		if x.Holds(v) {
			return x
		}
	}
	return nil
}

func (u *UnionOps[T]) Diff(a, b T) UnionDelta {
	va, vb := u.VariantOf(a), u.VariantOf(b)
	switch {
	case vb == nil && va == nil:
		return UnionDelta{}
	case vb == nil:
		return UnionDelta{Zero: true}
	case va == nil || va.Name() != vb.Name():
		if debug.Diff() {
			debug.Logf("union diff: variant change to %s\n", vb.Name())
		}
		return UnionDelta{Variant: vb.Name(), Replace: vb.payload(b)}
	case va.equal(a, b):
		return UnionDelta{}
	}
	return UnionDelta{Variant: vb.Name(), Edit: vb.diff(a, b)}
}

func (u *UnionOps[T]) Patch(a T, d UnionDelta) (T, error) {
	var zero T
	switch {
	case d.Zero:
		return zero, nil
	case d.Replace != nil:
		v, ok := u.byName[d.Variant]
		if !ok {
			return zero, fmt.Errorf("%w: unknown variant %q", ErrShapeMismatch, d.Variant)
		}
		return v.fromPayload(d.Replace)
	case d.Edit != nil:
		v, ok := u.byName[d.Variant]
		if !ok {
			return zero, fmt.Errorf("%w: unknown variant %q", ErrShapeMismatch, d.Variant)
		}
		return v.patch(a, d.Edit)
	case d.Variant != "":
		// a payload encoded as null decodes to nothing
		v, ok := u.byName[d.Variant]
		if !ok {
			return zero, fmt.Errorf("%w: unknown variant %q", ErrShapeMismatch, d.Variant)
		}
		return v.fromPayload(nil)
	}
	return u.Clone(a), nil
}

func (u *UnionOps[T]) Equal(a, b T) bool {
	va, vb := u.VariantOf(a), u.VariantOf(b)
	if va == nil || vb == nil {
		return va == nil && vb == nil
	}
	return va.Name() == vb.Name() && va.equal(a, b)
}

func (u *UnionOps[T]) Clone(v T) T {
	x := u.VariantOf(v)
	if x == nil {
		return v
	}
	return x.clone(v)
}

func (u *UnionOps[T]) CloneDelta(d UnionDelta) UnionDelta {
	res := UnionDelta{Variant: d.Variant, Zero: d.Zero}
	v, ok := u.byName[d.Variant]
	if !ok {
		res.Replace, res.Edit = d.Replace, d.Edit
		return res
	}
	if d.Replace != nil {
		if x, err := v.fromPayload(d.Replace); err == nil {
			res.Replace = v.payload(x)
		} else {
			res.Replace = d.Replace
		}
	}
	if d.Edit != nil {
		res.Edit = v.cloneDelta(d.Edit)
	}
	return res
}
