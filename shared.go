package deltoid

// SharedDelta is the delta of a shared-ownership value.  A nil Edit means
// the contents are unchanged.
type SharedDelta[D any] struct {
	Edit *D `json:"edit,omitempty" yaml:"edit,omitempty"`
}

// SharedOps is the algebra of *T values that are shared rather than
// optional: a nil pointer reads as the zero T.  Contents are compared by
// value, so pointer identity and aliasing are not carried by a delta.
// Patch never returns its input: the result is a freshly allocated
// pointer, or nil for a nil input left unchanged.
type SharedOps[T, D any] struct {
	Elem Ops[T, D]
}

// Shared returns the algebra of shared pointers to elem.
func Shared[T, D any](elem Ops[T, D]) SharedOps[T, D] {
	return SharedOps[T, D]{Elem: elem}
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

func (o SharedOps[T, D]) Diff(a, b *T) SharedDelta[D] {
	av, bv := deref(a), deref(b)
	if o.Elem.Equal(av, bv) {
		return SharedDelta[D]{}
	}
	ed := o.Elem.Diff(av, bv)
	return SharedDelta[D]{Edit: &ed}
}

func (o SharedOps[T, D]) Patch(a *T, d SharedDelta[D]) (*T, error) {
	if d.Edit == nil {
		if a == nil {
			return nil, nil
		}
		return o.Clone(a), nil
	}
	v, err := o.Elem.Patch(deref(a), *d.Edit)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (o SharedOps[T, D]) Equal(a, b *T) bool {
	return o.Elem.Equal(deref(a), deref(b))
}

func (o SharedOps[T, D]) Clone(v *T) *T {
	c := o.Elem.Clone(deref(v))
	return &c
}

func (o SharedOps[T, D]) CloneDelta(d SharedDelta[D]) SharedDelta[D] {
	if d.Edit == nil {
		return d
	}
	ed := o.Elem.CloneDelta(*d.Edit)
	return SharedDelta[D]{Edit: &ed}
}
