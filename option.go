package deltoid

import "fmt"

// OptionOp is the kind of change recorded by an OptionDelta.
type OptionOp int

const (
	// OptionUnchanged: both absent, or both present and equal.
	OptionUnchanged OptionOp = iota
	// OptionInsert: the value became present.
	OptionInsert
	// OptionClear: the value became absent.
	OptionClear
	// OptionEdit: both present and different.
	OptionEdit
)

func (op OptionOp) String() string {
	switch op {
	case OptionUnchanged:
		return "unchanged"
	case OptionInsert:
		return "insert"
	case OptionClear:
		return "clear"
	case OptionEdit:
		return "edit"
	}
	return fmt.Sprintf("<option op %d>", int(op))
}

func (op OptionOp) MarshalText() ([]byte, error) {
	switch op {
	case OptionUnchanged, OptionInsert, OptionClear, OptionEdit:
		return []byte(op.String()), nil
	}
	return nil, fmt.Errorf("%w: option op %d", ErrShapeMismatch, int(op))
}

func (op *OptionOp) UnmarshalText(d []byte) error {
	v, ok := map[string]OptionOp{
		"unchanged": OptionUnchanged,
		"insert":    OptionInsert,
		"clear":     OptionClear,
		"edit":      OptionEdit,
	}[string(d)]
	if !ok {
		return fmt.Errorf("%w: unrecognized option op %q", ErrShapeMismatch, d)
	}
	*op = v
	return nil
}

// OptionDelta is the delta of a value which may be absent.
type OptionDelta[T, D any] struct {
	Op    OptionOp `json:"op" yaml:"op"`
	Value *T       `json:"value,omitempty" yaml:"value,omitempty"`
	Edit  *D       `json:"edit,omitempty" yaml:"edit,omitempty"`
}

// IsNoop reports whether d records no change.
func (d OptionDelta[T, D]) IsNoop() bool {
	return d.Op == OptionUnchanged
}

// OptionOps is the algebra of *T values where nil means absent.
type OptionOps[T, D any] struct {
	Elem Ops[T, D]
}

// Optional returns the algebra of optional values of elem.
func Optional[T, D any](elem Ops[T, D]) OptionOps[T, D] {
	return OptionOps[T, D]{Elem: elem}
}

func (o OptionOps[T, D]) Diff(a, b *T) OptionDelta[T, D] {
	switch {
	case a == nil && b == nil:
		return OptionDelta[T, D]{}
	case a == nil:
		v := o.Elem.Clone(*b)
		return OptionDelta[T, D]{Op: OptionInsert, Value: &v}
	case b == nil:
		return OptionDelta[T, D]{Op: OptionClear}
	case o.Elem.Equal(*a, *b):
		return OptionDelta[T, D]{}
	}
	ed := o.Elem.Diff(*a, *b)
	return OptionDelta[T, D]{Op: OptionEdit, Edit: &ed}
}

func (o OptionOps[T, D]) Patch(a *T, d OptionDelta[T, D]) (*T, error) {
	switch d.Op {
	case OptionUnchanged:
		return o.Clone(a), nil
	case OptionClear:
		return nil, nil
	case OptionInsert:
		if d.Value == nil {
			return nil, expectedValue("option insert without a value")
		}
		v := o.Elem.Clone(*d.Value)
		return &v, nil
	case OptionEdit:
		if d.Edit == nil {
			return nil, expectedValue("option edit without a delta")
		}
		if a == nil {
			return nil, expectedValue("option edit of an absent value")
		}
		v, err := o.Elem.Patch(*a, *d.Edit)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrShapeMismatch, d.Op)
}

func (o OptionOps[T, D]) Equal(a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return o.Elem.Equal(*a, *b)
}

func (o OptionOps[T, D]) Clone(v *T) *T {
	if v == nil {
		return nil
	}
	c := o.Elem.Clone(*v)
	return &c
}

func (o OptionOps[T, D]) CloneDelta(d OptionDelta[T, D]) OptionDelta[T, D] {
	res := OptionDelta[T, D]{Op: d.Op, Value: o.Clone(d.Value)}
	if d.Edit != nil {
		ed := o.Elem.CloneDelta(*d.Edit)
		res.Edit = &ed
	}
	return res
}
