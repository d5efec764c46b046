package deltoid

import (
	"github.com/signadot/deltoid/debug"
)

// SeqEdit is the delta of one element present in both sequences.
type SeqEdit[D any] struct {
	Index int `json:"index" yaml:"index"`
	Delta D   `json:"delta" yaml:"delta"`
}

// SeqDelta is the delta of a sequence.  Edits only name indices whose
// elements differ; every other index of the common prefix is unchanged.
// At most one of Truncate and Append is set by Diff.
type SeqDelta[T, D any] struct {
	Edits    []SeqEdit[D] `json:"edits,omitempty" yaml:"edits,omitempty"`
	Truncate *int         `json:"truncate,omitempty" yaml:"truncate,omitempty"`
	Append   []T          `json:"append,omitempty" yaml:"append,omitempty"`
}

// IsNoop reports whether d records no change.
func (d SeqDelta[T, D]) IsNoop() bool {
	return len(d.Edits) == 0 && d.Truncate == nil && len(d.Append) == 0
}

// SeqOps is the algebra of slices.
type SeqOps[T, D any] struct {
	Elem Ops[T, D]
}

// Seq returns the algebra of slices of elem.
func Seq[T, D any](elem Ops[T, D]) SeqOps[T, D] {
	return SeqOps[T, D]{Elem: elem}
}

func (o SeqOps[T, D]) Diff(a, b []T) SeqDelta[T, D] {
	res := SeqDelta[T, D]{}
	n := min(len(a), len(b))
	for i := range n {
		if o.Elem.Equal(a[i], b[i]) {
			continue
		}
		res.Edits = append(res.Edits, SeqEdit[D]{Index: i, Delta: o.Elem.Diff(a[i], b[i])})
	}
	switch {
	case len(b) < len(a):
		res.Truncate = &n
	case len(b) > len(a):
		res.Append = make([]T, 0, len(b)-n)
		for _, v := range b[n:] {
			res.Append = append(res.Append, o.Elem.Clone(v))
		}
	}
	if debug.Diff() {
		debug.Logf("seq diff %d -> %d: %d edits\n", len(a), len(b), len(res.Edits))
	}
	return res
}

func (o SeqOps[T, D]) Patch(a []T, d SeqDelta[T, D]) ([]T, error) {
	if debug.Patch() {
		debug.Logf("seq patch len %d with %d edits\n", len(a), len(d.Edits))
	}
	res := o.Clone(a)
	for _, ed := range d.Edits {
		if ed.Index < 0 || ed.Index >= len(res) {
			return nil, expectedValue("seq edit at index %d of %d elements", ed.Index, len(res))
		}
		v, err := o.Elem.Patch(res[ed.Index], ed.Delta)
		if err != nil {
			return nil, err
		}
		res[ed.Index] = v
	}
	if d.Truncate != nil {
		n := *d.Truncate
		if n < 0 || n > len(res) {
			return nil, expectedValue("seq truncate to %d of %d elements", n, len(res))
		}
		res = res[:n]
	}
	for _, v := range d.Append {
		res = append(res, o.Elem.Clone(v))
	}
	return res, nil
}

func (o SeqOps[T, D]) Equal(a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !o.Elem.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func (o SeqOps[T, D]) Clone(v []T) []T {
	if v == nil {
		return nil
	}
	res := make([]T, len(v))
	for i := range v {
		res[i] = o.Elem.Clone(v[i])
	}
	return res
}

func (o SeqOps[T, D]) CloneDelta(d SeqDelta[T, D]) SeqDelta[T, D] {
	res := SeqDelta[T, D]{Append: o.Clone(d.Append)}
	if d.Truncate != nil {
		n := *d.Truncate
		res.Truncate = &n
	}
	if d.Edits != nil {
		res.Edits = make([]SeqEdit[D], len(d.Edits))
		for i, ed := range d.Edits {
			res.Edits[i] = SeqEdit[D]{Index: ed.Index, Delta: o.Elem.CloneDelta(ed.Delta)}
		}
	}
	return res
}
