package deltoid

import "fmt"

// Pair is a fixed tuple of two values.
type Pair[A, B any] struct {
	First  A `json:"first" yaml:"first"`
	Second B `json:"second" yaml:"second"`
}

// PairDelta carries one child delta per position.
type PairDelta[DA, DB any] struct {
	First  DA `json:"first" yaml:"first"`
	Second DB `json:"second" yaml:"second"`
}

// PairOps is the algebra of pairs.  Every position is always diffed.
type PairOps[A, DA, B, DB any] struct {
	A Ops[A, DA]
	B Ops[B, DB]
}

// PairOf returns the algebra of pairs of a and b.
func PairOf[A, DA, B, DB any](a Ops[A, DA], b Ops[B, DB]) PairOps[A, DA, B, DB] {
	return PairOps[A, DA, B, DB]{A: a, B: b}
}

func (o PairOps[A, DA, B, DB]) Diff(x, y Pair[A, B]) PairDelta[DA, DB] {
	return PairDelta[DA, DB]{
		First:  o.A.Diff(x.First, y.First),
		Second: o.B.Diff(x.Second, y.Second),
	}
}

func (o PairOps[A, DA, B, DB]) Patch(x Pair[A, B], d PairDelta[DA, DB]) (Pair[A, B], error) {
	var (
		res Pair[A, B]
		err error
	)
	if res.First, err = o.A.Patch(x.First, d.First); err != nil {
		return Pair[A, B]{}, fmt.Errorf("position 0: %w", err)
	}
	if res.Second, err = o.B.Patch(x.Second, d.Second); err != nil {
		return Pair[A, B]{}, fmt.Errorf("position 1: %w", err)
	}
	return res, nil
}

func (o PairOps[A, DA, B, DB]) Equal(x, y Pair[A, B]) bool {
	return o.A.Equal(x.First, y.First) && o.B.Equal(x.Second, y.Second)
}

func (o PairOps[A, DA, B, DB]) Clone(x Pair[A, B]) Pair[A, B] {
	return Pair[A, B]{First: o.A.Clone(x.First), Second: o.B.Clone(x.Second)}
}

func (o PairOps[A, DA, B, DB]) CloneDelta(d PairDelta[DA, DB]) PairDelta[DA, DB] {
	return PairDelta[DA, DB]{First: o.A.CloneDelta(d.First), Second: o.B.CloneDelta(d.Second)}
}

// Triple is a fixed tuple of three values.
type Triple[A, B, C any] struct {
	First  A `json:"first" yaml:"first"`
	Second B `json:"second" yaml:"second"`
	Third  C `json:"third" yaml:"third"`
}

type TripleDelta[DA, DB, DC any] struct {
	First  DA `json:"first" yaml:"first"`
	Second DB `json:"second" yaml:"second"`
	Third  DC `json:"third" yaml:"third"`
}

type TripleOps[A, DA, B, DB, C, DC any] struct {
	A Ops[A, DA]
	B Ops[B, DB]
	C Ops[C, DC]
}

// TripleOf returns the algebra of triples of a, b and c.
func TripleOf[A, DA, B, DB, C, DC any](a Ops[A, DA], b Ops[B, DB], c Ops[C, DC]) TripleOps[A, DA, B, DB, C, DC] {
	return TripleOps[A, DA, B, DB, C, DC]{A: a, B: b, C: c}
}

func (o TripleOps[A, DA, B, DB, C, DC]) Diff(x, y Triple[A, B, C]) TripleDelta[DA, DB, DC] {
	return TripleDelta[DA, DB, DC]{
		First:  o.A.Diff(x.First, y.First),
		Second: o.B.Diff(x.Second, y.Second),
		Third:  o.C.Diff(x.Third, y.Third),
	}
}

func (o TripleOps[A, DA, B, DB, C, DC]) Patch(x Triple[A, B, C], d TripleDelta[DA, DB, DC]) (Triple[A, B, C], error) {
	var (
		res Triple[A, B, C]
		err error
	)
	if res.First, err = o.A.Patch(x.First, d.First); err != nil {
		return Triple[A, B, C]{}, fmt.Errorf("position 0: %w", err)
	}
	if res.Second, err = o.B.Patch(x.Second, d.Second); err != nil {
		return Triple[A, B, C]{}, fmt.Errorf("position 1: %w", err)
	}
	if res.Third, err = o.C.Patch(x.Third, d.Third); err != nil {
		return Triple[A, B, C]{}, fmt.Errorf("position 2: %w", err)
	}
	return res, nil
}

func (o TripleOps[A, DA, B, DB, C, DC]) Equal(x, y Triple[A, B, C]) bool {
	return o.A.Equal(x.First, y.First) &&
		o.B.Equal(x.Second, y.Second) &&
		o.C.Equal(x.Third, y.Third)
}

func (o TripleOps[A, DA, B, DB, C, DC]) Clone(x Triple[A, B, C]) Triple[A, B, C] {
	return Triple[A, B, C]{
		First:  o.A.Clone(x.First),
		Second: o.B.Clone(x.Second),
		Third:  o.C.Clone(x.Third),
	}
}

func (o TripleOps[A, DA, B, DB, C, DC]) CloneDelta(d TripleDelta[DA, DB, DC]) TripleDelta[DA, DB, DC] {
	return TripleDelta[DA, DB, DC]{
		First:  o.A.CloneDelta(d.First),
		Second: o.B.CloneDelta(d.Second),
		Third:  o.C.CloneDelta(d.Third),
	}
}

// ArrayDelta carries one child delta per position of a fixed length
// sequence.
type ArrayDelta[D any] []D

// ArrayOps is the algebra of fixed length sequences, represented as
// slices whose length never changes.
type ArrayOps[T, D any] struct {
	Len  int
	Elem Ops[T, D]
}

// Array returns the algebra of n-tuples of elem.
func Array[T, D any](n int, elem Ops[T, D]) ArrayOps[T, D] {
	return ArrayOps[T, D]{Len: n, Elem: elem}
}

func (o ArrayOps[T, D]) Diff(a, b []T) ArrayDelta[D] {
	res := make(ArrayDelta[D], o.Len)
	for i := range o.Len {
		res[i] = o.Elem.Diff(at(a, i), at(b, i))
	}
	return res
}

func (o ArrayOps[T, D]) Patch(a []T, d ArrayDelta[D]) ([]T, error) {
	if len(d) != o.Len {
		return nil, fmt.Errorf("%w: %d-tuple delta for %d-tuple", ErrShapeMismatch, len(d), o.Len)
	}
	res := make([]T, o.Len)
	for i := range o.Len {
		v, err := o.Elem.Patch(at(a, i), d[i])
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		res[i] = v
	}
	return res, nil
}

func (o ArrayOps[T, D]) Equal(a, b []T) bool {
	for i := range o.Len {
		if !o.Elem.Equal(at(a, i), at(b, i)) {
			return false
		}
	}
	return true
}

func (o ArrayOps[T, D]) Clone(v []T) []T {
	res := make([]T, o.Len)
	for i := range o.Len {
		res[i] = o.Elem.Clone(at(v, i))
	}
	return res
}

func (o ArrayOps[T, D]) CloneDelta(d ArrayDelta[D]) ArrayDelta[D] {
	if d == nil {
		return nil
	}
	res := make(ArrayDelta[D], len(d))
	for i := range d {
		res[i] = o.Elem.CloneDelta(d[i])
	}
	return res
}

// at reads v[i], yielding the zero value past the end of short input.
func at[T any](v []T, i int) T {
	if i < len(v) {
		return v[i]
	}
	var zero T
	return zero
}
