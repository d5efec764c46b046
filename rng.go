package deltoid

import "fmt"

// Range is a start/end pair.
type Range[T any] struct {
	Start T `json:"start" yaml:"start"`
	End   T `json:"end" yaml:"end"`
}

type RangeDelta[D any] struct {
	Start D `json:"start" yaml:"start"`
	End   D `json:"end" yaml:"end"`
}

// RangeOps is the algebra of ranges: a two field tuple.
type RangeOps[T, D any] struct {
	Elem Ops[T, D]
}

// RangeOf returns the algebra of ranges over elem.
func RangeOf[T, D any](elem Ops[T, D]) RangeOps[T, D] {
	return RangeOps[T, D]{Elem: elem}
}

func (o RangeOps[T, D]) Diff(a, b Range[T]) RangeDelta[D] {
	return RangeDelta[D]{
		Start: o.Elem.Diff(a.Start, b.Start),
		End:   o.Elem.Diff(a.End, b.End),
	}
}

func (o RangeOps[T, D]) Patch(a Range[T], d RangeDelta[D]) (Range[T], error) {
	start, err := o.Elem.Patch(a.Start, d.Start)
	if err != nil {
		return Range[T]{}, fmt.Errorf("range start: %w", err)
	}
	end, err := o.Elem.Patch(a.End, d.End)
	if err != nil {
		return Range[T]{}, fmt.Errorf("range end: %w", err)
	}
	return Range[T]{Start: start, End: end}, nil
}

func (o RangeOps[T, D]) Equal(a, b Range[T]) bool {
	return o.Elem.Equal(a.Start, b.Start) && o.Elem.Equal(a.End, b.End)
}

func (o RangeOps[T, D]) Clone(v Range[T]) Range[T] {
	return Range[T]{Start: o.Elem.Clone(v.Start), End: o.Elem.Clone(v.End)}
}

func (o RangeOps[T, D]) CloneDelta(d RangeDelta[D]) RangeDelta[D] {
	return RangeDelta[D]{Start: o.Elem.CloneDelta(d.Start), End: o.Elem.CloneDelta(d.End)}
}
