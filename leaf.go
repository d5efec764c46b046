package deltoid

import "fmt"

// LeafDelta is the delta of an atomic value: either no replacement or a
// replacement value.
type LeafDelta[T any] struct {
	Value *T `json:"value,omitempty" yaml:"value,omitempty"`
}

// Replace returns a leaf delta carrying v.
func Replace[T any](v T) LeafDelta[T] {
	return LeafDelta[T]{Value: &v}
}

func (d LeafDelta[T]) String() string {
	if d.Value == nil {
		return "<empty>"
	}
	return fmt.Sprintf("replace(%v)", *d.Value)
}

// LeafOps is the algebra of atomic values.  Diff always records the new
// value; compactness comes from containers eliding equal elements.
type LeafOps[T comparable] struct{}

// Leaf returns the algebra for the atomic type T.
func Leaf[T comparable]() LeafOps[T] {
	return LeafOps[T]{}
}

func (LeafOps[T]) Diff(_, b T) LeafDelta[T] {
	return Replace(b)
}

func (LeafOps[T]) Patch(_ T, d LeafDelta[T]) (T, error) {
	if d.Value == nil {
		var zero T
		return zero, expectedValue("leaf %T has no replacement", zero)
	}
	return *d.Value, nil
}

func (LeafOps[T]) Equal(a, b T) bool {
	return a == b
}

func (LeafOps[T]) Clone(v T) T {
	return v
}

func (LeafOps[T]) CloneDelta(d LeafDelta[T]) LeafDelta[T] {
	if d.Value == nil {
		return d
	}
	return Replace(*d.Value)
}

var (
	Bool    = Leaf[bool]()
	Int     = Leaf[int]()
	Int8    = Leaf[int8]()
	Int16   = Leaf[int16]()
	Int32   = Leaf[int32]()
	Int64   = Leaf[int64]()
	Uint    = Leaf[uint]()
	Uint8   = Leaf[uint8]()
	Uint16  = Leaf[uint16]()
	Uint32  = Leaf[uint32]()
	Uint64  = Leaf[uint64]()
	Float32 = Leaf[float32]()
	Float64 = Leaf[float64]()
	Rune    = Leaf[rune]()
	Unit    = Leaf[struct{}]()

	// String treats strings as leaves: they are never edited in place.
	String = Leaf[string]()
)
