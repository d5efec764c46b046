package deltoid

import "sync"

// Cell is a shared mutable value guarded by a mutex.
type Cell[T any] struct {
	mu sync.RWMutex
	v  T
}

// NewCell returns a cell holding v.
func NewCell[T any](v T) *Cell[T] {
	return &Cell[T]{v: v}
}

// Load returns the value held by c.  A nil cell holds the zero T.
func (c *Cell[T]) Load() T {
	if c == nil {
		var zero T
		return zero
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v
}

// Store replaces the value held by c.
func (c *Cell[T]) Store(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v = v
}

// CellOps is the algebra of cells.  Its delta is the delta of the held
// value.  Callers must keep other writers away from both cells for the
// duration of a Diff or Patch; the cell lock only guards each read.
type CellOps[T, D any] struct {
	Elem Ops[T, D]
}

// CellOf returns the algebra of cells holding elem values.
func CellOf[T, D any](elem Ops[T, D]) CellOps[T, D] {
	return CellOps[T, D]{Elem: elem}
}

func (o CellOps[T, D]) Diff(a, b *Cell[T]) D {
	return o.Elem.Diff(a.Load(), b.Load())
}

// Patch returns a new cell holding the patched value; a is not written.
func (o CellOps[T, D]) Patch(a *Cell[T], d D) (*Cell[T], error) {
	v, err := o.Elem.Patch(a.Load(), d)
	if err != nil {
		return nil, err
	}
	return NewCell(v), nil
}

func (o CellOps[T, D]) Equal(a, b *Cell[T]) bool {
	return o.Elem.Equal(a.Load(), b.Load())
}

func (o CellOps[T, D]) Clone(v *Cell[T]) *Cell[T] {
	return NewCell(o.Elem.Clone(v.Load()))
}

func (o CellOps[T, D]) CloneDelta(d D) D {
	return o.Elem.CloneDelta(d)
}
