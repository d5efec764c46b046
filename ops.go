package deltoid

import (
	"encoding/json"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Ops is the delta algebra for values of type T with deltas of type D.
type Ops[T, D any] interface {
	// Diff computes the delta d such that a --[d]--> b.
	Diff(a, b T) D

	// Patch computes b from a and d.  It never modifies a.
	Patch(a T, d D) (T, error)

	// Equal reports whether a and b are the same value.
	Equal(a, b T) bool

	// Clone returns an independent copy of v.
	Clone(v T) T

	// CloneDelta returns an independent copy of d.
	CloneDelta(d D) D
}

// InverseDiffer may be implemented by an Ops whose inverse delta is
// cheaper to compute than Diff(b, a).
type InverseDiffer[T, D any] interface {
	InverseDiff(a, b T) D
}

// InverseDiff computes the delta d such that b --[d]--> a.
func InverseDiff[T, D any](o Ops[T, D], a, b T) D {
	if inv, ok := o.(InverseDiffer[T, D]); ok {
		return inv.InverseDiff(a, b)
	}
	return o.Diff(b, a)
}

// IntoDelta returns the delta that builds v from the zero T.
func IntoDelta[T, D any](o Ops[T, D], v T) D {
	var zero T
	return o.Diff(zero, v)
}

// FromDelta builds a value by patching the zero T with d.
func FromDelta[T, D any](o Ops[T, D], d D) (T, error) {
	var zero T
	return o.Patch(zero, d)
}

// Apply patches a with each delta in order.
func Apply[T, D any](o Ops[T, D], a T, ds ...D) (T, error) {
	var err error
	for i := range ds {
		a, err = o.Patch(a, ds[i])
		if err != nil {
			var zero T
			return zero, fmt.Errorf("delta %d: %w", i, err)
		}
	}
	return a, nil
}

// DeltaEqual reports whether two deltas are structurally equal.  Nil and
// empty slices and maps are considered equal.
func DeltaEqual(a, b any) bool {
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}

// Coerce turns a type erased delta payload, as carried by [UnionDelta]
// and [StructDelta], back into D.
func Coerce[D any](v any) (D, error) {
	return coerce[D](v)
}

// coerce turns a type erased delta payload back into D.  Payloads built by
// Diff already have type D.  Payloads read back by a codec are generic trees
// (maps, slices, numbers) and are converted through their JSON form.
func coerce[D any](v any) (D, error) {
	var d D
	if v == nil {
		return d, ErrExpectedValue
	}
	if x, ok := v.(D); ok {
		return x, nil
	}
	if x, ok := v.(*D); ok && x != nil {
		return *x, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return d, fmt.Errorf("%w: %T: %w", ErrShapeMismatch, v, err)
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("%w: %T as %T: %w", ErrShapeMismatch, v, d, err)
	}
	return d, nil
}
