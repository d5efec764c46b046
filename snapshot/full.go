package snapshot

import (
	"fmt"

	"github.com/signadot/deltoid"
	"github.com/signadot/deltoid/debug"
)

// FullSnapshots is a history kept as a sequence of full states, in append
// order.
type FullSnapshots[T, D any] struct {
	ops   deltoid.Ops[T, D]
	opts  options
	snaps []FullSnapshot[T]
}

// NewFullSnapshots returns an empty history of states diffed with ops.
func NewFullSnapshots[T, D any](ops deltoid.Ops[T, D], opts ...Option) *FullSnapshots[T, D] {
	return &FullSnapshots[T, D]{ops: ops, opts: makeOptions(opts)}
}

// Ops returns the algebra h diffs states with.
func (h *FullSnapshots[T, D]) Ops() deltoid.Ops[T, D] { return h.ops }

func (h *FullSnapshots[T, D]) Len() int      { return len(h.snaps) }
func (h *FullSnapshots[T, D]) IsEmpty() bool { return len(h.snaps) == 0 }

// Clear empties the history.
func (h *FullSnapshots[T, D]) Clear() {
	h.snaps = nil
}

// Push appends a copy of state labeled with origin and timestamped by the
// history clock.
func (h *FullSnapshots[T, D]) Push(origin string, state T) FullSnapshot[T] {
	s := FullSnapshot[T]{
		Timestamp: h.opts.clock.Now(),
		Origin:    origin,
		State:     h.ops.Clone(state),
	}
	h.Add(s)
	return s
}

// Add appends s as is.
func (h *FullSnapshots[T, D]) Add(s FullSnapshot[T]) {
	if debug.History() {
		debug.Logf("full history add %d from %s at %s\n", len(h.snaps), s.Origin, s.Timestamp)
	}
	h.snaps = append(h.snaps, s)
}

// Snapshot returns the i'th snapshot.
func (h *FullSnapshots[T, D]) Snapshot(i int) (FullSnapshot[T], error) {
	if i < 0 || i >= len(h.snaps) {
		return FullSnapshot[T]{}, fmt.Errorf("%w: snapshot %d of %d", deltoid.ErrExpectedValue, i, len(h.snaps))
	}
	return h.snaps[i], nil
}

// Last returns the most recent snapshot, or the default snapshot if h is
// empty.
func (h *FullSnapshots[T, D]) Last() FullSnapshot[T] {
	if len(h.snaps) == 0 {
		return h.initial()
	}
	return h.snaps[len(h.snaps)-1]
}

// Snapshots returns the snapshots in order.  The slice is a copy; the
// states are shared with h.
func (h *FullSnapshots[T, D]) Snapshots() []FullSnapshot[T] {
	res := make([]FullSnapshot[T], len(h.snaps))
	copy(res, h.snaps)
	return res
}

func (h *FullSnapshots[T, D]) initial() FullSnapshot[T] {
	var zero T
	return FullSnapshot[T]{
		Timestamp: h.opts.clock.Now(),
		Origin:    DefaultOrigin,
		State:     zero,
	}
}

// Compact converts h into a delta history.  Delta i is the difference
// between state i-1 (the zero T for i = 0) and state i, and carries the
// timestamp and origin of snapshot i.  The current state of the result is
// a copy of the last snapshot, or the default snapshot if h is empty.
//
// h is left unchanged.
func (h *FullSnapshots[T, D]) Compact() *DeltaSnapshots[T, D] {
	res := NewDeltaSnapshots(h.ops, h.opts.list()...)
	var prev T
	deltas := make([]DeltaSnapshot[D], 0, len(h.snaps))
	for i := range h.snaps {
		s := &h.snaps[i]
		deltas = append(deltas, DeltaSnapshot[D]{
			Timestamp: s.Timestamp,
			Origin:    s.Origin,
			Delta:     h.ops.Diff(prev, s.State),
		})
		prev = s.State
	}
	res.snaps = deltas
	if len(h.snaps) != 0 {
		last := h.snaps[len(h.snaps)-1]
		last.State = h.ops.Clone(last.State)
		res.current = last
	}
	h.opts.log.Debug("compacted history", "snapshots", len(deltas))
	return res
}
