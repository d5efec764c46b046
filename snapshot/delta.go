package snapshot

import (
	"errors"
	"fmt"

	"github.com/signadot/deltoid"
	"github.com/signadot/deltoid/debug"
)

// ErrCurrentMismatch is returned when a restored history does not replay
// to its recorded current state.
var ErrCurrentMismatch = errors.New("current state does not match replayed deltas")

// DeltaSnapshots is a history kept as a sequence of deltas, each relative
// to its predecessor, together with the fully materialized current state.
// The current state always equals the replay of every delta from the base
// state, which is the zero T until Take moves it.
type DeltaSnapshots[T, D any] struct {
	ops     deltoid.Ops[T, D]
	opts    options
	base    T
	snaps   []DeltaSnapshot[D]
	current FullSnapshot[T]
}

// NewDeltaSnapshots returns an empty delta history of states diffed with
// ops.
func NewDeltaSnapshots[T, D any](ops deltoid.Ops[T, D], opts ...Option) *DeltaSnapshots[T, D] {
	h := &DeltaSnapshots[T, D]{ops: ops, opts: makeOptions(opts)}
	h.current = h.initial()
	return h
}

// Ops returns the algebra h diffs states with.
func (h *DeltaSnapshots[T, D]) Ops() deltoid.Ops[T, D] { return h.ops }

func (h *DeltaSnapshots[T, D]) Len() int      { return len(h.snaps) }
func (h *DeltaSnapshots[T, D]) IsEmpty() bool { return len(h.snaps) == 0 }

// Current returns the latest state.  Its State is shared with h and must
// not be modified.
func (h *DeltaSnapshots[T, D]) Current() FullSnapshot[T] {
	return h.current
}

// Clear empties the history and resets the base and current states to
// the default.
func (h *DeltaSnapshots[T, D]) Clear() {
	var zero T
	h.base = zero
	h.snaps = nil
	h.current = h.initial()
}

// Base returns the state the deltas of h apply to.
func (h *DeltaSnapshots[T, D]) Base() T {
	return h.base
}

// Take removes and returns the recorded deltas, keeping the current state.
// The current state becomes the base that later deltas apply to.
func (h *DeltaSnapshots[T, D]) Take() []DeltaSnapshot[D] {
	res := h.snaps
	h.snaps = nil
	h.base = h.ops.Clone(h.current.State)
	if debug.History() {
		debug.Logf("delta history take %d\n", len(res))
	}
	return res
}

// Push records the change from the current state to state, labeled with
// origin, and makes a copy of state current.
func (h *DeltaSnapshots[T, D]) Push(origin string, state T) DeltaSnapshot[D] {
	s := DeltaSnapshot[D]{
		Timestamp: h.opts.clock.Now(),
		Origin:    origin,
		Delta:     h.ops.Diff(h.current.State, state),
	}
	if debug.History() {
		debug.Logf("delta history push %d from %s: %v\n", len(h.snaps), origin, s.Delta)
	}
	h.snaps = append(h.snaps, s)
	h.current = FullSnapshot[T]{
		Timestamp: s.Timestamp,
		Origin:    origin,
		State:     h.ops.Clone(state),
	}
	return s
}

// Append patches the current state with s.Delta and records s.  If the
// patch fails neither the snapshots nor the current state change.
func (h *DeltaSnapshots[T, D]) Append(s DeltaSnapshot[D]) error {
	next, err := h.ops.Patch(h.current.State, s.Delta)
	if err != nil {
		h.opts.log.Warn("rejected delta", "index", len(h.snaps), "origin", s.Origin, "error", err)
		return fmt.Errorf("snapshot %d from %s: %w", len(h.snaps), s.Origin, err)
	}
	h.snaps = append(h.snaps, s)
	h.current = FullSnapshot[T]{Timestamp: s.Timestamp, Origin: s.Origin, State: next}
	return nil
}

// Snapshot returns the i'th delta snapshot.
func (h *DeltaSnapshots[T, D]) Snapshot(i int) (DeltaSnapshot[D], error) {
	if i < 0 || i >= len(h.snaps) {
		return DeltaSnapshot[D]{}, fmt.Errorf("%w: snapshot %d of %d", deltoid.ErrExpectedValue, i, len(h.snaps))
	}
	return h.snaps[i], nil
}

// Snapshots returns the delta snapshots in order.  The slice is a copy; the
// deltas are shared with h.
func (h *DeltaSnapshots[T, D]) Snapshots() []DeltaSnapshot[D] {
	res := make([]DeltaSnapshot[D], len(h.snaps))
	copy(res, h.snaps)
	return res
}

// Since returns the delta snapshots from index i on.
func (h *DeltaSnapshots[T, D]) Since(i int) ([]DeltaSnapshot[D], error) {
	if i < 0 || i > len(h.snaps) {
		return nil, fmt.Errorf("%w: snapshots since %d of %d", deltoid.ErrExpectedValue, i, len(h.snaps))
	}
	res := make([]DeltaSnapshot[D], len(h.snaps)-i)
	copy(res, h.snaps[i:])
	return res, nil
}

func (h *DeltaSnapshots[T, D]) initial() FullSnapshot[T] {
	var zero T
	return FullSnapshot[T]{
		Timestamp: h.opts.clock.Now(),
		Origin:    DefaultOrigin,
		State:     zero,
	}
}

// Expand converts h into a full history by patching the base state with
// each delta in order.  The first failing patch aborts the conversion and no
// history is returned.
//
// h is left unchanged.
func (h *DeltaSnapshots[T, D]) Expand() (*FullSnapshots[T, D], error) {
	states, err := h.replay()
	if err != nil {
		return nil, err
	}
	res := NewFullSnapshots(h.ops, h.opts.list()...)
	res.snaps = make([]FullSnapshot[T], len(h.snaps))
	for i := range h.snaps {
		res.snaps[i] = FullSnapshot[T]{
			Timestamp: h.snaps[i].Timestamp,
			Origin:    h.snaps[i].Origin,
			State:     states[i],
		}
	}
	h.opts.log.Debug("expanded history", "snapshots", len(res.snaps))
	return res, nil
}

func (h *DeltaSnapshots[T, D]) replay() ([]T, error) {
	cur := h.base
	res := make([]T, 0, len(h.snaps))
	for i := range h.snaps {
		next, err := h.ops.Patch(cur, h.snaps[i].Delta)
		if err != nil {
			return nil, fmt.Errorf("snapshot %d from %s: %w", i, h.snaps[i].Origin, err)
		}
		res = append(res, next)
		cur = next
	}
	return res, nil
}
