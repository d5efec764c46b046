package snapshot

import (
	"fmt"

	"github.com/signadot/deltoid"
)

// FullLog is the serialized form of a full history.
type FullLog[T any] struct {
	Snapshots []FullSnapshot[T] `json:"snapshots" yaml:"snapshots"`
}

// DeltaLog is the serialized form of a delta history.  Base is the state
// the first delta applies to, the zero T unless the history was taken.
type DeltaLog[T, D any] struct {
	Base      T                  `json:"base,omitempty" yaml:"base,omitempty"`
	Snapshots []DeltaSnapshot[D] `json:"snapshots" yaml:"snapshots"`
	Current   FullSnapshot[T]    `json:"current" yaml:"current"`
}

// Log returns the serialized form of h.
func (h *FullSnapshots[T, D]) Log() FullLog[T] {
	return FullLog[T]{Snapshots: h.Snapshots()}
}

// Log returns the serialized form of h.
func (h *DeltaSnapshots[T, D]) Log() DeltaLog[T, D] {
	return DeltaLog[T, D]{Base: h.base, Snapshots: h.Snapshots(), Current: h.current}
}

// RestoreFull rebuilds a full history from its serialized form.
func RestoreFull[T, D any](ops deltoid.Ops[T, D], l FullLog[T], opts ...Option) *FullSnapshots[T, D] {
	h := NewFullSnapshots(ops, opts...)
	for _, s := range l.Snapshots {
		h.Add(s)
	}
	return h
}

// RestoreDelta rebuilds a delta history from its serialized form.  The
// deltas are replayed and must reproduce the recorded current state;
// otherwise the log is rejected with ErrCurrentMismatch.  An empty log
// may carry any current snapshot whose state is the base.
func RestoreDelta[T, D any](ops deltoid.Ops[T, D], l DeltaLog[T, D], opts ...Option) (*DeltaSnapshots[T, D], error) {
	h := NewDeltaSnapshots(ops, opts...)
	h.base = ops.Clone(l.Base)
	h.snaps = l.Snapshots
	states, err := h.replay()
	if err != nil {
		return nil, err
	}
	last := h.base
	if n := len(states); n != 0 {
		last = states[n-1]
	}
	if !ops.Equal(last, l.Current.State) {
		return nil, fmt.Errorf("%w: %d snapshots", ErrCurrentMismatch, len(l.Snapshots))
	}
	if len(l.Snapshots) == 0 && l.Current.Origin == "" {
		return h, nil
	}
	h.current = FullSnapshot[T]{
		Timestamp: l.Current.Timestamp,
		Origin:    l.Current.Origin,
		State:     last,
	}
	return h, nil
}
