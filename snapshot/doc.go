// Package snapshot keeps ordered histories of states.
//
// A [FullSnapshots] history stores every state in full.  A
// [DeltaSnapshots] history stores the delta of every state from its
// predecessor together with the current state, so that the latest state
// is available without replay.  [FullSnapshots.Compact] and
// [DeltaSnapshots.Expand] convert between the two without loss:
//
//	full.Compact().Expand() // same (timestamp, origin, state) sequence
//
// The first state of a history is diffed from the zero value of its type.
// Timestamps come from an injectable [Clock].
//
// Histories hold no locks.  Callers sharing a history between goroutines
// must serialize access.
package snapshot
