package snapshot

import (
	"slices"
	"strings"
	"time"
)

// DefaultOrigin labels the initial snapshot of an empty history.
const DefaultOrigin = "default"

// FullSnapshot is one fully materialized state.
type FullSnapshot[T any] struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Origin    string    `json:"origin" yaml:"origin"`
	State     T         `json:"state" yaml:"state"`
}

// DeltaSnapshot is one change relative to the preceding snapshot.
type DeltaSnapshot[D any] struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Origin    string    `json:"origin" yaml:"origin"`
	Delta     D         `json:"delta" yaml:"delta"`
}

// Compare orders snapshots by timestamp, then origin.  The state is not
// consulted: two snapshots with the same timestamp and origin compare
// equal whatever they carry.
func (s FullSnapshot[T]) Compare(o FullSnapshot[T]) int {
	return compareKey(s.Timestamp, s.Origin, o.Timestamp, o.Origin)
}

// Equal reports whether s and o have the same timestamp and origin.
func (s FullSnapshot[T]) Equal(o FullSnapshot[T]) bool {
	return s.Compare(o) == 0
}

// Compare orders snapshots by timestamp, then origin, ignoring the delta.
func (s DeltaSnapshot[D]) Compare(o DeltaSnapshot[D]) int {
	return compareKey(s.Timestamp, s.Origin, o.Timestamp, o.Origin)
}

// Equal reports whether s and o have the same timestamp and origin.
func (s DeltaSnapshot[D]) Equal(o DeltaSnapshot[D]) bool {
	return s.Compare(o) == 0
}

func compareKey(at time.Time, ao string, bt time.Time, bo string) int {
	if c := at.Compare(bt); c != 0 {
		return c
	}
	return strings.Compare(ao, bo)
}

// SortFull sorts snapshots by (timestamp, origin), keeping the relative
// order of equal keys.
func SortFull[T any](s []FullSnapshot[T]) {
	slices.SortStableFunc(s, FullSnapshot[T].Compare)
}

// SortDelta sorts snapshots by (timestamp, origin), keeping the relative
// order of equal keys.  Reordering deltas changes what they replay to;
// it is meant for merging logs of independent histories for display.
func SortDelta[D any](s []DeltaSnapshot[D]) {
	slices.SortStableFunc(s, DeltaSnapshot[D].Compare)
}

// Origins returns the distinct origins of s in order of appearance.
func Origins[T any](s []FullSnapshot[T]) []string {
	seen := map[string]bool{}
	var res []string
	for i := range s {
		if seen[s[i].Origin] {
			continue
		}
		seen[s[i].Origin] = true
		res = append(res, s[i].Origin)
	}
	return res
}
