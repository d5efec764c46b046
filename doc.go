// Package deltoid computes structural differences ("deltas") between two
// values of the same type and reconstructs a value from another by applying
// a delta.
//
// # Contract
//
// Every diffable type T is paired with a delta type D through an [Ops]
// value:
//
//	d := ops.Diff(a, b)       // a --[d]--> b
//	b2, err := ops.Patch(a, d) // b2 equals b
//	inv := deltoid.InverseDiff(ops, a, b) // b --[inv]--> a
//
// Patch never mutates its input.  For all a, b:
//
//	ops.Equal(must(ops.Patch(a, ops.Diff(a, b))), b)
//
// # Shapes
//
// Leaves ([Leaf], [Int], [String], ...) are replaced wholesale.  Containers
// compose the deltas of their elements and elide unchanged substructure:
//
//   - [Optional] for *T values which may be absent
//   - [Seq] for slices
//   - [Keyed] for maps
//   - [PairOf], [TripleOf], [Array] for fixed tuples
//   - [Shared] for *T values which are always present
//   - [CellOf] for mutex guarded cells
//   - [RangeOf] for start/end ranges
//   - [Union] for tagged unions
//   - [Struct] for aggregates, with [Field] and [Ignore]
//
// Deltas are plain exported Go values and may be serialized with any
// structured codec, see the codec package.
package deltoid
