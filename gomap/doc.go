// Package gomap derives delta algebras from Go types by reflection.
//
// The derived algebra follows the shape of the type: leaves are replaced,
// struct fields are diffed by name, pointers are set, cleared or edited
// through, slices are edited by index and then truncated or appended to,
// and maps are edited by key.  Struct fields may be renamed or excluded
// with the "delta" tag:
//
//	type Account struct {
//		Balance int    `delta:"field=balance"`
//		Cache   []byte `delta:"-"`
//	}
//
// Excluded fields never appear in deltas, are ignored by Equal and are
// reset to their zero value by Patch.
package gomap
