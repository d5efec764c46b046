// Package api defines the JSON-RPC methods of the history service and
// their messages.
package api

import (
	"github.com/signadot/deltoid/ir"
	"github.com/signadot/deltoid/libdiff"
	"github.com/signadot/deltoid/snapshot"
	"go.lsp.dev/jsonrpc2"
)

const (
	MethodPush    = "history.push"
	MethodCurrent = "history.current"
	MethodSince   = "history.since"
	MethodLen     = "history.len"
	MethodClear   = "history.clear"
)

// CodeRejected is the error code of requests the history cannot apply.
const CodeRejected jsonrpc2.Code = -32001

// Snapshot is one recorded change of the served document.
type Snapshot = snapshot.DeltaSnapshot[*libdiff.Delta]

// State is the served document with the time and origin of its last
// change.
type State = snapshot.FullSnapshot[*ir.Node]

type PushParams struct {
	Origin string   `json:"origin,omitempty"`
	State  *ir.Node `json:"state"`
}

type PushResult struct {
	Index    int      `json:"index"`
	Snapshot Snapshot `json:"snapshot"`
}

type SinceParams struct {
	Index int `json:"index"`
}

// SinceResult holds the snapshots from the requested index on.  Len is
// the length of the history when they were read.
type SinceResult struct {
	Snapshots []Snapshot `json:"snapshots"`
	Len       int        `json:"len"`
}

type LenResult struct {
	Len int `json:"len"`
}
