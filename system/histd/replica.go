package histd

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/signadot/deltoid/ir"
	"github.com/signadot/deltoid/libdiff"
	"github.com/signadot/deltoid/snapshot"
)

// Replica keeps a local copy of a server's history.
type Replica struct {
	client *Client
	origin string
	log    *slog.Logger

	mu   sync.Mutex
	hist *snapshot.DeltaSnapshots[*ir.Node, *libdiff.Delta]
}

type ReplicaOption func(*Replica)

// WithOrigin labels the states pushed by the replica.  The default is a
// random UUID.
func WithOrigin(origin string) ReplicaOption {
	return func(r *Replica) { r.origin = origin }
}

func WithReplicaLogger(l *slog.Logger) ReplicaOption {
	return func(r *Replica) { r.log = l }
}

func NewReplica(c *Client, opts ...ReplicaOption) *Replica {
	r := &Replica{client: c}
	for _, o := range opts {
		o(r)
	}
	if r.origin == "" {
		r.origin = uuid.NewString()
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	r.log = r.log.With("origin", r.origin)
	r.hist = snapshot.NewDeltaSnapshots(libdiff.Ops(), snapshot.WithLogger(r.log))
	return r
}

func (r *Replica) Origin() string { return r.origin }

// Sync fetches the snapshots the replica has not seen and appends them
// to its history.  It returns the number of appended snapshots.  If the
// server history became shorter than the local one, the local history is
// cleared and fetched again.
func (r *Replica) Sync(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, err := r.client.Len(ctx)
	if err != nil {
		return 0, err
	}
	if n < r.hist.Len() {
		r.log.Info("server history shrank, refetching", "local", r.hist.Len(), "server", n)
		r.hist.Clear()
	}
	res, err := r.client.Since(ctx, r.hist.Len())
	if err != nil {
		return 0, err
	}
	for i, s := range res.Snapshots {
		if err := r.hist.Append(s); err != nil {
			return i, err
		}
	}
	return len(res.Snapshots), nil
}

// Push sends state to the server and syncs.
func (r *Replica) Push(ctx context.Context, state *ir.Node) error {
	if _, err := r.client.Push(ctx, r.origin, state); err != nil {
		return err
	}
	_, err := r.Sync(ctx)
	return err
}

// Current returns a copy of the local current state.
func (r *Replica) Current() snapshot.FullSnapshot[*ir.Node] {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.hist.Current()
	cur.State = cur.State.Clone()
	return cur
}

// Log returns the serialized form of the local history.
func (r *Replica) Log() snapshot.DeltaLog[*ir.Node, *libdiff.Delta] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hist.Log()
}
