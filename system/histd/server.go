package histd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/signadot/deltoid/codec"
	"github.com/signadot/deltoid/format"
	"github.com/signadot/deltoid/ir"
	"github.com/signadot/deltoid/libdiff"
	"github.com/signadot/deltoid/snapshot"
	"github.com/signadot/deltoid/system/histd/api"
	"github.com/signadot/deltoid/system/histd/storage"
)

// Spec describes a server.  Storage, Log, Clock and Registry are
// optional.  Without Storage the history lives in memory only.
type Spec struct {
	Config   Config
	Storage  *storage.Storage
	Log      *slog.Logger
	Clock    snapshot.Clock
	Registry *prometheus.Registry
}

type Server struct {
	spec     Spec
	log      *slog.Logger
	clock    snapshot.Clock
	registry *prometheus.Registry
	metrics  *metrics

	mu     sync.Mutex
	hist   *snapshot.DeltaSnapshots[*ir.Node, *libdiff.Delta]
	closed bool
}

// New returns a server for spec, restoring the history kept in
// spec.Storage under the log named by spec.Config.Log.
func New(ctx context.Context, spec *Spec) (*Server, error) {
	s := &Server{
		spec:     *spec,
		log:      spec.Log,
		clock:    spec.Clock,
		registry: spec.Registry,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.clock == nil {
		s.clock = snapshot.SystemClock
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	if s.spec.Config.Log == "" {
		s.spec.Config.Log = "main"
	}
	s.log = s.log.With("log", s.spec.Config.Log)
	s.metrics = newMetrics(s.registry)
	if err := s.restore(ctx); err != nil {
		return nil, err
	}
	s.metrics.length.Set(float64(s.hist.Len()))
	return s, nil
}

func (s *Server) histOpts() []snapshot.Option {
	return []snapshot.Option{snapshot.WithClock(s.clock), snapshot.WithLogger(s.log)}
}

func (s *Server) restore(ctx context.Context) error {
	s.hist = snapshot.NewDeltaSnapshots(libdiff.Ops(), s.histOpts()...)
	st := s.spec.Storage
	if st == nil {
		return nil
	}
	name := s.spec.Config.Log
	var l snapshot.DeltaLog[*ir.Node, *libdiff.Delta]
	err := st.Scan(ctx, name, func(seq uint64, rec []byte) error {
		var snap api.Snapshot
		if err := codec.Unmarshal(rec, &snap, format.JSONFormat); err != nil {
			return fmt.Errorf("record %d: %w", seq, err)
		}
		l.Snapshots = append(l.Snapshots, snap)
		return nil
	})
	switch {
	case errors.Is(err, storage.ErrNoLog):
		return nil
	case err != nil:
		return fmt.Errorf("restore %s: %w", name, err)
	}
	cur, err := st.Current(ctx, name)
	if err != nil {
		return fmt.Errorf("restore %s: %w", name, err)
	}
	if cur == nil {
		// no recorded current state: replay only
		for _, snap := range l.Snapshots {
			if err := s.hist.Append(snap); err != nil {
				s.metrics.rejected.Inc()
				return fmt.Errorf("restore %s: %w", name, err)
			}
		}
	} else {
		if err := codec.Unmarshal(cur, &l.Current, format.JSONFormat); err != nil {
			return fmt.Errorf("restore %s: current: %w", name, err)
		}
		h, err := snapshot.RestoreDelta(libdiff.Ops(), l, s.histOpts()...)
		if err != nil {
			return fmt.Errorf("restore %s: %w", name, err)
		}
		s.hist = h
	}
	s.log.Info("restored history", "snapshots", s.hist.Len())
	return nil
}

// Push records state as the new current document.  The delta is checked
// against the current document before it is stored, and stored before it
// is appended to the in-memory history.
func (s *Server) Push(ctx context.Context, origin string, state *ir.Node) (api.PushResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return api.PushResult{}, ErrClosed
	}
	if origin == "" {
		origin = snapshot.DefaultOrigin
	}
	snap := api.Snapshot{
		Timestamp: s.clock.Now(),
		Origin:    origin,
		Delta:     libdiff.Diff(s.hist.Current().State, state),
	}
	next, err := libdiff.Patch(s.hist.Current().State, snap.Delta)
	if err != nil {
		s.metrics.rejected.Inc()
		return api.PushResult{}, fmt.Errorf("push from %s: %w", origin, err)
	}
	if err := s.persist(ctx, snap, api.State{Timestamp: snap.Timestamp, Origin: origin, State: next}); err != nil {
		return api.PushResult{}, err
	}
	if err := s.hist.Append(snap); err != nil {
		s.metrics.rejected.Inc()
		s.log.Error("stored snapshot not appended", "index", s.hist.Len(), "error", err)
		return api.PushResult{}, err
	}
	s.metrics.pushes.Inc()
	s.metrics.length.Set(float64(s.hist.Len()))
	return api.PushResult{Index: s.hist.Len() - 1, Snapshot: snap}, nil
}

func (s *Server) persist(ctx context.Context, snap api.Snapshot, cur api.State) error {
	st := s.spec.Storage
	if st == nil {
		return nil
	}
	rec, err := codec.Marshal(snap, format.JSONFormat)
	if err != nil {
		return err
	}
	curRec, err := codec.Marshal(cur, format.JSONFormat)
	if err != nil {
		return err
	}
	_, err = st.Commit(ctx, s.spec.Config.Log, rec, curRec)
	return err
}

func (s *Server) Current() api.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.hist.Current()
	cur.State = cur.State.Clone()
	return cur
}

func (s *Server) Since(i int) (api.SinceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snaps, err := s.hist.Since(i)
	if err != nil {
		return api.SinceResult{}, err
	}
	return api.SinceResult{Snapshots: snaps, Len: s.hist.Len()}, nil
}

func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.Len()
}

// Clear empties the history and its storage.
func (s *Server) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if st := s.spec.Storage; st != nil {
		if err := st.Reset(ctx, s.spec.Config.Log); err != nil {
			return err
		}
	}
	s.hist.Clear()
	s.metrics.length.Set(0)
	s.log.Info("cleared history")
	return nil
}

// Close makes further pushes and clears fail.  It does not close the
// storage.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Serve accepts connections on l until ctx is done.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	go func() {
		<-ctx.Done()
		l.Close()
	}()
	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		c, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		s.log.Debug("accepted connection", "remote", c.RemoteAddr())
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.ServeConn(ctx, c)
		}()
	}
}

// ServeConn answers requests on rwc until the peer closes it or ctx is
// done.
func (s *Server) ServeConn(ctx context.Context, rwc io.ReadWriteCloser) {
	conn := newConn(ctx, rwc, s.handle)
	select {
	case <-ctx.Done():
		conn.Close()
		<-conn.Done()
	case <-conn.Done():
	}
	s.log.Debug("connection done", "error", conn.Err())
}
