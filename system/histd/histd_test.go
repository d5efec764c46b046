package histd

import (
	"context"
	"math"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/signadot/deltoid"
	"github.com/signadot/deltoid/ir"
	"github.com/signadot/deltoid/libdiff"
	"github.com/signadot/deltoid/parse"
	"github.com/signadot/deltoid/snapshot"
	"github.com/signadot/deltoid/system/histd/storage"
)

func doc(t *testing.T, s string) *ir.Node {
	t.Helper()
	n, err := parse.Parse([]byte(s), parse.ParseJSON())
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func testClock() snapshot.Clock {
	return snapshot.NewStepClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Second)
}

func serve(t *testing.T, srv *Server) *Client {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	a, b := net.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.ServeConn(ctx, a)
	}()
	c := NewClient(ctx, b)
	t.Cleanup(func() {
		c.Close()
		cancel()
		<-done
	})
	return c
}

func newServer(t *testing.T, spec *Spec) *Server {
	t.Helper()
	if spec.Clock == nil {
		spec.Clock = testClock()
	}
	srv, err := New(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	return srv
}

var docs = []string{
	`{"name": "a", "tags": ["x"]}`,
	`{"name": "a", "tags": ["x", "y"], "size": 2}`,
	`{"name": "b", "tags": []}`,
}

func TestPushCurrentSince(t *testing.T) {
	ctx := context.Background()
	c := serve(t, newServer(t, &Spec{}))
	for i, d := range docs {
		res, err := c.Push(ctx, "tester", doc(t, d))
		if err != nil {
			t.Fatal(err)
		}
		if res.Index != i {
			t.Errorf("got index %d want %d", res.Index, i)
		}
	}
	cur, err := c.Current(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(cur.State, doc(t, docs[2])) || cur.Origin != "tester" {
		t.Errorf("got current %v from %s", ir.ToAny(cur.State), cur.Origin)
	}
	n, err := c.Len(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("got len %d", n)
	}
	res, err := c.Since(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Snapshots) != 2 || res.Len != 3 {
		t.Fatalf("got %d snapshots of %d", len(res.Snapshots), res.Len)
	}
	got, err := deltoid.Apply(libdiff.Ops(), doc(t, docs[0]), res.Snapshots[0].Delta, res.Snapshots[1].Delta)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(got, doc(t, docs[2])) {
		t.Errorf("replayed to %v", ir.ToAny(got))
	}
	if _, err := c.Since(ctx, 4); err == nil {
		t.Error("expected an error reading past the end")
	}
}

func TestEmptyCurrent(t *testing.T) {
	c := serve(t, newServer(t, &Spec{}))
	cur, err := c.Current(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cur.State != nil || cur.Origin != snapshot.DefaultOrigin {
		t.Errorf("got %v from %q", ir.ToAny(cur.State), cur.Origin)
	}
}

func TestUnknownMethod(t *testing.T) {
	c := serve(t, newServer(t, &Spec{}))
	if err := c.call(context.Background(), "history.nope", nil, nil); err == nil {
		t.Error("expected an error")
	}
}

func TestReplica(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t, &Spec{})
	r1 := NewReplica(serve(t, srv), WithOrigin("one"))
	r2 := NewReplica(serve(t, srv))
	if r2.Origin() == "" || r2.Origin() == r1.Origin() {
		t.Errorf("got origin %q", r2.Origin())
	}
	for _, d := range docs[:2] {
		if err := r1.Push(ctx, doc(t, d)); err != nil {
			t.Fatal(err)
		}
	}
	n, err := r2.Sync(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("synced %d", n)
	}
	cur := r2.Current()
	if !ir.Equal(cur.State, doc(t, docs[1])) || cur.Origin != "one" {
		t.Errorf("got %v from %s", ir.ToAny(cur.State), cur.Origin)
	}
	if err := r2.Push(ctx, doc(t, docs[2])); err != nil {
		t.Fatal(err)
	}
	if _, err := r1.Sync(ctx); err != nil {
		t.Fatal(err)
	}
	var origins []string
	for _, s := range r1.Log().Snapshots {
		origins = append(origins, s.Origin)
	}
	if diff := cmp.Diff([]string{"one", "one", r2.Origin()}, origins); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}

	if err := srv.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := srv.Push(ctx, "", doc(t, docs[0])); err != nil {
		t.Fatal(err)
	}
	if _, err := r1.Sync(ctx); err != nil {
		t.Fatal(err)
	}
	if l := r1.Log(); len(l.Snapshots) != 1 || !ir.Equal(l.Current.State, doc(t, docs[0])) {
		t.Errorf("got %d snapshots after clear", len(l.Snapshots))
	}
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	st, err := storage.Open(filepath.Join(t.TempDir(), "hist.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	spec := &Spec{Storage: st, Config: Config{Log: "docs"}}
	srv := newServer(t, spec)
	for _, d := range docs {
		if _, err := srv.Push(ctx, "a", doc(t, d)); err != nil {
			t.Fatal(err)
		}
	}
	want := srv.Current()
	srv.Close()
	if _, err := srv.Push(ctx, "a", nil); err == nil {
		t.Error("expected an error pushing to a closed server")
	}

	srv = newServer(t, &Spec{Storage: st, Config: Config{Log: "docs"}})
	if srv.Len() != len(docs) {
		t.Fatalf("restored %d snapshots", srv.Len())
	}
	got := srv.Current()
	if !ir.Equal(got.State, want.State) || got.Origin != want.Origin || !got.Timestamp.Equal(want.Timestamp) {
		t.Errorf("got %v want %v", got, want)
	}

	other := newServer(t, &Spec{Storage: st, Config: Config{Log: "other"}})
	if other.Len() != 0 {
		t.Errorf("other log has %d snapshots", other.Len())
	}

	if err := srv.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	srv = newServer(t, &Spec{Storage: st, Config: Config{Log: "docs"}})
	if srv.Len() != 0 {
		t.Errorf("restored %d snapshots after clear", srv.Len())
	}
}

func TestPushNotStored(t *testing.T) {
	ctx := context.Background()
	st, err := storage.Open(filepath.Join(t.TempDir(), "hist.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	srv := newServer(t, &Spec{Storage: st, Config: Config{Log: "docs"}})
	if _, err := srv.Push(ctx, "a", doc(t, `{"x": 1}`)); err != nil {
		t.Fatal(err)
	}
	bad := ir.FromKeyVals([]ir.KeyVal{{Key: "x", Val: ir.FromFloat(math.NaN())}})
	if _, err := srv.Push(ctx, "a", bad); err == nil {
		t.Fatal("expected an error storing a NaN document")
	}
	if srv.Len() != 1 {
		t.Errorf("history has %d snapshots after a failed push", srv.Len())
	}
	n, err := st.Len(ctx, "docs")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("storage has %d records after a failed push", n)
	}
	if !ir.Equal(srv.Current().State, doc(t, `{"x": 1}`)) {
		t.Errorf("current changed to %v", ir.ToAny(srv.Current().State))
	}
}

func metricValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		var sum float64
		for _, m := range mf.GetMetric() {
			sum += m.GetCounter().GetValue() + m.GetGauge().GetValue()
		}
		return sum
	}
	return 0
}

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	c := serve(t, newServer(t, &Spec{Registry: reg}))
	for _, d := range docs {
		if _, err := c.Push(ctx, "", doc(t, d)); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := c.Len(ctx); err != nil {
		t.Fatal(err)
	}
	for name, want := range map[string]float64{
		"deltoid_history_pushes_total":   3,
		"deltoid_history_length":         3,
		"deltoid_history_requests_total": 4,
		"deltoid_history_rejected_total": 0,
	} {
		if got := metricValue(t, reg, name); got != want {
			t.Errorf("%s: got %v want %v", name, got, want)
		}
	}
}

func TestServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv := newServer(t, &Spec{})
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ctx, l) }()

	c, err := Dial(ctx, l.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Push(ctx, "net", doc(t, docs[0])); err != nil {
		t.Fatal(err)
	}
	if srv.Len() != 1 {
		t.Errorf("got len %d", srv.Len())
	}
	c.Close()
	cancel()
	if err := <-errc; err != nil {
		t.Errorf("serve: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("DELTOID_ADDR", "127.0.0.1:9000")
	t.Setenv("DELTOID_LOG", "docs")
	c, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	want := Config{Addr: "127.0.0.1:9000", DB: "deltoid.db", Log: "docs"}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}
