package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func open(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "hist.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Error(err)
		}
	})
	return s
}

func records(t *testing.T, s *Storage, log string) []string {
	t.Helper()
	var res []string
	err := s.Scan(context.Background(), log, func(seq uint64, r []byte) error {
		res = append(res, fmt.Sprintf("%d:%s", seq, r))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestAppendScan(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	for i, r := range []string{"a", "b", "c"} {
		seq, err := s.Append(ctx, "main", []byte(r))
		if err != nil {
			t.Fatal(err)
		}
		if seq != uint64(i+1) {
			t.Errorf("got seq %d want %d", seq, i+1)
		}
	}
	if _, err := s.Append(ctx, "other", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"1:a", "2:b", "3:c"}, records(t, s, "main")); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	n, err := s.Len(ctx, "main")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("got len %d", n)
	}
	logs, err := s.Logs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"main", "other"}, logs); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestScanStops(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	for _, r := range []string{"a", "b"} {
		if _, err := s.Append(ctx, "main", []byte(r)); err != nil {
			t.Fatal(err)
		}
	}
	stop := errors.New("stop")
	calls := 0
	err := s.Scan(ctx, "main", func(uint64, []byte) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Errorf("got %v after %d calls", err, calls)
	}
	if err := s.Scan(ctx, "missing", func(uint64, []byte) error { return nil }); !errors.Is(err, ErrNoLog) {
		t.Errorf("got %v", err)
	}
}

func TestResetAndCurrent(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	if _, err := s.Commit(ctx, "main", []byte("d1"), []byte("s1")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Commit(ctx, "main", []byte("d2"), []byte("s2")); err != nil {
		t.Fatal(err)
	}
	cur, err := s.Current(ctx, "main")
	if err != nil {
		t.Fatal(err)
	}
	if string(cur) != "s2" {
		t.Errorf("got current %q", cur)
	}
	if err := s.Reset(ctx, "main"); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(ctx, "main"); err != nil {
		t.Fatalf("second reset: %v", err)
	}
	if _, err := s.Current(ctx, "main"); !errors.Is(err, ErrNoLog) {
		t.Errorf("got %v", err)
	}
	seq, err := s.Append(ctx, "main", []byte("again"))
	if err != nil {
		t.Fatal(err)
	}
	if seq != 1 {
		t.Errorf("got seq %d after reset", seq)
	}
	if err := s.SetCurrent(ctx, "main", []byte("s3")); err != nil {
		t.Fatal(err)
	}
	if cur, _ := s.Current(ctx, "main"); string(cur) != "s3" {
		t.Errorf("got current %q", cur)
	}
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hist.db")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Append(ctx, "main", []byte("kept")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	s, err = Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if diff := cmp.Diff([]string{"1:kept"}, records(t, s, "main")); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestCanceled(t *testing.T) {
	s := open(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Append(ctx, "main", []byte("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v", err)
	}
}
