package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/scott-cotton/cli"
	"github.com/signadot/deltoid/codec"
	"github.com/signadot/deltoid/eval"
	"github.com/signadot/deltoid/ir"
	"github.com/signadot/deltoid/libdiff"
	"github.com/signadot/deltoid/snapshot"
)

type (
	docLog   = snapshot.DeltaLog[*ir.Node, *libdiff.Delta]
	fullDocs = snapshot.FullSnapshots[*ir.Node, *libdiff.Delta]
)

func compact(cfg *CompactConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Compact.Parse(cc, args)
	if err != nil {
		cfg.Compact.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: compact requires at least one file", cli.ErrUsage)
	}
	full := snapshot.NewFullSnapshots(libdiff.Ops(), snapshot.WithLogger(theLog))
	for _, arg := range args {
		doc, err := getObjFile(cfg.MainConfig, cc, arg)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", arg, err)
		}
		full.Add(snapshot.FullSnapshot[*ir.Node]{
			Timestamp: modTime(arg),
			Origin:    fileOrigin(cfg.Origin, arg),
			State:     doc,
		})
	}
	return codec.Encode(cc.Out, full.Compact().Log(), cfg.outFormat(), cfg.encOpts(cc.Out)...)
}

func fileOrigin(origin, path string) string {
	if origin != "" {
		return origin
	}
	if path == "-" {
		return snapshot.DefaultOrigin
	}
	return filepath.Base(path)
}

// modTime is the modification time of the file at path, or now for
// stdin.
func modTime(path string) time.Time {
	if path != "-" {
		if fi, err := os.Stat(path); err == nil {
			return fi.ModTime().UTC()
		}
	}
	return snapshot.SystemClock.Now()
}

func expand(cfg *ExpandConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Expand.Parse(cc, args)
	if err != nil {
		cfg.Expand.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	full, err := readHistory(cfg.MainConfig, cc, args)
	if err != nil {
		return err
	}
	return codec.Encode(cc.Out, full.Log(), cfg.outFormat(), cfg.encOpts(cc.Out)...)
}

// readHistory reads the delta history in the one file of args (stdin if
// none) and expands it.
func readHistory(cfg *MainConfig, cc *cli.Context, args []string) (*fullDocs, error) {
	path := "-"
	switch len(args) {
	case 0:
	case 1:
		path = args[0]
	default:
		return nil, fmt.Errorf("%w: expected at most one history file, got %v", cli.ErrUsage, args)
	}
	var l docLog
	if err := getValue(cfg, cc, path, &l); err != nil {
		return nil, err
	}
	h, err := snapshot.RestoreDelta(libdiff.Ops(), l, snapshot.WithLogger(theLog))
	if err != nil {
		return nil, fmt.Errorf("error restoring %s: %w", path, err)
	}
	full, err := h.Expand()
	if err != nil {
		return nil, fmt.Errorf("error expanding %s: %w", path, err)
	}
	return full, nil
}

func list(cfg *ListConfig, cc *cli.Context, args []string) error {
	args, err := cfg.List.Parse(cc, args)
	if err != nil {
		cfg.List.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	var q *eval.Query
	if cfg.Where != "" {
		q, err = eval.Compile(cfg.Where)
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
	}
	full, err := readHistory(cfg.MainConfig, cc, args)
	if err != nil {
		return err
	}
	return listHistory(cfg, cc.Out, full.Snapshots(), q)
}

func listHistory(cfg *ListConfig, w io.Writer, snaps []snapshot.FullSnapshot[*ir.Node], q *eval.Query) error {
	var idxs []int
	if q == nil {
		idxs = make([]int, len(snaps))
		for i := range idxs {
			idxs[i] = i
		}
	} else {
		var err error
		idxs, err = snapshot.Select(snaps, q, ir.ToAny)
		if err != nil {
			return err
		}
	}
	path := objPath(cfg.Path)
	for _, i := range idxs {
		s := &snaps[i]
		if _, err := fmt.Fprintf(w, "%d %s %s\n", i, s.Timestamp.Format(time.RFC3339Nano), s.Origin); err != nil {
			return err
		}
		if path == "" || s.State == nil {
			continue
		}
		if err := writePath(cfg.MainConfig, w, s.State, path); err != nil {
			return fmt.Errorf("snapshot %d: %w", i, err)
		}
	}
	return nil
}
