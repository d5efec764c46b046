package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	"github.com/signadot/deltoid/codec"
	"github.com/signadot/deltoid/encode"
	"github.com/signadot/deltoid/ir"
	"github.com/signadot/deltoid/libdiff"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	if cfg.JSONPatch && cfg.Text {
		return fmt.Errorf("%w: at most one of -jsonpatch -text", cli.ErrUsage)
	}
	a, err := getObjFile(cfg.MainConfig, cc, args[0])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	b, err := getObjFile(cfg.MainConfig, cc, args[1])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	differs, err := diffDocs(cfg, cc.Out, a, b)
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// diffDocs writes the difference from a to b to w and reports whether
// there is one.
func diffDocs(cfg *DiffConfig, w io.Writer, a, b *ir.Node) (bool, error) {
	if cfg.Reverse {
		a, b = b, a
	}
	if cfg.Text {
		return textDiff(cfg, w, a, b)
	}
	d := libdiff.Diff(a, b)
	if d == nil {
		return false, nil
	}
	if cfg.JSONPatch {
		ops, err := libdiff.JSONPatch(a, d)
		if err != nil {
			return false, err
		}
		data, err := json.MarshalIndent(ops, "", "  ")
		if err != nil {
			return false, err
		}
		_, err = w.Write(append(data, '\n'))
		return true, err
	}
	if err := codec.Encode(w, d, cfg.outFormat(), cfg.encOpts(w)...); err != nil {
		return false, err
	}
	return true, nil
}

func textDiff(cfg *DiffConfig, w io.Writer, a, b *ir.Node) (bool, error) {
	var ta, tb bytes.Buffer
	f := encode.EncodeFormat(cfg.outFormat())
	if err := encode.Encode(a, &ta, f); err != nil {
		return false, err
	}
	if err := encode.Encode(b, &tb, f); err != nil {
		return false, err
	}
	lines := libdiff.TextDiff(ta.String(), tb.String())
	differs := false
	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)
	if !cfg.colors(w) {
		del.DisableColor()
		ins.DisableColor()
	}
	for _, l := range lines {
		var err error
		switch l.Op {
		case libdiff.LineDelete:
			differs = true
			_, err = del.Fprintln(w, l.String())
		case libdiff.LineInsert:
			differs = true
			_, err = ins.Fprintln(w, l.String())
		default:
			_, err = fmt.Fprintln(w, l.String())
		}
		if err != nil {
			return false, err
		}
	}
	return differs, nil
}
