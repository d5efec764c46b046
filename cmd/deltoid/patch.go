package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/deltoid/codec"
	"github.com/signadot/deltoid/libdiff"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a delta file", cli.ErrUsage)
	}
	var d *libdiff.Delta
	if err := getValue(cfg.MainConfig, cc, args[0], &d); err != nil {
		return err
	}
	args = args[1:]
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, arg := range args {
		doc, err := getObjFile(cfg.MainConfig, cc, arg)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", arg, err)
		}
		res, err := libdiff.Patch(doc, d)
		if err != nil {
			return fmt.Errorf("error patching %s: %w", arg, err)
		}
		if err := codec.Encode(cc.Out, res, cfg.outFormat(), cfg.encOpts(cc.Out)...); err != nil {
			return err
		}
	}
	return nil
}
