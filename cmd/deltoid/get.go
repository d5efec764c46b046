package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"
	"github.com/signadot/deltoid/encode"
	"github.com/signadot/deltoid/ir"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, an object path", cli.ErrUsage)
	}
	path := objPath(args[0])
	if path == "" {
		return fmt.Errorf("%w: invalid query \"\"", cli.ErrUsage)
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
		if err := writePath(cfg.MainConfig, cc.Out, doc, path); err != nil {
			return fmt.Errorf("error querying %s with %s: %w", arg, path, err)
		}
	}
	return nil
}

func objPath(p string) string {
	if p == "" || p[0] == '$' {
		return p
	}
	if p[0] != '.' && p[0] != '[' {
		p = "." + p
	}
	return "$" + p
}

// writePath writes every value of doc at path, one document each.
func writePath(cfg *MainConfig, w io.Writer, doc *ir.Node, path string) error {
	vs, err := doc.ListPath(nil, path)
	if err != nil {
		return err
	}
	for _, v := range vs {
		if err := encode.Encode(v, w, cfg.encOpts(w)...); err != nil {
			return err
		}
	}
	return nil
}
