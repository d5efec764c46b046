package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/deltoid/codec"
	"github.com/signadot/deltoid/ir"
	"github.com/signadot/deltoid/parse"
)

func readArg(cc *cli.Context, path string) ([]byte, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	return d, nil
}

func getObjFile(cfg *MainConfig, cc *cli.Context, path string) (*ir.Node, error) {
	d, err := readArg(cc, path)
	if err != nil {
		return nil, err
	}
	return parse.Parse(d, parse.ParseFormat(cfg.inFormat(path)))
}

// getValue decodes the file at path into v.
func getValue(cfg *MainConfig, cc *cli.Context, path string, v any) error {
	d, err := readArg(cc, path)
	if err != nil {
		return err
	}
	if err := codec.Unmarshal(d, v, cfg.inFormat(path)); err != nil {
		return fmt.Errorf("error decoding %s: %w", path, err)
	}
	return nil
}
