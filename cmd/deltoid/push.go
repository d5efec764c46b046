package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/scott-cotton/cli"
	"github.com/signadot/deltoid/system/histd"
)

func push(cfg *PushConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Push.Parse(cc, args)
	if err != nil {
		cfg.Push.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	addr := cfg.Addr
	if addr == "" {
		hc, err := histd.LoadConfig()
		if err != nil {
			return err
		}
		addr = hc.Addr
	}
	origin := cfg.Origin
	if origin == "" {
		origin = uuid.NewString()
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	ctx := context.Background()
	c, err := histd.Dial(ctx, addr)
	if err != nil {
		return err
	}
	defer c.Close()
	for _, arg := range args {
		doc, err := getObjFile(cfg.MainConfig, cc, arg)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", arg, err)
		}
		res, err := c.Push(ctx, origin, doc)
		if err != nil {
			return fmt.Errorf("error pushing %s: %w", arg, err)
		}
		if _, err := fmt.Fprintf(cc.Out, "%d %s\n", res.Index, origin); err != nil {
			return err
		}
	}
	return nil
}
