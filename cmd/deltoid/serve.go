package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"
	"github.com/signadot/deltoid/system/histd"
	"github.com/signadot/deltoid/system/histd/storage"
)

func serve(cfg *ServeConfig, cc *cli.Context, args []string) error {
	_, err := cfg.Serve.Parse(cc, args)
	if err != nil {
		return err
	}
	if err := agent.Listen(agent.Options{}); err != nil {
		theLog.Warn("gops agent", "error", err)
	}
	hc, err := histd.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.Addr != "" {
		hc.Addr = cfg.Addr
	}
	if cfg.DB != "" {
		hc.DB = cfg.DB
	}
	if cfg.Log != "" {
		hc.Log = cfg.Log
	}
	if cfg.Metrics != "" {
		hc.MetricsAddr = cfg.Metrics
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := storage.Open(hc.DB, theLog)
	if err != nil {
		return err
	}
	defer st.Close()
	srv, err := histd.New(ctx, &histd.Spec{Config: hc, Storage: st, Log: theLog})
	if err != nil {
		return err
	}
	defer srv.Close()

	l, err := net.Listen("tcp", hc.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", hc.Addr, err)
	}
	if hc.MetricsAddr != "" {
		ms := &http.Server{Addr: hc.MetricsAddr, Handler: srv.MetricsHandler()}
		go func() {
			if err := ms.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				theLog.Error("metrics server", "error", err)
			}
		}()
		defer ms.Shutdown(context.Background())
	}
	theLog.Info("serving history", "addr", l.Addr().String(), "db", hc.DB, "log", hc.Log)
	err = srv.Serve(ctx, l)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
