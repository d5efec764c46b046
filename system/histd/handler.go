package histd

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/signadot/deltoid"
	"github.com/signadot/deltoid/debug"
	"github.com/signadot/deltoid/system/histd/api"
	"go.lsp.dev/jsonrpc2"
)

func newConn(ctx context.Context, rwc io.ReadWriteCloser, h jsonrpc2.Handler) jsonrpc2.Conn {
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	conn.Go(ctx, h)
	return conn
}

func (s *Server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	if debug.RPC() {
		debug.Logf("rpc %s %s\n", req.Method(), string(req.Params()))
	}
	s.metrics.requests.WithLabelValues(req.Method()).Inc()
	switch req.Method() {
	case api.MethodPush:
		var p api.PushParams
		if err := params(req, &p); err != nil {
			return reply(ctx, nil, err)
		}
		res, err := s.Push(ctx, p.Origin, p.State)
		if err != nil {
			return reply(ctx, nil, rpcError(err))
		}
		return reply(ctx, res, nil)
	case api.MethodCurrent:
		return reply(ctx, s.Current(), nil)
	case api.MethodSince:
		var p api.SinceParams
		if err := params(req, &p); err != nil {
			return reply(ctx, nil, err)
		}
		res, err := s.Since(p.Index)
		if err != nil {
			return reply(ctx, nil, rpcError(err))
		}
		return reply(ctx, res, nil)
	case api.MethodLen:
		return reply(ctx, api.LenResult{Len: s.Len()}, nil)
	case api.MethodClear:
		if err := s.Clear(ctx); err != nil {
			return reply(ctx, nil, rpcError(err))
		}
		return reply(ctx, nil, nil)
	}
	return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
}

func params(req jsonrpc2.Request, v any) error {
	p := req.Params()
	if len(p) == 0 {
		return nil
	}
	if err := json.Unmarshal(p, v); err != nil {
		return jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error())
	}
	return nil
}

func rpcError(err error) error {
	code := jsonrpc2.InternalError
	switch {
	case errors.Is(err, deltoid.ErrExpectedValue):
		code = jsonrpc2.InvalidParams
	case errors.Is(err, deltoid.ErrShapeMismatch), errors.Is(err, ErrClosed):
		code = api.CodeRejected
	}
	return jsonrpc2.NewError(code, err.Error())
}
