package histd

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/signadot/deltoid/ir"
	"github.com/signadot/deltoid/system/histd/api"
	"go.lsp.dev/jsonrpc2"
)

type Client struct {
	conn jsonrpc2.Conn
}

// Dial connects to the server listening on addr.
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return NewClient(ctx, c), nil
}

// NewClient returns a client speaking over rwc.
func NewClient(ctx context.Context, rwc io.ReadWriteCloser) *Client {
	return &Client{conn: newConn(ctx, rwc, jsonrpc2.MethodNotFoundHandler)}
}

func (c *Client) call(ctx context.Context, method string, params, result any) error {
	if _, err := c.conn.Call(ctx, method, params, result); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

// Push sends state as the new document of the server, labeled with
// origin.
func (c *Client) Push(ctx context.Context, origin string, state *ir.Node) (api.PushResult, error) {
	var res api.PushResult
	err := c.call(ctx, api.MethodPush, api.PushParams{Origin: origin, State: state}, &res)
	return res, err
}

func (c *Client) Current(ctx context.Context) (api.State, error) {
	var res api.State
	err := c.call(ctx, api.MethodCurrent, nil, &res)
	return res, err
}

func (c *Client) Since(ctx context.Context, i int) (api.SinceResult, error) {
	var res api.SinceResult
	err := c.call(ctx, api.MethodSince, api.SinceParams{Index: i}, &res)
	return res, err
}

func (c *Client) Len(ctx context.Context) (int, error) {
	var res api.LenResult
	err := c.call(ctx, api.MethodLen, nil, &res)
	return res.Len, err
}

func (c *Client) Clear(ctx context.Context) error {
	return c.call(ctx, api.MethodClear, nil, nil)
}

func (c *Client) Close() error {
	return c.conn.Close()
}
