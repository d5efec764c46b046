package snapshot

import "log/slog"

type options struct {
	clock Clock
	log   *slog.Logger
}

// Option configures a history.
type Option func(*options)

// WithClock sets the clock used to timestamp pushed states.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithLogger sets the logger used to report history operations.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

func makeOptions(opts []Option) options {
	res := options{}
	for _, o := range opts {
		o(&res)
	}
	if res.clock == nil {
		res.clock = SystemClock
	}
	if res.log == nil {
		res.log = slog.Default()
	}
	return res
}

func (o options) list() []Option {
	return []Option{WithClock(o.clock), WithLogger(o.log)}
}
