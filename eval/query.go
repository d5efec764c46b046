package eval

import (
	"fmt"
	"time"

	"github.com/signadot/deltoid/debug"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Env is the environment a query is evaluated against: one history entry.
type Env struct {
	Index     int       `expr:"index"`
	Timestamp time.Time `expr:"timestamp"`
	Origin    string    `expr:"origin"`
	State     any       `expr:"state"`
}

// Query is a compiled boolean expression over an Env, for example
//
//	origin == "a" && getpath(state, "spec.replicas") > 2
type Query struct {
	src string
	prg *vm.Program
}

// Compile compiles src into a Query.  All registered symbols are
// available to src.
func Compile(src string) (*Query, error) {
	opts := []expr.Option{expr.Env(Env{}), expr.AsBool()}
	for _, s := range Symbols() {
		opts = append(opts, s.Option())
	}
	prg, err := expr.Compile(src, opts...)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", src, err)
	}
	return &Query{src: src, prg: prg}, nil
}

func (q *Query) String() string {
	return q.src
}

// Match evaluates q against env.
func (q *Query) Match(env Env) (bool, error) {
	res, err := expr.Run(q.prg, env)
	if err != nil {
		return false, fmt.Errorf("query %q at %d: %w", q.src, env.Index, err)
	}
	b, ok := res.(bool)
	if !ok {
		return false, fmt.Errorf("query %q returned %T", q.src, res)
	}
	if debug.History() {
		debug.Logf("query %q at %d origin %s: %t\n", q.src, env.Index, env.Origin, b)
	}
	return b, nil
}
