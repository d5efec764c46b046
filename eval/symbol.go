package eval

import "github.com/expr-lang/expr"

// Symbol is a named function made available to query expressions.
type Symbol interface {
	String() string
	Option() expr.Option
}

type name string

func (s name) String() string {
	return string(s)
}

type funcSymbol struct {
	name
	fn    func(params ...any) (any, error)
	types []any
}

// Func returns a symbol binding fn under n.  types are the typed
// signatures used by the expression checker, as for expr.Function.
func Func(n string, fn func(params ...any) (any, error), types ...any) Symbol {
	return &funcSymbol{name: name(n), fn: fn, types: types}
}

func (s *funcSymbol) Option() expr.Option {
	return expr.Function(string(s.name), s.fn, s.types...)
}
