// Package eval compiles and runs filter expressions over history entries.
//
// Expressions use the expr language (github.com/expr-lang/expr) and see
// the fields of [Env] as index, timestamp, origin and state.  State is a
// generic tree (maps, slices, scalars) which may be searched with the
// registered functions:
//
//   - getpath(state, "a.b.0") returns the value at a dotted path, or nil
//   - haspath(state, "a.b") reports whether the path exists
//   - getenv("NAME") returns an OS environment variable
//
// Additional functions may be added with [Register].
package eval
