package ir

import (
	"fmt"
	"strconv"
	"strings"
)

type StepKind int

const (
	FieldStep   StepKind = iota // .name or .'quoted name'
	IndexStep                   // [n]
	AllStep                     // [*]
	DescendStep                 // .. : this node and every descendant
)

// Step is one element of a Path.
type Step struct {
	Kind  StepKind
	Field string
	Index int
}

// Path is a parsed document path such as $.a[0].b, $.list[*] or $...name.
// The root path $ has no steps.
type Path []Step

func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, s := range p {
		switch s.Kind {
		case FieldStep:
			b.WriteByte('.')
			b.WriteString(quoteField(s.Field))
		case IndexStep:
			b.WriteString("[" + strconv.Itoa(s.Index) + "]")
		case AllStep:
			b.WriteString("[*]")
		case DescendStep:
			b.WriteString("..")
		}
	}
	return b.String()
}

func quoteField(f string) string {
	if f != "" && !strings.ContainsAny(f, ".['\\") {
		return f
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(f) + "'"
}

func ParsePath(p string) (Path, error) {
	if len(p) == 0 || p[0] != '$' {
		return nil, fmt.Errorf("%w: path %q should start with '$'", ErrPath, p)
	}
	var res Path
	rest := p[1:]
	for rest != "" {
		switch {
		case strings.HasPrefix(rest, ".."):
			res = append(res, Step{Kind: DescendStep})
			rest = rest[2:]
		case rest[0] == '.':
			f, r, err := parseField(rest[1:])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p, err)
			}
			res = append(res, Step{Kind: FieldStep, Field: f})
			rest = r
		case rest[0] == '[':
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				return nil, fmt.Errorf("%w: %s: expected '[' <index> ']'", ErrPath, p)
			}
			s, err := parseIndex(rest[1:end])
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrPath, p, err)
			}
			res = append(res, s)
			rest = rest[end+1:]
		default:
			return nil, fmt.Errorf("%w: %s: expected '.' or '[' at %q", ErrPath, p, rest)
		}
	}
	return res, nil
}

func parseIndex(s string) (Step, error) {
	if s == "*" {
		return Step{Kind: AllStep}, nil
	}
	u, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return Step{}, err
	}
	return Step{Kind: IndexStep, Index: int(u)}, nil
}

// parseField reads a field name at the start of s, either bare up to the
// next '.' or '[', or single quoted with backslash escapes.
func parseField(s string) (field, rest string, err error) {
	if s == "" {
		return "", "", fmt.Errorf("%w: expected field at end of path", ErrPath)
	}
	if s[0] != '\'' {
		i := strings.IndexAny(s, ".[")
		if i == -1 {
			return s, "", nil
		}
		return s[:i], s[i:], nil
	}
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			}
		case '\'':
			return b.String(), s[i+1:], nil
		default:
			b.WriteByte(c)
		}
	}
	return "", "", fmt.Errorf("%w: unterminated quoted field", ErrPath)
}

// GetPath returns a copy of the single value at yPath, or nil if an
// object along the way lacks the field.  Paths with [*] or .. select many
// values and are rejected; use ListPath for those.
func (y *Node) GetPath(yPath string) (*Node, error) {
	p, err := ParsePath(yPath)
	if err != nil {
		return nil, err
	}
	res := y
	for _, s := range p {
		switch s.Kind {
		case AllStep:
			return nil, fmt.Errorf("%w: any index in get", ErrPath)
		case DescendStep:
			return nil, fmt.Errorf("%w: recurse .. in get", ErrPath)
		case IndexStep:
			if res == nil || res.Type != ArrayType {
				return nil, fmt.Errorf("%w: expected array, got %s", ErrType, typeOf(res))
			}
			if s.Index >= len(res.Values) {
				return nil, fmt.Errorf("%w: index out of bounds %d (len %d)", ErrPath, s.Index, len(res.Values))
			}
			res = res.Values[s.Index]
		case FieldStep:
			if res == nil || res.Type != ObjectType {
				return nil, fmt.Errorf("%w: expected object, got %s", ErrType, typeOf(res))
			}
			res = Get(res, s.Field)
			if res == nil {
				return nil, nil
			}
		}
	}
	return res.Clone(), nil
}

func typeOf(y *Node) string {
	if y == nil {
		return "nothing"
	}
	return y.Type.String()
}

// ListPath appends copies of every value of y selected by yPath to dst.
// Steps which do not apply to a value select nothing below it.
func (y *Node) ListPath(dst []*Node, yPath string) ([]*Node, error) {
	p, err := ParsePath(yPath)
	if err != nil {
		return nil, err
	}
	return y.listPath(dst, p)
}

func (y *Node) listPath(dst []*Node, p Path) ([]*Node, error) {
	if y == nil {
		return dst, nil
	}
	if len(p) == 0 {
		return append(dst, y.Clone()), nil
	}
	s, rest := p[0], p[1:]
	var err error
	switch s.Kind {
	case DescendStep:
		err = y.Visit(func(node *Node) (bool, error) {
			dst, err = node.listPath(dst, rest)
			return err == nil, err
		})
	case FieldStep:
		if y.Type != ObjectType {
			break
		}
		for i, f := range y.Fields {
			if f == s.Field {
				if dst, err = y.Values[i].listPath(dst, rest); err != nil {
					break
				}
			}
		}
	case IndexStep:
		if y.Type == ArrayType && s.Index < len(y.Values) {
			dst, err = y.Values[s.Index].listPath(dst, rest)
		}
	case AllStep:
		if y.Type != ArrayType {
			break
		}
		for _, v := range y.Values {
			if dst, err = v.listPath(dst, rest); err != nil {
				break
			}
		}
	}
	if err != nil {
		return nil, err
	}
	return dst, nil
}
