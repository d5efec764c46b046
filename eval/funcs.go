package eval

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func GetPath() Symbol {
	return Func("getpath", func(params ...any) (any, error) {
		v, _, err := walk(params[0], params[1].(string))
		return v, err
	}, new(func(any, string) any))
}

func HasPath() Symbol {
	return Func("haspath", func(params ...any) (any, error) {
		_, ok, err := walk(params[0], params[1].(string))
		if err != nil {
			return false, nil
		}
		return ok, nil
	}, new(func(any, string) bool))
}

func GetEnv() Symbol {
	return Func("getenv", func(params ...any) (any, error) {
		return os.Getenv(params[0].(string)), nil
	}, new(func(string) string))
}

// walk follows a dotted path such as "spec.ports.0.name" through maps and
// slices.  A missing key yields (nil, false, nil); indexing a scalar is an
// error.
func walk(v any, path string) (any, bool, error) {
	if path == "" || path == "." {
		return v, true, nil
	}
	for _, part := range strings.Split(strings.TrimPrefix(path, "."), ".") {
		switch x := v.(type) {
		case map[string]any:
			next, ok := x[part]
			if !ok {
				return nil, false, nil
			}
			v = next
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil {
				return nil, false, fmt.Errorf("index %q of array: %w", part, err)
			}
			if i < 0 || i >= len(x) {
				return nil, false, nil
			}
			v = x[i]
		case nil:
			return nil, false, nil
		default:
			return nil, false, fmt.Errorf("cannot select %q from %T", part, v)
		}
	}
	return v, true, nil
}
