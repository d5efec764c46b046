package ir

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
)

// Node is one value of a document.  Which fields are meaningful depends
// on Type: Fields and Values for objects (Fields[i] names Values[i]),
// Values for arrays, exactly one of Int64, Uint64 and Float64 for numbers.
// Uint64 holds only integers above the int64 range.
type Node struct {
	Type   Type
	Fields []string
	Values []*Node

	String  string
	Bool    bool
	Int64   *int64
	Uint64  *uint64
	Float64 *float64
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromInt(v int64) *Node {
	return &Node{Type: NumberType, Int64: &v}
}

// FromUint returns an integer node, using Uint64 only when v does not
// fit an int64.
func FromUint(v uint64) *Node {
	if v <= math.MaxInt64 {
		return FromInt(int64(v))
	}
	return &Node{Type: NumberType, Uint64: &v}
}

func FromFloat(f float64) *Node {
	return &Node{Type: NumberType, Float64: &f}
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

func FromSlice(vs []*Node) *Node {
	res := &Node{Type: ArrayType, Values: make([]*Node, len(vs))}
	copy(res.Values, vs)
	return res
}

// KeyVal is one field of an object.
type KeyVal struct {
	Key string
	Val *Node
}

// FromKeyVals returns an object with the fields kvs, in order.
func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{
		Type:   ObjectType,
		Fields: make([]string, len(kvs)),
		Values: make([]*Node, len(kvs)),
	}
	for i := range kvs {
		res.Fields[i] = kvs[i].Key
		res.Values[i] = kvs[i].Val
	}
	return res
}

// FromMap returns an object with the fields of m in key order.
func FromMap(m map[string]*Node) *Node {
	keys := slices.Sorted(maps.Keys(m))
	kvs := make([]KeyVal, len(keys))
	for i, k := range keys {
		kvs[i] = KeyVal{Key: k, Val: m[k]}
	}
	return FromKeyVals(kvs)
}

// ToMap returns the fields of an object by name, or nil if node is not
// an object.  The values are shared with node.
func ToMap(node *Node) map[string]*Node {
	if node == nil || node.Type != ObjectType {
		return nil
	}
	res := make(map[string]*Node, len(node.Fields))
	for i, f := range node.Fields {
		res[f] = node.Values[i]
	}
	return res
}

// Get returns the value of field in the object node, or nil.
func Get(node *Node, field string) *Node {
	if node == nil || node.Type != ObjectType {
		return nil
	}
	for i, f := range node.Fields {
		if f == field {
			return node.Values[i]
		}
	}
	return nil
}

func (y *Node) Clone() *Node {
	if y == nil {
		return nil
	}
	res := &Node{
		Type:   y.Type,
		String: y.String,
		Bool:   y.Bool,
	}
	if y.Int64 != nil {
		i := *y.Int64
		res.Int64 = &i
	}
	if y.Uint64 != nil {
		u := *y.Uint64
		res.Uint64 = &u
	}
	if y.Float64 != nil {
		f := *y.Float64
		res.Float64 = &f
	}
	if y.Fields != nil {
		res.Fields = slices.Clone(y.Fields)
	}
	if y.Values != nil {
		res.Values = make([]*Node, len(y.Values))
		for i, v := range y.Values {
			res.Values[i] = v.Clone()
		}
	}
	return res
}

// Equal reports whether a and b are the same document.  Object fields
// are compared by name.  Integers and floats are different values even
// when numerically equal.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case NullType:
		return true
	case BoolType:
		return a.Bool == b.Bool
	case StringType:
		return a.String == b.String
	case NumberType:
		switch {
		case a.Int64 != nil && b.Int64 != nil:
			return *a.Int64 == *b.Int64
		case a.Uint64 != nil && b.Uint64 != nil:
			return *a.Uint64 == *b.Uint64
		case a.Float64 != nil && b.Float64 != nil:
			return *a.Float64 == *b.Float64
		}
		return false
	case ArrayType:
		if len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if !Equal(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	case ObjectType:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		bm := ToMap(b)
		for i, f := range a.Fields {
			bv, ok := bm[f]
			if !ok || !Equal(a.Values[i], bv) {
				return false
			}
		}
		return true
	}
	return false
}

// Visit calls f on y and its descendants, parents first.  When f returns
// false the children of the node are skipped.
func (y *Node) Visit(f func(node *Node) (bool, error)) error {
	descend, err := f(y)
	if err != nil || !descend {
		return err
	}
	for _, v := range y.Values {
		if err := v.Visit(f); err != nil {
			return err
		}
	}
	return nil
}

// FromAny builds a document from the generic values produced by decoders:
// nil, booleans, numbers, strings, []any and map[string]any.  Map fields
// are ordered by key.
func FromAny(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		return x.Clone(), nil
	case bool:
		return FromBool(x), nil
	case string:
		return FromString(x), nil
	case json.Number:
		return numberFromText(string(x))
	case float32:
		return FromFloat(float64(x)), nil
	case float64:
		return FromFloat(x), nil
	case []any:
		vs := make([]*Node, len(x))
		for i, e := range x {
			n, err := FromAny(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			vs[i] = n
		}
		return FromSlice(vs), nil
	case map[string]any:
		m := make(map[string]*Node, len(x))
		for k, e := range x {
			n, err := FromAny(e)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			m[k] = n
		}
		return FromMap(m), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return FromInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return FromUint(rv.Uint()), nil
	}
	return nil, fmt.Errorf("%w: cannot convert %T", ErrType, v)
}

// ToAny returns the generic form of y: nil, bool, int64, float64, string,
// []any or map[string]any.
func ToAny(y *Node) any {
	if y == nil {
		return nil
	}
	switch y.Type {
	case BoolType:
		return y.Bool
	case StringType:
		return y.String
	case NumberType:
		if y.Int64 != nil {
			return *y.Int64
		}
		if y.Uint64 != nil {
			return *y.Uint64
		}
		if y.Float64 != nil {
			return *y.Float64
		}
	case ArrayType:
		res := make([]any, len(y.Values))
		for i, v := range y.Values {
			res[i] = ToAny(v)
		}
		return res
	case ObjectType:
		res := make(map[string]any, len(y.Fields))
		for i, f := range y.Fields {
			res[f] = ToAny(y.Values[i])
		}
		return res
	}
	return nil
}
