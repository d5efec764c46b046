package libdiff

import (
	"sync"

	"github.com/signadot/deltoid"
	"github.com/signadot/deltoid/debug"
	"github.com/signadot/deltoid/ir"
)

type docOps struct{}

// Ops returns the algebra of documents.  A nil document is the absent
// document: diffing to nil removes the document and patching nil inserts
// one.
func Ops() deltoid.Ops[*ir.Node, *Delta] {
	return docOps{}
}

// Diff computes the delta from a to b, nil if they are equal.
func Diff(a, b *ir.Node) *Delta {
	return docOps{}.Diff(a, b)
}

// Patch applies d to a copy of doc.
func Patch(doc *ir.Node, d *Delta) (*ir.Node, error) {
	return docOps{}.Patch(doc, d)
}

var (
	unionOnce sync.Once
	union     *deltoid.UnionOps[*ir.Node]
)

func nodeUnion() *deltoid.UnionOps[*ir.Node] {
	unionOnce.Do(func() {
		union = deltoid.Union(
			deltoid.Case[*ir.Node, struct{}, deltoid.LeafDelta[struct{}]](NullVariant,
				func(n *ir.Node) (struct{}, bool) { return struct{}{}, is(n, ir.NullType) },
				func(struct{}) *ir.Node { return ir.Null() },
				deltoid.Unit),
			deltoid.Case[*ir.Node, bool, deltoid.LeafDelta[bool]](BoolVariant,
				func(n *ir.Node) (bool, bool) {
					if !is(n, ir.BoolType) {
						return false, false
					}
					return n.Bool, true
				},
				ir.FromBool,
				deltoid.Bool),
			deltoid.Case[*ir.Node, int64, deltoid.LeafDelta[int64]](IntVariant,
				func(n *ir.Node) (int64, bool) {
					if !is(n, ir.NumberType) || n.Int64 == nil {
						return 0, false
					}
					return *n.Int64, true
				},
				ir.FromInt,
				deltoid.Int64),
			deltoid.Case[*ir.Node, uint64, deltoid.LeafDelta[uint64]](UintVariant,
				func(n *ir.Node) (uint64, bool) {
					if !is(n, ir.NumberType) || n.Uint64 == nil {
						return 0, false
					}
					return *n.Uint64, true
				},
				ir.FromUint,
				deltoid.Uint64),
			deltoid.Case[*ir.Node, float64, deltoid.LeafDelta[float64]](FloatVariant,
				func(n *ir.Node) (float64, bool) {
					if !is(n, ir.NumberType) || n.Float64 == nil {
						return 0, false
					}
					return *n.Float64, true
				},
				ir.FromFloat,
				deltoid.Float64),
			deltoid.Case[*ir.Node, string, deltoid.LeafDelta[string]](StringVariant,
				func(n *ir.Node) (string, bool) {
					if !is(n, ir.StringType) {
						return "", false
					}
					return n.String, true
				},
				ir.FromString,
				deltoid.String),
			deltoid.Case[*ir.Node, *ir.Node, ArrayDelta](ArrayVariant,
				self(ir.ArrayType),
				func(n *ir.Node) *ir.Node { return orEmpty(n, ir.ArrayType) },
				arrayOps{seq: deltoid.Seq[*ir.Node, *Delta](docOps{})}),
			deltoid.Case[*ir.Node, *ir.Node, ObjectDelta](ObjectVariant,
				self(ir.ObjectType),
				func(n *ir.Node) *ir.Node { return orEmpty(n, ir.ObjectType) },
				objectOps{keyed: deltoid.Keyed[string, *ir.Node, *Delta](docOps{})}),
		)
	})
	return union
}

func is(n *ir.Node, t ir.Type) bool {
	return n != nil && n.Type == t
}

func self(t ir.Type) func(*ir.Node) (*ir.Node, bool) {
	return func(n *ir.Node) (*ir.Node, bool) {
		if !is(n, t) {
			return nil, false
		}
		return n, true
	}
}

// orEmpty stands in an empty container for a payload decoded as null.
func orEmpty(n *ir.Node, t ir.Type) *ir.Node {
	if n != nil {
		return n
	}
	if t == ir.ArrayType {
		return ir.FromSlice(nil)
	}
	return ir.FromKeyVals(nil)
}

func (docOps) Diff(a, b *ir.Node) *Delta {
	if ir.Equal(a, b) {
		return nil
	}
	d := &Delta{UnionDelta: nodeUnion().Diff(a, b)}
	if debug.Diff() {
		debug.Logf("doc diff: %s\n", d)
	}
	return d
}

func (docOps) Patch(a *ir.Node, d *Delta) (*ir.Node, error) {
	if d == nil {
		return a.Clone(), nil
	}
	if debug.Patch() {
		debug.Logf("doc patch: %s\n", d)
	}
	return nodeUnion().Patch(a, d.UnionDelta)
}

func (docOps) Equal(a, b *ir.Node) bool {
	return ir.Equal(a, b)
}

func (docOps) Clone(v *ir.Node) *ir.Node {
	return v.Clone()
}

func (docOps) CloneDelta(d *Delta) *Delta {
	if d == nil {
		return nil
	}
	return &Delta{UnionDelta: nodeUnion().CloneDelta(d.UnionDelta)}
}

type arrayOps struct {
	seq deltoid.SeqOps[*ir.Node, *Delta]
}

func (o arrayOps) Diff(a, b *ir.Node) ArrayDelta {
	return o.seq.Diff(a.Values, b.Values)
}

func (o arrayOps) Patch(a *ir.Node, d ArrayDelta) (*ir.Node, error) {
	vs, err := o.seq.Patch(a.Values, d)
	if err != nil {
		return nil, err
	}
	for i := range vs {
		// a null element decodes as a nil node
		if vs[i] == nil {
			vs[i] = ir.Null()
		}
	}
	return ir.FromSlice(vs), nil
}

func (o arrayOps) Equal(a, b *ir.Node) bool  { return ir.Equal(a, b) }
func (o arrayOps) Clone(v *ir.Node) *ir.Node { return v.Clone() }

func (o arrayOps) CloneDelta(d ArrayDelta) ArrayDelta {
	return o.seq.CloneDelta(d)
}

type objectOps struct {
	keyed deltoid.KeyedOps[string, *ir.Node, *Delta]
}

func (o objectOps) Diff(a, b *ir.Node) ObjectDelta {
	return o.keyed.Diff(ir.ToMap(a), ir.ToMap(b))
}

// Patch keeps the surviving fields of a in their order and adds inserted
// fields after them in key order.
func (o objectOps) Patch(a *ir.Node, d ObjectDelta) (*ir.Node, error) {
	m, err := o.keyed.Patch(ir.ToMap(a), withNulls(d))
	if err != nil {
		return nil, err
	}
	kvs := make([]ir.KeyVal, 0, len(m))
	for _, f := range a.Fields {
		if v, ok := m[f]; ok {
			kvs = append(kvs, ir.KeyVal{Key: f, Val: v})
			delete(m, f)
		}
	}
	rest := ir.FromMap(m)
	for i, f := range rest.Fields {
		kvs = append(kvs, ir.KeyVal{Key: f, Val: rest.Values[i]})
	}
	return ir.FromKeyVals(kvs), nil
}

func (o objectOps) Equal(a, b *ir.Node) bool  { return ir.Equal(a, b) }
func (o objectOps) Clone(v *ir.Node) *ir.Node { return v.Clone() }

func (o objectOps) CloneDelta(d ObjectDelta) ObjectDelta {
	return o.keyed.CloneDelta(d)
}

// withNulls restores inserted null values, which decode as changes with
// nothing set.  Diff never produces such changes.
func withNulls(d ObjectDelta) ObjectDelta {
	var res ObjectDelta
	for k, c := range d {
		if c.Edit != nil || c.Insert != nil || c.Remove {
			continue
		}
		if res == nil {
			res = make(ObjectDelta, len(d))
			for k2, c2 := range d {
				res[k2] = c2
			}
		}
		null := ir.Null()
		res[k] = deltoid.KeyedChange[*ir.Node, *Delta]{Insert: &null}
	}
	if res == nil {
		return d
	}
	return res
}
