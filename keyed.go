package deltoid

import (
	"github.com/signadot/deltoid/debug"
)

// KeyedChange is the change of one map entry.  Exactly one of Edit, Insert
// and Remove is set; an entry with none set is a no-op.
type KeyedChange[V, D any] struct {
	Edit   *D   `json:"edit,omitempty" yaml:"edit,omitempty"`
	Insert *V   `json:"insert,omitempty" yaml:"insert,omitempty"`
	Remove bool `json:"remove,omitempty" yaml:"remove,omitempty"`
}

// KeyedDelta is the delta of a map.  Keys whose values are unchanged are
// absent.
type KeyedDelta[K comparable, V, D any] map[K]KeyedChange[V, D]

// IsNoop reports whether d records no change.
func (d KeyedDelta[K, V, D]) IsNoop() bool {
	for _, c := range d {
		if c.Edit != nil || c.Insert != nil || c.Remove {
			return false
		}
	}
	return true
}

// KeyedOps is the algebra of maps.
type KeyedOps[K comparable, V, D any] struct {
	Elem Ops[V, D]
}

// Keyed returns the algebra of maps with values of elem.
func Keyed[K comparable, V, D any](elem Ops[V, D]) KeyedOps[K, V, D] {
	return KeyedOps[K, V, D]{Elem: elem}
}

func (o KeyedOps[K, V, D]) Diff(a, b map[K]V) KeyedDelta[K, V, D] {
	res := KeyedDelta[K, V, D]{}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			res[k] = KeyedChange[V, D]{Remove: true}
			continue
		}
		if o.Elem.Equal(av, bv) {
			continue
		}
		ed := o.Elem.Diff(av, bv)
		res[k] = KeyedChange[V, D]{Edit: &ed}
	}
	for k, bv := range b {
		if _, ok := a[k]; ok {
			continue
		}
		v := o.Elem.Clone(bv)
		res[k] = KeyedChange[V, D]{Insert: &v}
	}
	if debug.Diff() {
		debug.Logf("keyed diff %d -> %d: %d changes\n", len(a), len(b), len(res))
	}
	return res
}

func (o KeyedOps[K, V, D]) Patch(a map[K]V, d KeyedDelta[K, V, D]) (map[K]V, error) {
	res := o.Clone(a)
	if res == nil && len(d) != 0 {
		res = make(map[K]V, len(d))
	}
	for k, c := range d {
		switch {
		case c.Remove:
			delete(res, k)
		case c.Insert != nil:
			res[k] = o.Elem.Clone(*c.Insert)
		case c.Edit != nil:
			av, ok := res[k]
			if !ok {
				return nil, expectedValue("keyed edit of missing key %v", k)
			}
			v, err := o.Elem.Patch(av, *c.Edit)
			if err != nil {
				return nil, err
			}
			res[k] = v
		}
	}
	return res, nil
}

func (o KeyedOps[K, V, D]) Equal(a, b map[K]V) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !o.Elem.Equal(av, bv) {
			return false
		}
	}
	return true
}

func (o KeyedOps[K, V, D]) Clone(v map[K]V) map[K]V {
	if v == nil {
		return nil
	}
	res := make(map[K]V, len(v))
	for k, x := range v {
		res[k] = o.Elem.Clone(x)
	}
	return res
}

func (o KeyedOps[K, V, D]) CloneDelta(d KeyedDelta[K, V, D]) KeyedDelta[K, V, D] {
	if d == nil {
		return nil
	}
	res := make(KeyedDelta[K, V, D], len(d))
	for k, c := range d {
		rc := KeyedChange[V, D]{Remove: c.Remove}
		if c.Insert != nil {
			v := o.Elem.Clone(*c.Insert)
			rc.Insert = &v
		}
		if c.Edit != nil {
			ed := o.Elem.CloneDelta(*c.Edit)
			rc.Edit = &ed
		}
		res[k] = rc
	}
	return res
}
