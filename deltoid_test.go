package deltoid

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ptr[T any](v T) *T { return &v }

// checkLaws verifies the round trip and inverse laws for one pair of
// values and that patching leaves its input alone.
func checkLaws[T, D any](t *testing.T, o Ops[T, D], a, b T) {
	t.Helper()
	before := o.Clone(a)
	d := o.Diff(a, b)
	got, err := o.Patch(a, d)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if !o.Equal(got, b) {
		t.Errorf("patch(a, diff(a, b)) = %v, want %v", got, b)
	}
	if !o.Equal(a, before) {
		t.Errorf("patch modified its input: %v, was %v", a, before)
	}
	inv := InverseDiff(o, a, b)
	back, err := o.Patch(b, inv)
	if err != nil {
		t.Fatalf("patch inverse: %v", err)
	}
	if !o.Equal(back, a) {
		t.Errorf("patch(b, inverse(a, b)) = %v, want %v", back, a)
	}
	if !DeltaEqual(o.CloneDelta(d), d) {
		t.Errorf("cloned delta differs from %v", d)
	}
}

func TestLeafScenario(t *testing.T) {
	d := Int.Diff(5, 9)
	if diff := cmp.Diff(Replace(9), d); diff != "" {
		t.Errorf("delta (-want +got):\n%s", diff)
	}
	got, err := Int.Patch(5, d)
	if err != nil {
		t.Fatal(err)
	}
	if got != 9 {
		t.Errorf("got %d want 9", got)
	}
}

func TestLeafLaws(t *testing.T) {
	checkLaws(t, Bool, true, false)
	checkLaws(t, Float64, 1.5, -2)
	checkLaws(t, String, "hello", "he11o")
	checkLaws(t, Rune, 'a', 'z')
	checkLaws(t, Unit, struct{}{}, struct{}{})
	checkLaws(t, Uint8, 0, 255)
}

func TestLeafIdentity(t *testing.T) {
	// an empty leaf slot cannot be patched, so a leaf records itself
	if diff := cmp.Diff(Replace(7), Int.Diff(7, 7)); diff != "" {
		t.Errorf("identity (-want +got):\n%s", diff)
	}
}

func TestLeafEmptySlot(t *testing.T) {
	_, err := Int.Patch(3, LeafDelta[int]{})
	if !errors.Is(err, ErrExpectedValue) {
		t.Errorf("got %v want ErrExpectedValue", err)
	}
}

func TestSeqScenario(t *testing.T) {
	o := Seq(Int)
	a, b := []int{1, 2, 3}, []int{1, 5, 3, 7}
	d := o.Diff(a, b)
	want := SeqDelta[int, LeafDelta[int]]{
		Edits:  []SeqEdit[LeafDelta[int]]{{Index: 1, Delta: Replace(5)}},
		Append: []int{7},
	}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("delta (-want +got):\n%s", diff)
	}
	got, err := o.Patch(a, d)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(b, got); diff != "" {
		t.Errorf("patched (-want +got):\n%s", diff)
	}
}

func TestSeqLengths(t *testing.T) {
	o := Seq(Int)
	cases := []struct {
		a, b []int
	}{
		{nil, nil},
		{[]int{}, []int{1, 2}},
		{[]int{1, 2}, []int{}},
		{nil, []int{3}},
		{[]int{1, 2, 3, 4}, []int{1, 9}},
		{[]int{1}, []int{2, 3, 4, 5}},
		{[]int{1, 2, 3}, []int{1, 2, 3}},
	}
	for i, c := range cases {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			checkLaws(t, o, c.a, c.b)
			got, err := o.Patch(c.a, o.Diff(c.a, c.b))
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(c.b) {
				t.Errorf("got %v want %v", got, c.b)
			}
		})
	}
}

func TestSeqTruncateDelta(t *testing.T) {
	d := Seq(Int).Diff([]int{1, 2, 3}, []int{1})
	if d.Truncate == nil || *d.Truncate != 1 {
		t.Errorf("truncate = %v, want 1", d.Truncate)
	}
	if len(d.Edits) != 0 || len(d.Append) != 0 {
		t.Errorf("unexpected edits or appends: %+v", d)
	}
}

func TestSeqElision(t *testing.T) {
	o := Seq(Int)
	a := make([]int, 1000)
	for i := range a {
		a[i] = i
	}
	b := o.Clone(a)
	b[500] = -1
	d := o.Diff(a, b)
	if len(d.Edits) != 1 || d.Edits[0].Index != 500 {
		t.Errorf("edits = %+v, want one edit at 500", d.Edits)
	}
	if !o.Diff(a, a).IsNoop() {
		t.Errorf("diff(a, a) is not a no-op")
	}
}

func TestSeqBadEdit(t *testing.T) {
	o := Seq(Int)
	a := []int{1, 2}
	d := SeqDelta[int, LeafDelta[int]]{
		Edits: []SeqEdit[LeafDelta[int]]{{Index: 0, Delta: Replace(9)}, {Index: 5, Delta: Replace(1)}},
	}
	_, err := o.Patch(a, d)
	if !errors.Is(err, ErrExpectedValue) {
		t.Errorf("got %v want ErrExpectedValue", err)
	}
	if a[0] != 1 {
		t.Errorf("failed patch modified input: %v", a)
	}
}

func TestKeyedScenario(t *testing.T) {
	o := Keyed[string](Int)
	a := map[string]int{"x": 1, "y": 2}
	b := map[string]int{"x": 1, "z": 3}
	d := o.Diff(a, b)
	want := KeyedDelta[string, int, LeafDelta[int]]{
		"y": {Remove: true},
		"z": {Insert: ptr(3)},
	}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("delta (-want +got):\n%s", diff)
	}
	got, err := o.Patch(a, d)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(b, got); diff != "" {
		t.Errorf("patched (-want +got):\n%s", diff)
	}
	if _, ok := got["y"]; ok {
		t.Errorf("tombstoned key y survived")
	}
}

func TestKeyedLaws(t *testing.T) {
	o := Keyed[int](Seq(String))
	checkLaws(t, o, nil, map[int][]string{1: {"a"}})
	checkLaws(t, o, map[int][]string{1: {"a"}, 2: {"b", "c"}}, map[int][]string{2: {"b"}, 3: nil})
	checkLaws(t, o, map[int][]string{1: {"a"}}, map[int][]string{})
}

func TestKeyedUnseenKeys(t *testing.T) {
	o := Keyed[string](Int)
	d := KeyedDelta[string, int, LeafDelta[int]]{"a": {Edit: ptr(Replace(2))}}
	got, err := o.Patch(map[string]int{"a": 1, "b": 5}, d)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]int{"a": 2, "b": 5}, got); diff != "" {
		t.Errorf("patched (-want +got):\n%s", diff)
	}
}

func TestKeyedEditMissing(t *testing.T) {
	o := Keyed[string](Int)
	d := KeyedDelta[string, int, LeafDelta[int]]{"q": {Edit: ptr(Replace(2))}}
	_, err := o.Patch(map[string]int{}, d)
	if !errors.Is(err, ErrExpectedValue) {
		t.Errorf("got %v want ErrExpectedValue", err)
	}
}

func TestKeyedElision(t *testing.T) {
	o := Keyed[int](Int)
	a := map[int]int{}
	for i := range 1000 {
		a[i] = i
	}
	b := o.Clone(a)
	b[7] = 0
	if d := o.Diff(a, b); len(d) != 1 {
		t.Errorf("got %d changes want 1", len(d))
	}
	if !o.Diff(a, a).IsNoop() {
		t.Errorf("diff(a, a) is not a no-op")
	}
}

func TestOption(t *testing.T) {
	o := Optional(Seq(Int))
	cases := []struct {
		a, b *[]int
		op   OptionOp
	}{
		{nil, nil, OptionUnchanged},
		{nil, &[]int{1}, OptionInsert},
		{&[]int{1}, nil, OptionClear},
		{&[]int{1}, &[]int{1}, OptionUnchanged},
		{&[]int{1}, &[]int{1, 2}, OptionEdit},
	}
	for _, c := range cases {
		t.Run(c.op.String(), func(t *testing.T) {
			d := o.Diff(c.a, c.b)
			if d.Op != c.op {
				t.Errorf("op = %s want %s", d.Op, c.op)
			}
			checkLaws(t, o, c.a, c.b)
		})
	}
}

func TestOptionErrors(t *testing.T) {
	o := Optional(Int)
	if _, err := o.Patch(nil, OptionDelta[int, LeafDelta[int]]{Op: OptionInsert}); !errors.Is(err, ErrExpectedValue) {
		t.Errorf("insert without value: got %v", err)
	}
	edit := Replace(1)
	if _, err := o.Patch(nil, OptionDelta[int, LeafDelta[int]]{Op: OptionEdit, Edit: &edit}); !errors.Is(err, ErrExpectedValue) {
		t.Errorf("edit of absent: got %v", err)
	}
	got, err := o.Patch(ptr(4), OptionDelta[int, LeafDelta[int]]{Op: OptionClear})
	if err != nil || got != nil {
		t.Errorf("clear: got %v, %v", got, err)
	}
}

func TestOptionOpText(t *testing.T) {
	d := OptionDelta[int, LeafDelta[int]]{Op: OptionInsert, Value: ptr(3)}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"op":"insert","value":3}` {
		t.Errorf("got %s", data)
	}
	var back OptionDelta[int, LeafDelta[int]]
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(d, back); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestTuples(t *testing.T) {
	p := PairOf(Int, String)
	checkLaws(t, p, Pair[int, string]{1, "a"}, Pair[int, string]{2, "a"})
	d := p.Diff(Pair[int, string]{1, "a"}, Pair[int, string]{1, "a"})
	if diff := cmp.Diff(PairDelta[LeafDelta[int], LeafDelta[string]]{Replace(1), Replace("a")}, d); diff != "" {
		t.Errorf("pair identity (-want +got):\n%s", diff)
	}

	tr := TripleOf(Bool, Int, Seq(Int))
	checkLaws(t, tr,
		Triple[bool, int, []int]{true, 1, []int{1}},
		Triple[bool, int, []int]{false, 1, []int{1, 2}})

	arr := Array(3, Int)
	checkLaws(t, arr, []int{1, 2, 3}, []int{1, 0, 3})
	if _, err := arr.Patch([]int{1, 2, 3}, ArrayDelta[LeafDelta[int]]{Replace(1)}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("short tuple delta: got %v", err)
	}
}

func TestRange(t *testing.T) {
	o := RangeOf(Int64)
	checkLaws(t, o, Range[int64]{0, 10}, Range[int64]{5, 10})
	got, err := o.Patch(Range[int64]{0, 10}, o.Diff(Range[int64]{0, 10}, Range[int64]{3, 4}))
	if err != nil {
		t.Fatal(err)
	}
	if got != (Range[int64]{3, 4}) {
		t.Errorf("got %v", got)
	}
}

func TestShared(t *testing.T) {
	o := Shared(Seq(Int))
	a := &[]int{1, 2}
	alias := a
	if d := o.Diff(a, &[]int{1, 2}); d.Edit != nil {
		t.Errorf("value equal contents produced an edit: %+v", d)
	}
	b := &[]int{1, 3}
	d := o.Diff(a, b)
	got, err := o.Patch(a, d)
	if err != nil {
		t.Fatal(err)
	}
	if got == a {
		t.Errorf("patch did not copy on write")
	}
	if diff := cmp.Diff([]int{1, 2}, *alias); diff != "" {
		t.Errorf("alias changed (-want +got):\n%s", diff)
	}
	same, err := o.Patch(a, SharedDelta[SeqDelta[int, LeafDelta[int]]]{})
	if err != nil {
		t.Fatal(err)
	}
	if same == a {
		t.Error("unchanged patch returned its input")
	}
	if diff := cmp.Diff(*a, *same); diff != "" {
		t.Errorf("unchanged patch (-want +got):\n%s", diff)
	}
	checkLaws(t, o, a, b)
	checkLaws(t, o, nil, b)
}

func TestCell(t *testing.T) {
	o := CellOf(Keyed[string](Int))
	a := NewCell(map[string]int{"a": 1})
	b := NewCell(map[string]int{"a": 2, "b": 1})
	d := o.Diff(a, b)
	got, err := o.Patch(a, d)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(b.Load(), got.Load()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if a.Load()["a"] != 1 {
		t.Errorf("patch wrote through to the source cell")
	}
	checkLaws(t, o, a, b)
}

type shape interface{ area() float64 }

type circle struct{ R float64 }

type rect struct {
	W, H float64
}

func (c circle) area() float64 { return 3 * c.R * c.R }
func (r rect) area() float64   { return r.W * r.H }

func shapeOps() *UnionOps[shape] {
	circleOps := Struct(Field("r", func(c *circle) *float64 { return &c.R }, Float64))
	rectOps := Struct(
		Field("w", func(r *rect) *float64 { return &r.W }, Float64),
		Field("h", func(r *rect) *float64 { return &r.H }, Float64),
	)
	return Union(
		Case("circle",
			func(s shape) (circle, bool) { c, ok := s.(circle); return c, ok },
			func(c circle) shape { return c },
			circleOps),
		Case("rect",
			func(s shape) (rect, bool) { r, ok := s.(rect); return r, ok },
			func(r rect) shape { return r },
			rectOps),
	)
}

func TestUnion(t *testing.T) {
	o := shapeOps()
	checkLaws[shape](t, o, circle{1}, circle{2})
	checkLaws[shape](t, o, circle{1}, rect{2, 3})
	checkLaws[shape](t, o, nil, rect{2, 3})
	checkLaws[shape](t, o, rect{2, 3}, nil)

	d := o.Diff(circle{1}, rect{2, 3})
	if d.Variant != "rect" || d.Replace == nil || d.Edit != nil {
		t.Errorf("variant change delta = %+v", d)
	}
	d = o.Diff(rect{2, 3}, rect{2, 4})
	if d.Variant != "rect" || d.Replace != nil {
		t.Errorf("same variant delta = %+v", d)
	}
	if sd, ok := d.Edit.(StructDelta); !ok || len(sd) != 1 {
		t.Errorf("same variant edit = %#v, want one field", d.Edit)
	}
	if !o.Diff(rect{1, 1}, rect{1, 1}).IsNoop() {
		t.Errorf("identity is not a no-op")
	}
}

// TestUnionDecoded patches with deltas read back from JSON, whose payloads
// are generic trees rather than typed deltas.
func TestUnionDecoded(t *testing.T) {
	o := shapeOps()
	pairs := [][2]shape{
		{circle{1}, circle{2}},
		{circle{1}, rect{2, 3}},
		{rect{2, 3}, rect{5, 3}},
	}
	for _, p := range pairs {
		data, err := json.Marshal(o.Diff(p[0], p[1]))
		if err != nil {
			t.Fatal(err)
		}
		var d UnionDelta
		if err := json.Unmarshal(data, &d); err != nil {
			t.Fatal(err)
		}
		got, err := o.Patch(p[0], d)
		if err != nil {
			t.Fatalf("%s: %v", data, err)
		}
		if !o.Equal(got, p[1]) {
			t.Errorf("%s: got %v want %v", data, got, p[1])
		}
	}
}

func TestUnionWrongVariantEdit(t *testing.T) {
	o := shapeOps()
	d := o.Diff(rect{2, 3}, rect{2, 4})
	if _, err := o.Patch(circle{1}, d); !errors.Is(err, ErrExpectedValue) {
		t.Errorf("got %v want ErrExpectedValue", err)
	}
	if _, err := o.Patch(circle{1}, UnionDelta{Variant: "hexagon", Replace: 1}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("got %v want ErrShapeMismatch", err)
	}
}

type account struct {
	Name    string
	Tags    []string
	Balance *int
	Limits  map[string]int

	cache string
}

func accountOps() *StructOps[account] {
	return Struct(
		Field("name", func(a *account) *string { return &a.Name }, String),
		Field("tags", func(a *account) *[]string { return &a.Tags }, Seq(String)),
		Field("balance", func(a *account) **int { return &a.Balance }, Optional(Int)),
		Field("limits", func(a *account) *map[string]int { return &a.Limits }, Keyed[string](Int)),
		Ignore("cache", func(a *account) *string { return &a.cache }),
	)
}

func TestStruct(t *testing.T) {
	o := accountOps()
	a := account{Name: "ann", Tags: []string{"x"}, Balance: ptr(3), cache: "hot"}
	b := account{Name: "ann", Tags: []string{"x", "y"}, Limits: map[string]int{"day": 10}, cache: "cold"}
	checkLaws(t, o, a, b)

	d := o.Diff(a, b)
	if _, ok := d["name"]; ok {
		t.Errorf("unchanged field carried a delta")
	}
	if _, ok := d["cache"]; ok {
		t.Errorf("ignored field carried a delta")
	}
	if len(d) != 3 {
		t.Errorf("got %d field deltas want 3: %v", len(d), d)
	}
	got, err := o.Patch(a, d)
	if err != nil {
		t.Fatal(err)
	}
	if got.cache != "" {
		t.Errorf("ignored field = %q, want the zero value", got.cache)
	}
	if a.cache != "hot" {
		t.Errorf("patch modified input")
	}
}

func TestStructUnknownField(t *testing.T) {
	_, err := accountOps().Patch(account{}, StructDelta{"owner": Replace("x")})
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("got %v want ErrShapeMismatch", err)
	}
}

func TestNestedLaws(t *testing.T) {
	o := Keyed[string](Optional(Seq(PairOf(String, Shared(Int)))))
	type P = Pair[string, *int]
	a := map[string]*[]P{
		"a": {{"x", ptr(1)}, {"y", ptr(2)}},
		"b": nil,
		"c": {},
	}
	b := map[string]*[]P{
		"a": {{"x", ptr(1)}, {"y", ptr(3)}, {"z", nil}},
		"b": {{"w", ptr(0)}},
		"d": nil,
	}
	checkLaws(t, o, a, b)
	checkLaws(t, o, b, a)
	checkLaws(t, o, a, a)
}

func TestApply(t *testing.T) {
	o := Seq(Int)
	states := [][]int{{}, {1}, {1, 2}, {2}}
	ds := make([]SeqDelta[int, LeafDelta[int]], 0, len(states)-1)
	for i := 1; i < len(states); i++ {
		ds = append(ds, o.Diff(states[i-1], states[i]))
	}
	got, err := Apply[[]int](o, states[0], ds...)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{2}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestIntoFromDelta(t *testing.T) {
	type mapDelta = KeyedDelta[string, int, LeafDelta[int]]
	o := Keyed[string](Int)
	v := map[string]int{"a": 1, "b": 2}
	d := IntoDelta[map[string]int, mapDelta](o, v)
	if len(d) != 2 || d["a"].Insert == nil {
		t.Errorf("got %v want inserts of every key", d)
	}
	got, err := FromDelta[map[string]int, mapDelta](o, d)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(v, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
