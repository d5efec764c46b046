package ir

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type pathTest struct {
	Path  string
	Doc   string
	Res   any
	NoGet bool
}

var pathTests = []pathTest{
	{
		Path: "$",
		Doc:  "null",
		Res:  nil,
	},
	{
		Path: "$.f",
		Doc:  `{"f": 1}`,
		Res:  int64(1),
	},
	{
		Path: "$[0]",
		Doc:  "[1,2,3]",
		Res:  int64(1),
	},
	{
		Path: "$",
		Doc:  "[1,2,3]",
		Res:  []any{int64(1), int64(2), int64(3)},
	},
	{
		Path: "$[1].f",
		Doc:  `[0, {"f": 2, "g": 3}]`,
		Res:  int64(2),
	},
	{
		Path: "$.f[3]",
		Doc:  `{"a": [1,2], "f": [0,1,2,"three"]}`,
		Res:  "three",
	},
	{
		Path: "$.'f[3]'[2]",
		Doc:  `{"a": [1,2], "f[3]": [0,1,2,"three"]}`,
		Res:  int64(2),
	},
	{
		Path: "$.'$f[\\'3]'[2]",
		Doc:  `{"a": [1,2], "$f['3]": [0,1,2,"three"]}`,
		Res:  int64(2),
	},
	{
		NoGet: true,
		Path:  "$[*]",
		Doc:   "[1,2,3]",
		Res:   []any{int64(1), int64(2), int64(3)},
	},
	{
		NoGet: true,
		Path:  "$.a[*]",
		Doc:   `{"b": [1,2,3]}`,
		Res:   []any{},
	},
	{
		NoGet: true,
		Path:  "$.b[*]",
		Doc:   `{"b": [1,2,3]}`,
		Res:   []any{int64(1), int64(2), int64(3)},
	},
	{
		NoGet: true,
		Path:  "$.c.d.a",
		Doc:   `{"a": "b", "c": {"d": 2, "a": 3}}`,
		Res:   []any{},
	},
	{
		NoGet: true,
		Path:  "$...a",
		Doc:   `{"a": "b", "c": {"d": 2, "a": 3}}`,
		Res:   []any{"b", int64(3)},
	},
	{
		NoGet: true,
		Path:  "$.c...a",
		Doc:   `{"a": "b", "c": {"d": 2, "a": 3}}`,
		Res:   []any{int64(3)},
	},
	{
		NoGet: true,
		Path:  "$.c...x",
		Doc:   `{"a": "b", "c": {"d": 2, "a": 3}}`,
		Res:   []any{},
	},
}

func mustJSON(t *testing.T, doc string) *Node {
	t.Helper()
	n := &Node{}
	if err := n.UnmarshalJSON([]byte(doc)); err != nil {
		t.Fatalf("decode %q: %v", doc, err)
	}
	return n
}

func TestPathGet(t *testing.T) {
	for i := range pathTests {
		pathTest := &pathTests[i]
		if pathTest.NoGet {
			continue
		}
		node := mustJSON(t, pathTest.Doc)
		res, err := node.GetPath(pathTest.Path)
		if err != nil {
			t.Errorf("%s: %v", pathTest.Path, err)
			continue
		}
		if res == nil {
			t.Errorf("%s: no result", pathTest.Path)
			continue
		}
		if diff := cmp.Diff(pathTest.Res, ToAny(res)); diff != "" {
			t.Errorf("%s on %s (-want +got):\n%s", pathTest.Path, pathTest.Doc, diff)
		}
	}
}

func TestPathList(t *testing.T) {
	for i := range pathTests {
		pathTest := &pathTests[i]
		in := mustJSON(t, pathTest.Doc)
		lst, err := in.ListPath(nil, pathTest.Path)
		if err != nil {
			t.Errorf("%s: %v", pathTest.Path, err)
			continue
		}
		if !pathTest.NoGet {
			if len(lst) != 1 {
				t.Errorf("%s: listed %d values", pathTest.Path, len(lst))
				continue
			}
			if diff := cmp.Diff(pathTest.Res, ToAny(lst[0])); diff != "" {
				t.Errorf("%s (-want +got):\n%s", pathTest.Path, diff)
			}
			continue
		}
		if diff := cmp.Diff(pathTest.Res, ToAny(FromSlice(lst))); diff != "" {
			t.Errorf("%s on %s (-want +got):\n%s", pathTest.Path, pathTest.Doc, diff)
		}
	}
}

func TestPathString(t *testing.T) {
	for _, p := range []string{"$", "$.a.b", "$[3].c", "$.a[*]", "$.a...b"} {
		pp, err := ParsePath(p)
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if pp.String() != p {
			t.Errorf("got %q want %q", pp.String(), p)
		}
	}
}
