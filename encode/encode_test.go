package encode

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/deltoid/format"
	"github.com/signadot/deltoid/ir"
	"github.com/signadot/deltoid/parse"
)

func obj(kvs ...any) *ir.Node {
	res := make([]ir.KeyVal, 0, len(kvs)/2)
	for i := 0; i < len(kvs); i += 2 {
		res = append(res, ir.KeyVal{Key: kvs[i].(string), Val: kvs[i+1].(*ir.Node)})
	}
	return ir.FromKeyVals(res)
}

func arr(vs ...*ir.Node) *ir.Node {
	return ir.FromSlice(vs)
}

func docs() []*ir.Node {
	return []*ir.Node{
		ir.Null(),
		ir.FromInt(-3),
		ir.FromFloat(2),
		ir.FromString(""),
		ir.FromString("true"),
		ir.FromString("12"),
		ir.FromString("a: b # c"),
		ir.FromString("two\nlines"),
		ir.FromString("- dash"),
		arr(),
		obj(),
		obj(
			"name", ir.FromString("alice"),
			"tags", arr(ir.FromString("x"), ir.FromString("y")),
			"empty", obj(),
			"none", arr(),
			"null", ir.Null(),
		),
		arr(
			obj("a", ir.FromInt(1), "b", obj("c", ir.FromBool(false))),
			arr(ir.FromInt(1), arr(ir.FromInt(2), ir.FromInt(3))),
			ir.FromFloat(0.5),
		),
		obj("z", obj("y", obj("x", arr(obj("w", ir.FromString("deep")))))),
	}
}

func TestRoundTrip(t *testing.T) {
	for _, f := range format.AllFormats() {
		for i, doc := range docs() {
			var buf bytes.Buffer
			if err := Encode(doc, &buf, EncodeFormat(f)); err != nil {
				t.Fatalf("%s %d: %v", f, i, err)
			}
			got, err := parse.Parse(buf.Bytes(), parse.ParseFormat(f))
			if err != nil {
				t.Fatalf("%s %d: %v\n%s", f, i, err, buf.String())
			}
			if !ir.Equal(doc, got) {
				t.Errorf("%s %d: got\n%s", f, i, buf.String())
			}
			if diff := cmp.Diff(doc.Fields, got.Fields); diff != "" {
				t.Errorf("%s %d: field order (-want +got)\n%s", f, i, diff)
			}
		}
	}
}

func TestYAMLLayout(t *testing.T) {
	doc := obj(
		"a", ir.FromInt(1),
		"b", arr(obj("c", ir.FromString("d"), "e", arr()), ir.FromBool(true)),
		"f", obj("g", ir.Null()),
	)
	want := strings.Join([]string{
		"a: 1",
		"b:",
		"  - c: d",
		"    e: []",
		"  - true",
		"f:",
		"  g: null",
	}, "\n")
	if diff := cmp.Diff(want, MustString(doc)); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestJSONLayout(t *testing.T) {
	doc := obj("a", arr(ir.FromInt(1), ir.FromFloat(1)), "b", obj())
	want := strings.Join([]string{
		"{",
		`  "a": [`,
		"    1,",
		"    1.0",
		"  ],",
		`  "b": {}`,
		"}",
	}, "\n")
	if diff := cmp.Diff(want, JSONString(doc)); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestNonFinite(t *testing.T) {
	doc := arr(ir.FromFloat(math.Inf(1)), ir.FromFloat(math.Inf(-1)), ir.FromFloat(math.NaN()))
	if diff := cmp.Diff("- .inf\n- -.inf\n- .nan", MustString(doc)); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	var buf bytes.Buffer
	err := Encode(doc, &buf, EncodeFormat(format.JSONFormat))
	if !errors.Is(err, ErrEncoding) {
		t.Errorf("got %v", err)
	}
}

func TestColors(t *testing.T) {
	colors := &Colors{
		Default: colorDefault,
		Map: map[Colorable]func(string, ...any) string{
			{Type: ir.ObjectType, Attr: FieldColor}: func(s string, _ ...any) string { return "<" + s + ">" },
		},
	}
	got := MustString(obj("k", ir.FromString("v")), EncodeColors(colors))
	if got != "<k>: v" {
		t.Errorf("got %q", got)
	}
	if NewColors().Get(ir.ObjectType, FieldColor) == nil {
		t.Error("no field color")
	}
}
