package parse

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/deltoid/format"
	"github.com/signadot/deltoid/ir"
)

type parseTest struct {
	in   string
	f    format.Format
	want any
	e    error
}

func TestParse(t *testing.T) {
	tests := []parseTest{
		{in: "", want: nil},
		{in: "null", want: nil},
		{in: "a: 1\nb: [x, true, 2.5]\n", want: map[string]any{
			"a": int64(1),
			"b": []any{"x", true, 2.5},
		}},
		{in: "- 1\n- {k: v}\n- []\n", want: []any{int64(1), map[string]any{"k": "v"}, []any{}}},
		{in: "3: three\ntrue: t\n", want: map[string]any{"3": "three", "true": "t"}},
		{in: "s: \"quoted: text\"\n", want: map[string]any{"s": "quoted: text"}},
		{in: `{"a": 1, "b": 1.0, "c": null}`, f: format.JSONFormat, want: map[string]any{
			"a": int64(1),
			"b": 1.0,
			"c": nil,
		}},
		{in: `[1, 2`, f: format.JSONFormat, e: ErrParse},
		{in: "a: [1, 2\n", e: ErrParse},
	}
	for i, pt := range tests {
		n, err := Parse([]byte(pt.in), ParseFormat(pt.f))
		if pt.e != nil {
			if !errors.Is(err, pt.e) {
				t.Errorf("%d: got error %v want %v", i, err, pt.e)
			}
			continue
		}
		if err != nil {
			t.Errorf("%d: %v", i, err)
			continue
		}
		if diff := cmp.Diff(pt.want, ir.ToAny(n)); diff != "" {
			t.Errorf("%d: (-want +got)\n%s", i, diff)
		}
	}
}

func TestParseFieldOrder(t *testing.T) {
	for _, f := range format.AllFormats() {
		in := "z: 1\na: 2\nm: {y: 1, b: 2}\n"
		if f.IsJSON() {
			in = `{"z": 1, "a": 2, "m": {"y": 1, "b": 2}}`
		}
		n, err := Parse([]byte(in), ParseFormat(f))
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if diff := cmp.Diff([]string{"z", "a", "m"}, n.Fields); diff != "" {
			t.Errorf("%s: (-want +got)\n%s", f, diff)
		}
		if diff := cmp.Diff([]string{"y", "b"}, ir.Get(n, "m").Fields); diff != "" {
			t.Errorf("%s: (-want +got)\n%s", f, diff)
		}
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(p, []byte(`{"n": 2.0}`), 0o644); err != nil {
		t.Fatal(err)
	}
	n, err := ParseFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(n, ir.FromKeyVals([]ir.KeyVal{{Key: "n", Val: ir.FromFloat(2)}})) {
		t.Errorf("got %v", ir.ToAny(n))
	}
	if _, err := ParseFile(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v", err)
	}
}
