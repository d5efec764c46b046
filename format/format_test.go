package format

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"y": YAMLFormat, "YAML": YAMLFormat, "yml": YAMLFormat,
		"j": JSONFormat, "json": JSONFormat,
	} {
		got, err := ParseFormat(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if got != want {
			t.Errorf("%s: got %s want %s", in, got, want)
		}
	}
	if _, err := ParseFormat("tony"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("got %v want ErrBadFormat", err)
	}
}

func TestFromPath(t *testing.T) {
	for path, want := range map[string]Format{
		"a/b.json": JSONFormat,
		"b.yaml":   YAMLFormat,
		"noext":    YAMLFormat,
		"x.txt":    YAMLFormat,
	} {
		if got := FromPath(path); got != want {
			t.Errorf("%s: got %s want %s", path, got, want)
		}
		if FromPath("a"+want.Suffix()) != want {
			t.Errorf("suffix %s does not map back", want.Suffix())
		}
	}
}

func TestText(t *testing.T) {
	var f Format
	if err := f.UnmarshalText([]byte("json")); err != nil {
		t.Fatal(err)
	}
	d, err := f.MarshalText()
	if err != nil || string(d) != "json" {
		t.Errorf("got %q, %v", d, err)
	}
}
