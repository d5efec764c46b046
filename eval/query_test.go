package eval

import (
	"testing"
	"time"
)

func TestQueryMatch(t *testing.T) {
	state := map[string]any{
		"spec": map[string]any{
			"replicas": 3,
			"ports":    []any{map[string]any{"name": "http"}},
		},
	}
	env := Env{Index: 2, Timestamp: time.Unix(100, 0), Origin: "a", State: state}
	cases := []struct {
		src  string
		want bool
	}{
		{`origin == "a"`, true},
		{`origin == "b"`, false},
		{`index > 1 && index < 3`, true},
		{`getpath(state, "spec.replicas") == 3`, true},
		{`getpath(state, "spec.ports.0.name") == "http"`, true},
		{`haspath(state, "spec.ports.0")`, true},
		{`haspath(state, "spec.ports.4")`, false},
		{`haspath(state, "status")`, false},
		{`getpath(state, "status") == nil`, true},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			q, err := Compile(c.src)
			if err != nil {
				t.Fatal(err)
			}
			got, err := q.Match(env)
			if err != nil {
				t.Fatal(err)
			}
			if got != c.want {
				t.Errorf("got %t want %t", got, c.want)
			}
		})
	}
}

func TestQueryNotBool(t *testing.T) {
	if _, err := Compile(`1 + 2`); err == nil {
		t.Errorf("expected an error for a non boolean query")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	if err := Register(GetEnv()); err == nil {
		t.Errorf("expected duplicate registration to fail")
	}
	if Lookup("getpath") == nil {
		t.Errorf("getpath not registered")
	}
}
