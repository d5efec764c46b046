package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Diff    bool
	Patch   bool
	History bool
	RPC     bool
}

var d *debug

func init() {
	d = &debug{}
	d.Diff = boolEnv("DELTOID_DEBUG_DIFF")
	d.Patch = boolEnv("DELTOID_DEBUG_PATCH")
	d.History = boolEnv("DELTOID_DEBUG_HISTORY")
	d.RPC = boolEnv("DELTOID_DEBUG_RPC")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Diff() bool {
	return d.Diff
}
func Patch() bool {
	return d.Patch
}
func History() bool {
	return d.History
}
func RPC() bool {
	return d.RPC
}

// Logf writes a debug line to stderr.  Map, slice and struct arguments are
// rendered as indented JSON so that deltas are readable in traces.
func Logf(msg string, args ...any) {
	for i := range args {
		switch args[i].(type) {
		case string, bool, int, int64, uint64, float64, error, fmt.Stringer:
			continue
		}
		d, err := json.MarshalIndent(args[i], "   |", "  ")
		if err != nil {
			continue
		}
		args[i] = string(d)
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}
