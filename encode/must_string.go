package encode

import (
	"bytes"
	"strings"

	"github.com/signadot/deltoid/format"
	"github.com/signadot/deltoid/ir"
)

func MustString(node *ir.Node, opts ...EncodeOption) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf, opts...); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}

// JSONString is MustString with JSON output.
func JSONString(node *ir.Node) string {
	return MustString(node, EncodeFormat(format.JSONFormat))
}
