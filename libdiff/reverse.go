package libdiff

import (
	"fmt"

	"github.com/signadot/deltoid"
	"github.com/signadot/deltoid/ir"
)

// Reverse returns the delta which takes the result of patching doc with
// diff back to doc.
func Reverse(doc *ir.Node, diff *Delta) (*Delta, error) {
	to, err := Patch(doc, diff)
	if err != nil {
		return nil, fmt.Errorf("reverse: %w", err)
	}
	return deltoid.InverseDiff(Ops(), doc, to), nil
}
