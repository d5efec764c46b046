package libdiff

import (
	"encoding/json"

	"github.com/signadot/deltoid"
	"github.com/signadot/deltoid/ir"
)

// Variant names of document nodes in deltas.
const (
	NullVariant   = "null"
	BoolVariant   = "bool"
	IntVariant    = "int"
	UintVariant   = "uint"
	FloatVariant  = "float"
	StringVariant = "string"
	ArrayVariant  = "array"
	ObjectVariant = "object"
)

// Delta is the delta of a document node.  Its payloads are those of the
// node variant named by Variant:
//
//   - null, bool, int, uint, float, string: deltoid.LeafDelta of the scalar
//   - array: ArrayDelta
//   - object: ObjectDelta
type Delta struct {
	deltoid.UnionDelta `yaml:",inline"`
}

// ArrayDelta is the delta of the elements of an array.
type ArrayDelta = deltoid.SeqDelta[*ir.Node, *Delta]

// ObjectDelta is the delta of the fields of an object.
type ObjectDelta = deltoid.KeyedDelta[string, *ir.Node, *Delta]

func (d *Delta) String() string {
	switch {
	case d == nil:
		return "<no difference>"
	case d.Zero:
		return "remove"
	case d.Replace != nil:
		return "replace with " + d.Variant
	}
	return "edit " + d.Variant
}

// UnmarshalJSON keeps the payloads as raw JSON until they are coerced to
// their variant, so documents inside them keep their field order.
func (d *Delta) UnmarshalJSON(data []byte) error {
	var raw struct {
		Variant string          `json:"variant"`
		Replace json.RawMessage `json:"replace"`
		Edit    json.RawMessage `json:"edit"`
		Zero    bool            `json:"zero"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = Delta{}
	d.Variant, d.Zero = raw.Variant, raw.Zero
	if present(raw.Replace) {
		d.Replace = raw.Replace
	}
	if present(raw.Edit) {
		d.Edit = raw.Edit
	}
	return nil
}

func present(m json.RawMessage) bool {
	return len(m) != 0 && string(m) != "null"
}
