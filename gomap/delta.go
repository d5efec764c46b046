package gomap

import "fmt"

// Op is the kind of change recorded by a Delta.
type Op string

const (
	// OpSet replaces the value wholesale with Value.  It is used for
	// leaves, for values that became present and for new map entries.
	OpSet Op = "set"
	// OpClear makes a pointer nil.
	OpClear Op = "clear"
	// OpRemove deletes a map entry.  It appears only in Keys.
	OpRemove Op = "remove"
	// OpEdit recurses into the value through exactly one of Elem, Fields,
	// Elems/Truncate/Append or Keys.
	OpEdit Op = "edit"
)

// Delta is the delta of a value whose algebra was derived by reflection.
// A nil *Delta means the value is unchanged.
type Delta struct {
	Op    Op  `json:"op" yaml:"op"`
	Value any `json:"value,omitempty" yaml:"value,omitempty"`

	// Elem edits the value a pointer points to.
	Elem *Delta `json:"elem,omitempty" yaml:"elem,omitempty"`

	// Fields edits struct fields by their delta name.
	Fields map[string]*Delta `json:"fields,omitempty" yaml:"fields,omitempty"`

	// Elems edits slice or array elements.  Truncate and Append change the
	// length of slices.
	Elems    []Elem `json:"elems,omitempty" yaml:"elems,omitempty"`
	Truncate *int   `json:"truncate,omitempty" yaml:"truncate,omitempty"`
	Append   []any  `json:"append,omitempty" yaml:"append,omitempty"`

	// Keys edits map entries by their key in text form.
	Keys map[string]*Delta `json:"keys,omitempty" yaml:"keys,omitempty"`
}

// Elem is the delta of the element at Index.
type Elem struct {
	Index int    `json:"index" yaml:"index"`
	Delta *Delta `json:"delta" yaml:"delta"`
}

type mode int

const (
	noMode mode = iota
	elemMode
	fieldsMode
	elemsMode
	keysMode
)

func (m mode) String() string {
	switch m {
	case elemMode:
		return "pointer element"
	case fieldsMode:
		return "fields"
	case elemsMode:
		return "elements"
	case keysMode:
		return "keys"
	}
	return "nothing"
}

// modes lists the addressing modes d uses.
func (d *Delta) modes() []mode {
	var res []mode
	if d.Elem != nil {
		res = append(res, elemMode)
	}
	if d.Fields != nil {
		res = append(res, fieldsMode)
	}
	if d.Elems != nil || d.Truncate != nil || d.Append != nil {
		res = append(res, elemsMode)
	}
	if d.Keys != nil {
		res = append(res, keysMode)
	}
	return res
}

func (d *Delta) String() string {
	if d == nil {
		return "<unchanged>"
	}
	switch d.Op {
	case OpSet:
		return fmt.Sprintf("set(%v)", d.Value)
	case OpClear:
		return "clear"
	case OpRemove:
		return "remove"
	}
	return fmt.Sprintf("edit(%v)", d.modes())
}
