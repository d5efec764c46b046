package encode

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/signadot/deltoid/format"
	"github.com/signadot/deltoid/ir"
)

type EncState struct {
	depth, indent int

	format format.Format

	Color func(ir.Type, ColorAttr, string) string
}

// Encode writes node to w followed by a newline.  A nil node is written
// as null.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent: 2,
	}
	for _, opt := range opts {
		opt(es)
	}
	if node == nil {
		node = ir.Null()
	}
	var err error
	if es.format.IsJSON() {
		err = encodeJSON(node, w, es)
	} else {
		err = encodeYAML(node, w, es, true)
	}
	if err != nil {
		return err
	}
	return writeString(w, "\n")
}

func writeNL(w io.Writer, es *EncState) error {
	return writeString(w, "\n"+strings.Repeat(" ", es.indent*es.depth))
}

func writeString(w io.Writer, s string) error {
	_, err := w.Write([]byte(s))
	return err
}

func applyColor(es *EncState, t ir.Type, attr ColorAttr, v string) string {
	if es.Color == nil {
		return v
	}
	return es.Color(t, attr, v)
}

func isEmpty(node *ir.Node) bool {
	return len(node.Values) == 0
}

func isContainer(node *ir.Node) bool {
	return node.Type == ir.ObjectType || node.Type == ir.ArrayType
}

// encodeYAML writes node in block style.  When inline is set the first
// line of node continues the current line.
func encodeYAML(node *ir.Node, w io.Writer, es *EncState, inline bool) error {
	if !isContainer(node) || isEmpty(node) {
		return encodeLeaf(node, w, es)
	}
	for i, v := range node.Values {
		if i > 0 || !inline {
			if err := writeNL(w, es); err != nil {
				return err
			}
		}
		var prefix string
		if node.Type == ir.ObjectType {
			prefix = applyColor(es, ir.ObjectType, FieldColor, quoteYAML(node.Fields[i])) +
				applyColor(es, ir.ObjectType, SepColor, ":")
		} else {
			prefix = applyColor(es, ir.ArrayType, SepColor, "-")
		}
		if err := writeString(w, prefix); err != nil {
			return err
		}
		if err := encodeYAMLValue(node.Type, v, w, es); err != nil {
			return err
		}
	}
	return nil
}

func encodeYAMLValue(parent ir.Type, v *ir.Node, w io.Writer, es *EncState) error {
	if v == nil {
		v = ir.Null()
	}
	if !isContainer(v) || isEmpty(v) {
		if err := writeString(w, " "); err != nil {
			return err
		}
		return encodeLeaf(v, w, es)
	}
	es.depth++
	defer func() { es.depth-- }()
	if parent == ir.ArrayType {
		if err := writeString(w, " "); err != nil {
			return err
		}
		return encodeYAML(v, w, es, true)
	}
	return encodeYAML(v, w, es, false)
}

func encodeJSON(node *ir.Node, w io.Writer, es *EncState) error {
	if !isContainer(node) || isEmpty(node) {
		return encodeLeaf(node, w, es)
	}
	lb, rb := "[", "]"
	if node.Type == ir.ObjectType {
		lb, rb = "{", "}"
	}
	if err := writeString(w, applyColor(es, node.Type, SepColor, lb)); err != nil {
		return err
	}
	es.depth++
	for i, v := range node.Values {
		if i > 0 {
			if err := writeString(w, applyColor(es, node.Type, SepColor, ",")); err != nil {
				return err
			}
		}
		if err := writeNL(w, es); err != nil {
			return err
		}
		if node.Type == ir.ObjectType {
			k, err := quoteJSON(node.Fields[i])
			if err != nil {
				return err
			}
			s := applyColor(es, ir.ObjectType, FieldColor, k) + applyColor(es, ir.ObjectType, SepColor, ":") + " "
			if err := writeString(w, s); err != nil {
				return err
			}
		}
		if v == nil {
			v = ir.Null()
		}
		if err := encodeJSON(v, w, es); err != nil {
			return err
		}
	}
	es.depth--
	if err := writeNL(w, es); err != nil {
		return err
	}
	return writeString(w, applyColor(es, node.Type, SepColor, rb))
}

func encodeLeaf(node *ir.Node, w io.Writer, es *EncState) error {
	var (
		v    string
		attr = ValueColor
	)
	switch node.Type {
	case ir.NullType:
		v = "null"
	case ir.BoolType:
		v = strconv.FormatBool(node.Bool)
	case ir.NumberType:
		s, err := numberText(node, es)
		if err != nil {
			return err
		}
		v = s
	case ir.StringType:
		if es.format.IsJSON() {
			s, err := quoteJSON(node.String)
			if err != nil {
				return err
			}
			v = s
		} else {
			v = quoteYAML(node.String)
		}
		if !strings.HasPrefix(v, `"`) {
			attr = PlainColor
		}
	case ir.ObjectType:
		v = "{}"
		attr = SepColor
	case ir.ArrayType:
		v = "[]"
		attr = SepColor
	default:
		return fmt.Errorf("%w: node type %s", ErrEncoding, node.Type)
	}
	return writeString(w, applyColor(es, node.Type, attr, v))
}

func numberText(node *ir.Node, es *EncState) (string, error) {
	if node.Float64 != nil {
		f := *node.Float64
		switch {
		case !math.IsNaN(f) && !math.IsInf(f, 0):
		case es.format.IsJSON():
			return "", fmt.Errorf("%w: %v in %s", ErrEncoding, f, es.format)
		case math.IsNaN(f):
			return ".nan", nil
		case f > 0:
			return ".inf", nil
		default:
			return "-.inf", nil
		}
	}
	return ir.NumberText(node), nil
}

func quoteJSON(s string) (string, error) {
	d, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return string(d), nil
}

// quoteYAML returns s as a plain scalar when it reads back as the same
// string, and double quoted otherwise.
func quoteYAML(s string) string {
	if !needsQuote(s) {
		return s
	}
	d, _ := json.Marshal(s)
	return string(d)
}

var reserved = map[string]bool{
	"null": true, "~": true, "true": true, "false": true,
	"yes": true, "no": true, "on": true, "off": true, "y": true, "n": true,
	".nan": true, ".inf": true, "-.inf": true, "+.inf": true,
}

func needsQuote(s string) bool {
	if s == "" || reserved[strings.ToLower(s)] {
		return true
	}
	if s != strings.TrimSpace(s) {
		return true
	}
	if strings.ContainsAny(s[:1], "*&!%@:#,{}[]|>'\"-?`.+~<=0123456789") {
		return true
	}
	if strings.ContainsAny(s, ":#") {
		return true
	}
	for _, r := range s {
		if r < ' ' || r == 0x7f || r == '\u2028' || r == '\u2029' || r == '\ufeff' {
			return true
		}
	}
	return false
}
