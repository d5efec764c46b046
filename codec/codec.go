package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/signadot/deltoid/encode"
	"github.com/signadot/deltoid/format"
	"github.com/signadot/deltoid/ir"
	"github.com/signadot/deltoid/parse"
)

var ErrDecode = errors.New("decode error")

// ToNode returns the document form of v.
func ToNode(v any) (*ir.Node, error) {
	if n, ok := v.(*ir.Node); ok {
		return n, nil
	}
	d, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	n := &ir.Node{}
	if err := n.UnmarshalJSON(d); err != nil {
		return nil, err
	}
	return n, nil
}

// FromNode stores the document n in the value pointed to by v.
func FromNode(n *ir.Node, v any) error {
	d, err := n.MarshalJSON()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

func Marshal(v any, f format.Format) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := Encode(buf, v, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Unmarshal(data []byte, v any, f format.Format) error {
	n, err := parse.Parse(data, parse.ParseFormat(f))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return FromNode(n, v)
}

// Encode writes v to w, with colors when opts ask for them.
func Encode(w io.Writer, v any, f format.Format, opts ...encode.EncodeOption) error {
	n, err := ToNode(v)
	if err != nil {
		return err
	}
	return encode.Encode(n, w, append([]encode.EncodeOption{encode.EncodeFormat(f)}, opts...)...)
}

// Decode reads all of r as one document.
func Decode(r io.Reader, v any, f format.Format) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return Unmarshal(data, v, f)
}
