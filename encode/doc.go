// Package encode writes [ir.Node] documents as YAML or JSON text.
//
// YAML output is block style with flow style reserved for empty
// containers.  JSON output is indented.  Both keep object fields in
// order and may be colored with [NewColors].
//
//	err := encode.Encode(node, os.Stdout,
//	    encode.EncodeFormat(format.JSONFormat),
//	    encode.EncodeColors(encode.NewColors()))
package encode
