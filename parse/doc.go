// Package parse reads YAML and JSON documents into [ir.Node] trees,
// keeping object fields in document order.
package parse
