// Package format names the serialization formats of documents, deltas
// and histories.
package format
