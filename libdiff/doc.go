// Package libdiff diffs and patches dynamic documents.
//
// The document algebra is assembled from the generic one: a node is a
// union over its type, arrays are sequences of nodes and objects are maps
// of nodes keyed by field name.  A nil *Delta records no difference.
//
// Besides Diff and Patch, the package renders deltas as RFC 6902 JSON
// patches and computes line diffs of text for display.
package libdiff
