// Package histd serves a delta history of one document over JSON-RPC
// 2.0.
//
// Clients push whole documents; the server records the delta from the
// previous document and persists it.  Replicas follow the history by
// fetching the deltas they have not seen and patching their own copy.
package histd
