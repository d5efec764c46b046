// Package codec reads and writes Go values, deltas and histories
// included, as YAML or JSON.
//
// Values go through their JSON form and an [ir.Node] document, so both
// formats carry the same data: object field order follows the JSON
// encoding, integers stay integers and floats stay floats.  Values held
// in interface fields decode as generic trees with [json.Number]
// numbers.
package codec
