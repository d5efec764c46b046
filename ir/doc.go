// Package ir holds the in memory form of dynamic JSON and YAML documents.
//
// A document is a tree of [Node] values.  Objects keep their fields in
// document order, but two objects are equal when they hold the same
// fields whatever the order.
package ir
