// Package storage keeps named append-only logs of records in a bbolt
// database.
//
// Each log is a bucket holding its records under big-endian sequence
// numbers, starting at 1, and the last stored current state.
package storage
