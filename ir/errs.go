package ir

import "errors"

var (
	ErrType = errors.New("wrong node type")
	ErrPath = errors.New("bad path")
)
