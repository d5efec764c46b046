package deltoid

import (
	"errors"
	"fmt"
)

var (
	// ErrExpectedValue is returned by Patch when a delta site that must
	// carry a replacement or a child delta is empty.
	ErrExpectedValue = errors.New("expected value")

	// ErrUnsupportedType is returned when a type shape cannot be given a
	// delta representation.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrShapeMismatch is returned when a delta addresses its target with
	// a mode (fields, elements, keys) the target does not have.
	ErrShapeMismatch = errors.New("shape mismatch")
)

func expectedValue(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrExpectedValue, fmt.Sprintf(format, args...))
}
