package parse

import (
	"errors"
	"fmt"
)

var (
	ErrParse  = errors.New("parse error")
	ErrKeyTag = fmt.Errorf("%w: complex keys are not supported", ErrParse)
)
