package histd

import "errors"

// ErrClosed is returned by requests made after the server was closed.
var ErrClosed = errors.New("history server closed")
