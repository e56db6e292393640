package decay

import "errors"

// ErrUnknownFunc indicates an unrecognized decay keyword in configuration.
var ErrUnknownFunc = errors.New("unknown decay function")
