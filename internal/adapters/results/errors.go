package results

import "errors"

// Sentinel kinds for results-loading errors.
var (
	ErrOpenResults      = errors.New("open results failed")
	ErrMalformedResults = errors.New("malformed results data")
)
