package model

import "time"

// Result is one finisher's row within one race. Place is 1-based; 0 encodes
// the winner/no-time-gap sentinel carried over from published results. Gap
// is the elapsed time behind the winner; a row whose time could not be
// parsed carries a zero gap (treated as no time advantage, not an error).
type Result struct {
	Rider string
	Place int
	Gap   time.Duration
	Age   int
}

// HasGap reports whether the row carries a usable time gap. The race
// winner's row (place 0 or 1) has no gap by definition.
func (r Result) HasGap() bool {
	return r.Gap > 0
}
