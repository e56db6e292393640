// Package types contains common types shared across the application.
package types

// RiderProfile is the read shape for a single rider lookup.
type RiderProfile struct {
	Rider      string  `json:"rider"`
	Age        int     `json:"age,omitempty"`
	Rating     float64 `json:"rating"`
	Deviation  float64 `json:"deviation,omitempty"`
	Volatility float64 `json:"volatility,omitempty"`
	ActiveYear int     `json:"active_year"`
	LastChange float64 `json:"last_change"`
	Races      int     `json:"races"`
}

// Entry represents one row of a rankings listing.
type Entry struct {
	Rank       int     `json:"rank"`
	Rider      string  `json:"rider"`
	Rating     float64 `json:"rating"`
	Deviation  float64 `json:"deviation,omitempty"`
	Volatility float64 `json:"volatility,omitempty"`
	Age        int     `json:"age,omitempty"`
	ActiveYear int     `json:"active_year"`
	LastChange float64 `json:"last_change"`
}
