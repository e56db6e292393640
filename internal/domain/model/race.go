package model

import (
	"fmt"
	"time"
)

// NewSeasonName labels the synthetic race appended to logs at a season
// boundary.
const NewSeasonName = "New Season"

// Race is an immutable record of one race occurrence. Identity (and the
// de-duplication key) is the (Name, Date) pair.
type Race struct {
	Name   string    `json:"name"`
	Weight float64   `json:"weight"`
	Date   time.Time `json:"date"`
	Class  string    `json:"class,omitempty"`
}

// NewSeasonRace returns the synthetic season-boundary marker for a year.
func NewSeasonRace(year int) Race {
	return Race{
		Name: NewSeasonName,
		Date: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Key returns the de-duplication key for the race.
func (r Race) Key() string {
	return fmt.Sprintf("%s|%s", r.Name, r.Date.Format("2006-01-02"))
}

// Same reports whether two races refer to the same occurrence.
func (r Race) Same(other Race) bool {
	return r.Name == other.Name && r.Date.Equal(other.Date)
}
