// Package model contains domain models passed between layers.
package model

import "time"

// Rating defaults shared by both rating systems.
const (
	DefaultRating     = 1500.0
	DefaultDeviation  = 350.0
	DefaultVolatility = 0.06

	// SentinelActiveYear is far enough in the past that a rider who never
	// resolves a non-zero delta is excluded from rankings.
	SentinelActiveYear = 1800
)

// RatingPoint is one snapshot in a rider's rating timeline. Deviation and
// Volatility are zero for the plain Elo system. NewSeason marks a season
// regression entry rather than a race.
type RatingPoint struct {
	Rating     float64   `json:"rating"`
	Deviation  float64   `json:"deviation,omitempty"`
	Volatility float64   `json:"volatility,omitempty"`
	Date       time.Time `json:"date"`
	NewSeason  bool      `json:"new_season,omitempty"`
}

// Rider is the per-competitor mutable state owned by a rating system.
// Instances are never shared outside the owning system; history accessors
// return copies.
type Rider struct {
	Name string
	Age  int

	Rating     float64
	Deviation  float64
	Volatility float64

	// pendingDelta accumulates head-to-head contributions within one race so
	// that every matchup is evaluated against the same pre-race rating. It is
	// zero outside of mid-race processing.
	pendingDelta float64

	history     []RatingPoint
	raceHistory []Race

	// MostRecentActiveYear is the year of the last race that moved this
	// rider's rating. Defaults to SentinelActiveYear.
	MostRecentActiveYear int
}

// NewRider creates a rider at the Elo defaults.
func NewRider(name string, age int) *Rider {
	return NewGlickoRider(name, age, DefaultRating, 0, 0)
}

// NewGlickoRider creates a rider with explicit rating, deviation, and
// volatility seeds.
func NewGlickoRider(name string, age int, rating, deviation, volatility float64) *Rider {
	r := &Rider{
		Name:                 name,
		Age:                  age,
		Rating:               rating,
		Deviation:            deviation,
		Volatility:           volatility,
		MostRecentActiveYear: SentinelActiveYear,
	}
	r.history = append(r.history, RatingPoint{
		Rating:     r.Rating,
		Deviation:  r.Deviation,
		Volatility: r.Volatility,
		NewSeason:  true,
	})
	return r
}

// AddRace appends a race to the rider's history unless an entry with the
// same name and date is already present. Reports whether the race was new.
func (r *Rider) AddRace(race Race) bool {
	for _, prev := range r.raceHistory {
		if prev.Name == race.Name && prev.Date.Equal(race.Date) {
			return false
		}
	}
	r.raceHistory = append(r.raceHistory, race)
	return true
}

// AccumulateDelta adds a head-to-head contribution to the pending delta
// without touching the committed rating.
func (r *Rider) AccumulateDelta(d float64) {
	r.pendingDelta += d
}

// PendingDelta returns the not-yet-committed rating change.
func (r *Rider) PendingDelta() float64 {
	return r.pendingDelta
}

// ResolveDelta commits the pending delta to the rating, resets it, and
// appends a history snapshot dated at the race. The rider counts as active
// only if this race actually moved their rating.
func (r *Rider) ResolveDelta(date time.Time) {
	if r.pendingDelta != 0 {
		r.MostRecentActiveYear = date.Year()
	}
	r.Rating += r.pendingDelta
	r.pendingDelta = 0
	r.history = append(r.history, RatingPoint{
		Rating:     r.Rating,
		Deviation:  r.Deviation,
		Volatility: r.Volatility,
		Date:       date,
	})
}

// CommitRating overwrites rating state directly and appends a history
// snapshot. Used by the Glicko-2 system, which computes whole new states
// rather than deltas. The active flag controls the activity-year update.
func (r *Rider) CommitRating(rating, deviation, volatility float64, date time.Time, active bool) {
	r.Rating = rating
	r.Deviation = deviation
	r.Volatility = volatility
	if active {
		r.MostRecentActiveYear = date.Year()
	}
	r.history = append(r.history, RatingPoint{
		Rating:     r.Rating,
		Deviation:  r.Deviation,
		Volatility: r.Volatility,
		Date:       date,
	})
}

// RegressToMean pulls the rating toward DefaultRating by weight w in [0,1]
// and records a season-marker snapshot dated January 1 of year.
func (r *Rider) RegressToMean(year int, w float64) {
	r.Rating = DefaultRating*w + r.Rating*(1-w)
	r.raceHistory = append(r.raceHistory, NewSeasonRace(year))
	r.history = append(r.history, RatingPoint{
		Rating:     r.Rating,
		Deviation:  r.Deviation,
		Volatility: r.Volatility,
		Date:       time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		NewSeason:  true,
	})
}

// History returns a copy of the rider's rating timeline.
func (r *Rider) History() []RatingPoint {
	out := make([]RatingPoint, len(r.history))
	copy(out, r.history)
	return out
}

// RaceHistory returns a copy of the races the rider has been scored in.
func (r *Rider) RaceHistory() []Race {
	out := make([]Race, len(r.raceHistory))
	copy(out, r.raceHistory)
	return out
}

// LastChange returns the rating movement recorded by the most recent
// history snapshot, or zero if fewer than two snapshots exist.
func (r *Rider) LastChange() float64 {
	if len(r.history) < 2 {
		return 0
	}
	return r.history[len(r.history)-1].Rating - r.history[len(r.history)-2].Rating
}
