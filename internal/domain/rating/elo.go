package rating

import (
	"math"
	"time"

	"github.com/SamMorton123/velo-research/internal/domain/decay"
	"github.com/SamMorton123/velo-research/internal/domain/model"
	"github.com/SamMorton123/velo-research/internal/domain/types"
)

// Elo system constants.
const (
	eloQBaseDefault  = 10.0
	eloQDenomDefault = 400.0

	decayAlphaDefault = 1.5
	decayBetaDefault  = 1.8

	// Margin-of-victory curve constants. The rating-difference damping keeps
	// a heavy favorite from farming large gains out of expected blowouts.
	marginRatingDamp   = 0.001
	marginRatingOffset = 2.2
	marginGapOffset    = 2.0
)

// Tie-breaking policy: result rows arrive in finish order, so in every
// head-to-head the earlier-listed row takes the win. Rows with identical
// recorded times keep that listed order rather than being re-derived.
// A zero/missing time on the race leader means "no gap", not missing data.

// Elo is the pairwise-accumulated Elo rating system.
type Elo struct {
	roster

	alpha       float64
	beta        float64
	qBase       float64
	qDenom      float64
	timegapMult float64 // 0 disables the margin-of-victory factor
	decayFn     decay.Func
}

// EloOption applies a configuration option to the Elo system.
type EloOption func(*Elo)

// WithDecayExponents sets the absolute (alpha) and relative (beta) decay
// exponents.
func WithDecayExponents(alpha, beta float64) EloOption {
	return func(e *Elo) {
		if alpha > 0 && beta > 0 {
			e.alpha = alpha
			e.beta = beta
		}
	}
}

// WithDecayFunc replaces the default power-law decay weighting.
func WithDecayFunc(fn decay.Func) EloOption {
	return func(e *Elo) {
		if fn != nil {
			e.decayFn = fn
		}
	}
}

// WithEloCurve overrides the logistic curve's base and exponent denominator.
func WithEloCurve(base, denom float64) EloOption {
	return func(e *Elo) {
		if base > 1 && denom > 0 {
			e.qBase = base
			e.qDenom = denom
		}
	}
}

// WithTimegapMultiplier enables the margin-of-victory factor with the given
// multiplier. Zero leaves it disabled.
func WithTimegapMultiplier(mult float64) EloOption {
	return func(e *Elo) {
		if mult > 0 {
			e.timegapMult = mult
		}
	}
}

// NewElo constructs an Elo system with default configuration.
func NewElo(opts ...EloOption) *Elo {
	e := &Elo{
		roster:  newRoster(),
		alpha:   decayAlphaDefault,
		beta:    decayBetaDefault,
		qBase:   eloQBaseDefault,
		qDenom:  eloQDenomDefault,
		decayFn: decay.Power,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddRider returns the named rider, creating them at the default rating on
// first appearance. A reappearing rider has their age overwritten.
func (e *Elo) AddRider(name string, age int) *model.Rider {
	if r, ok := e.riders[name]; ok {
		r.Age = age
		return r
	}
	r := model.NewRider(name, age)
	e.riders[name] = r
	return r
}

// SimulateRace runs every valid head-to-head in the race as if all occurred
// simultaneously: each comparison reads committed pre-race ratings and
// writes only pending deltas, so pair order cannot affect the outcome.
func (e *Elo) SimulateRace(race model.Race, rows []model.Result) {
	e.logRace(race)

	for i := 0; i < len(rows)-1; i++ {
		for j := i + 1; j < len(rows); j++ {
			win, lose := rows[i], rows[j]
			if win.Place > lose.Place {
				win, lose = lose, win
			}

			// An equal-place pair means a disqualification slipped through
			// upstream filtering; a sub-1 place is equally malformed. Either
			// way the pair is unusable.
			if win.Place < 1 || win.Place == lose.Place {
				continue
			}

			r1 := e.AddRider(win.Rider, win.Age)
			r2 := e.AddRider(lose.Rider, lose.Age)

			r1.AddRace(race)
			r2.AddRace(race)

			w := e.decayFn(race.Weight, win.Place, lose.Place, e.alpha, e.beta)
			e.headToHead(r1, win.Gap, r2, lose.Gap, w)
		}
	}
}

// headToHead stages the rating movement from a single matchup won by r1.
func (e *Elo) headToHead(r1 *model.Rider, gap1 time.Duration, r2 *model.Rider, gap2 time.Duration, matchupWeight float64) {
	p1, p2 := e.winProbabilities(r1.Rating, r2.Rating)

	mv := e.marginFactor(r1.Rating-r2.Rating, gap2-gap1)

	const winScore, lossScore = 1.0, 0.0
	r1.AccumulateDelta(matchupWeight * mv * (winScore - p1))
	r2.AccumulateDelta(matchupWeight * mv * (lossScore - p2))
}

// winProbabilities returns each rider's chance of winning the matchup.
// The two probabilities sum to 1.
func (e *Elo) winProbabilities(rating1, rating2 float64) (float64, float64) {
	q1 := math.Pow(e.qBase, rating1/e.qDenom)
	q2 := math.Pow(e.qBase, rating2/e.qDenom)
	return q1 / (q1 + q2), q2 / (q1 + q2)
}

// marginFactor scales a matchup by how decisively the winner won. The
// neutral value 1 is a designed default, returned when the factor is
// disabled or when the inputs leave the curve's domain (non-positive log
// argument, degenerate rating damping) rather than an error path.
func (e *Elo) marginFactor(ratingDiff float64, gap time.Duration) float64 {
	if e.timegapMult <= 0 {
		return 1
	}
	arg := math.Abs(gap.Seconds())*e.timegapMult + marginGapOffset
	damp := ratingDiff*marginRatingDamp + marginRatingOffset
	if arg <= 0 || damp <= 0 {
		return 1
	}
	return math.Log(arg) * (marginRatingOffset / damp)
}

// ResolveRace commits every rider's pending delta in one pass. Riders whose
// delta is zero (including everyone not in the race) keep their activity
// year untouched.
func (e *Elo) ResolveRace(race model.Race) {
	for _, r := range e.riders {
		r.ResolveDelta(race.Date)
	}
}

// NewSeason regresses every rating toward the default. With w in (0,1) the
// new rating lies strictly between the old rating and the default; w=0 is a
// no-op and w=1 resets everyone exactly to the default.
func (e *Elo) NewSeason(year int, w float64) {
	e.logRace(model.NewSeasonRace(year))
	for _, r := range e.riders {
		r.RegressToMean(year, w)
	}
}

// Rankings lists active riders by rating descending.
func (e *Elo) Rankings(asOfYear int, minRating float64, limit int) []types.Entry {
	return e.rankings(asOfYear, minRating, limit)
}
