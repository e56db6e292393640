package rating

import (
	"math"

	"github.com/SamMorton123/velo-research/internal/domain/decay"
	"github.com/SamMorton123/velo-research/internal/domain/model"
	"github.com/SamMorton123/velo-research/internal/domain/types"
	"github.com/SamMorton123/velo-research/pkg/metrics"
)

// Glicko-2 system constants.
const (
	// glickoScale converts between the public 1500-centered scale and the
	// internal mu/phi scale.
	glickoScale = 173.7178

	tauDefault            = 0.2
	placeDiffLimitDefault = 50
	matchupScaleDefault   = 0.2

	glickoAlphaDefault = 1.6
	glickoBetaDefault  = 1.5
)

// glickoSnapshot freezes one participant's pre-race state on the internal
// scale so every aggregate reads identical inputs regardless of iteration
// order.
type glickoSnapshot struct {
	mu    float64
	phi   float64
	sigma float64
	place int
}

// glickoPending is a fully computed post-race state awaiting commit.
type glickoPending struct {
	rating     float64
	deviation  float64
	volatility float64
}

// Glicko is the Glicko-2 rating system: rating, deviation (uncertainty),
// and volatility per rider, updated per race from decay-weighted pairwise
// outcomes.
type Glicko struct {
	roster

	alpha          float64
	beta           float64
	decayFn        decay.Func
	initialRating  float64
	initialRD      float64
	initialVol     float64
	tau            float64
	placeDiffLimit int
	matchupScale   float64

	pending     map[string]glickoPending
	simulated   bool
	pendingRace model.Race
}

// GlickoOption applies a configuration option to the Glicko system.
type GlickoOption func(*Glicko)

// WithGlickoDecayExponents sets the decay exponents used for matchup weights.
func WithGlickoDecayExponents(alpha, beta float64) GlickoOption {
	return func(g *Glicko) {
		if alpha > 0 && beta > 0 {
			g.alpha = alpha
			g.beta = beta
		}
	}
}

// WithGlickoDecayFunc replaces the default power-law decay weighting.
func WithGlickoDecayFunc(fn decay.Func) GlickoOption {
	return func(g *Glicko) {
		if fn != nil {
			g.decayFn = fn
		}
	}
}

// WithGlickoSeeds sets the initial rating, deviation, and volatility given
// to new riders.
func WithGlickoSeeds(rating, deviation, volatility float64) GlickoOption {
	return func(g *Glicko) {
		if deviation > 0 && volatility > 0 {
			g.initialRating = rating
			g.initialRD = deviation
			g.initialVol = volatility
		}
	}
}

// WithTau sets the volatility constraint constant. Smaller values hold
// volatility more stable across races.
func WithTau(tau float64) GlickoOption {
	return func(g *Glicko) {
		if tau > 0 {
			g.tau = tau
		}
	}
}

// WithPlaceDiffLimit sets the maximum place difference for a pair to count
// as a matchup. Pairs farther apart are ignored entirely, bounding the
// pairwise cost and dropping comparisons with no signal.
func WithPlaceDiffLimit(limit int) GlickoOption {
	return func(g *Glicko) {
		if limit > 0 {
			g.placeDiffLimit = limit
		}
	}
}

// WithMatchupScale sets the constant factor applied on top of decay
// weighting to keep matchup weights in a range the Glicko-2 update responds
// to sanely.
func WithMatchupScale(scale float64) GlickoOption {
	return func(g *Glicko) {
		if scale > 0 {
			g.matchupScale = scale
		}
	}
}

// NewGlicko constructs a Glicko-2 system with default configuration.
func NewGlicko(opts ...GlickoOption) *Glicko {
	g := &Glicko{
		roster:         newRoster(),
		alpha:          glickoAlphaDefault,
		beta:           glickoBetaDefault,
		decayFn:        decay.Power,
		initialRating:  model.DefaultRating,
		initialRD:      model.DefaultDeviation,
		initialVol:     model.DefaultVolatility,
		tau:            tauDefault,
		placeDiffLimit: placeDiffLimitDefault,
		matchupScale:   matchupScaleDefault,
		pending:        make(map[string]glickoPending),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddRider returns the named rider, creating them at the configured seeds
// on first appearance. A reappearing rider has their age overwritten.
func (g *Glicko) AddRider(name string, age int) *model.Rider {
	if r, ok := g.riders[name]; ok {
		r.Age = age
		return r
	}
	r := model.NewGlickoRider(name, age, g.initialRating, g.initialRD, g.initialVol)
	g.riders[name] = r
	return r
}

// SimulateRace computes the full Glicko-2 update for every participant from
// a frozen pre-race snapshot and stages the results. Nothing is committed
// until ResolveRace.
func (g *Glicko) SimulateRace(race model.Race, rows []model.Result) {
	g.logRace(race)

	// Freeze pre-race state on the internal scale.
	snaps := make([]glickoSnapshot, len(rows))
	for i, row := range rows {
		r := g.AddRider(row.Rider, row.Age)
		r.AddRace(race)
		snaps[i] = glickoSnapshot{
			mu:    (r.Rating - g.initialRating) / glickoScale,
			phi:   r.Deviation / glickoScale,
			sigma: r.Volatility,
			place: row.Place,
		}
	}

	// Matchup weights come from row positions, not recorded places, so the
	// winner/no-gap sentinel cannot distort the decay curve.
	weights := make([][]float64, len(rows))
	for i := range rows {
		weights[i] = make([]float64, len(rows))
	}
	for i := 0; i < len(rows)-1; i++ {
		for j := i + 1; j < len(rows); j++ {
			w := g.decayFn(race.Weight, i+1, j+1, g.alpha, g.beta) * g.matchupScale
			weights[i][j] = w
			weights[j][i] = w
		}
	}

	pairs := 0
	for i, row := range rows {
		self := snaps[i]

		// Aggregate over eligible opponents.
		var sumG2E float64 // Σ g(φ_j)² E (1-E): inverse variance
		var sumWGSE float64

		for j, opp := range snaps {
			if j == i {
				continue
			}
			if abs(self.place-opp.place) > g.placeDiffLimit {
				continue
			}
			pairs++

			score := 0.0
			if self.place < opp.place {
				score = 1.0
			}
			gj := glickoG(opp.phi)
			e := glickoE(self.mu, opp.mu, opp.phi)
			sumG2E += gj * gj * e * (1 - e)
			sumWGSE += weights[i][j] * gj * (score - e)
		}

		if sumG2E == 0 {
			// Degenerate field: no opponent within the place threshold.
			// The rider is treated as a non-participant for this race.
			continue
		}

		v := 1 / sumG2E
		delta := v * sumWGSE

		sigmaNew, iterations := solveVolatility(self.phi, v, delta, self.sigma, g.tau)
		metrics.RecordSolverIterations(iterations)

		phiStar := math.Sqrt(self.phi*self.phi + sigmaNew*sigmaNew)
		phiNew := 1 / math.Sqrt(1/(phiStar*phiStar)+1/v)
		muNew := self.mu + phiNew*phiNew*sumWGSE

		g.pending[row.Rider] = glickoPending{
			rating:     muNew*glickoScale + g.initialRating,
			deviation:  phiNew * glickoScale,
			volatility: sigmaNew,
		}
	}
	metrics.RecordHeadToHeads(pairs / 2)

	g.simulated = true
	g.pendingRace = race
}

// ResolveRace commits every staged participant update and inflates the
// deviation of riders who sat the race out: uncertainty grows with
// inactivity while their rating and volatility stay put.
func (g *Glicko) ResolveRace(race model.Race) {
	if !g.simulated || !g.pendingRace.Same(race) {
		return
	}

	for name, r := range g.riders {
		if p, ok := g.pending[name]; ok {
			r.CommitRating(p.rating, p.deviation, p.volatility, race.Date, true)
			continue
		}
		phi := r.Deviation / glickoScale
		inflated := math.Sqrt(phi*phi+r.Volatility*r.Volatility) * glickoScale
		r.CommitRating(r.Rating, inflated, r.Volatility, race.Date, false)
	}

	g.pending = make(map[string]glickoPending)
	g.simulated = false
}

// NewSeason regresses every rating toward the default; deviation and
// volatility carry over unchanged.
func (g *Glicko) NewSeason(year int, w float64) {
	g.logRace(model.NewSeasonRace(year))
	for _, r := range g.riders {
		r.RegressToMean(year, w)
	}
}

// Rankings lists active riders by rating descending.
func (g *Glicko) Rankings(asOfYear int, minRating float64, limit int) []types.Entry {
	return g.rankings(asOfYear, minRating, limit)
}

// glickoG is the deviation damping factor g(φ).
func glickoG(phi float64) float64 {
	return 1 / math.Sqrt(1+3*phi*phi/(math.Pi*math.Pi))
}

// glickoE is the win expectation E(μ, μ_j, φ_j).
func glickoE(mu, muJ, phiJ float64) float64 {
	return 1 / (1 + math.Exp(-glickoG(phiJ)*(mu-muJ)))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
