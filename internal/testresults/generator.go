// Package testresults generates synthetic race result CSVs shaped like the
// scraped data the loader consumes. Fields are drawn from a rider pool with
// latent strengths, so generated seasons produce plausible rankings when
// replayed.
package testresults

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/SamMorton123/velo-research/pkg/logger"
	"github.com/google/uuid"
)

// Race class labels and how often each appears in a season.
var classMix = []struct {
	class  string
	weight int
}{
	{"grand-tour", 1},
	{"monument", 2},
	{"world-tour", 5},
	{"pro-series", 6},
	{"continental", 6},
}

// Latent strength distribution.
const (
	strengthMean   = 1500.0
	strengthSpread = 120.0
	resultNoise    = 90.0

	minFieldSize = 5

	ageMin   = 19
	ageRange = 20
)

// rider is one member of the synthetic pool.
type rider struct {
	name     string
	age      int
	strength float64
}

// row is one generated result line.
type row struct {
	year, month, day int
	race             string
	class            string
	place            int
	rider            string
	age              int
	gapSeconds       int
}

// generator produces seasons of synthetic race rows.
type generator struct {
	cfg *Config
	rng *rand.Rand
	log logger.Logger

	riders []rider
}

func newGenerator(cfg *Config, log logger.Logger) *generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
		log: log,
	}
}

// buildPool creates the rider pool with unique names and latent strengths.
func (g *generator) buildPool() {
	g.riders = make([]rider, g.cfg.NumRiders)
	for i := range g.riders {
		g.riders[i] = rider{
			name:     "rider-" + uuid.New().String()[:8],
			age:      ageMin + g.rng.Intn(ageRange),
			strength: strengthMean + g.rng.NormFloat64()*strengthSpread,
		}
	}
}

// generate produces every row for the configured seasons, in chronological
// order.
func (g *generator) generate(ctx context.Context) ([]row, *Stats, error) {
	g.buildPool()
	stats := &Stats{RidersGenerated: len(g.riders)}

	var rows []row
	for season := 0; season < g.cfg.Seasons; season++ {
		select {
		case <-ctx.Done():
			return nil, nil, fmt.Errorf("generation cancelled: %w", ctx.Err())
		default:
		}

		year := g.cfg.StartYear + season
		for i := 0; i < g.cfg.RacesPerSeason; i++ {
			race := g.generateRace(year, i)
			rows = append(rows, race...)
			stats.RacesGenerated++
			stats.RowsWritten += len(race)
		}
	}

	g.log.Info(ctx, "generated synthetic results",
		logger.Int("riders", stats.RidersGenerated),
		logger.Int("races", stats.RacesGenerated),
		logger.Int("rows", stats.RowsWritten),
	)
	return rows, stats, nil
}

// generateRace draws a field, races it, and emits ordered rows. Finishing
// order follows latent strength plus per-race noise; time gaps stretch with
// distance down the order.
func (g *generator) generateRace(year, index int) []row {
	class := g.pickClass()
	name := fmt.Sprintf("race-%d-%02d", year, index+1)

	// Spread races across the season, February through October.
	month := 2 + index*9/g.cfg.RacesPerSeason
	day := 1 + g.rng.Intn(28)

	span := g.cfg.MaxFieldSize - minFieldSize + 1
	if span < 1 {
		span = 1
	}
	fieldSize := minFieldSize + g.rng.Intn(span)
	if fieldSize > len(g.riders) {
		fieldSize = len(g.riders)
	}
	field := g.rng.Perm(len(g.riders))[:fieldSize]

	type performance struct {
		rider rider
		score float64
	}
	perfs := make([]performance, fieldSize)
	for i, idx := range field {
		r := g.riders[idx]
		perfs[i] = performance{rider: r, score: r.strength + g.rng.NormFloat64()*resultNoise}
	}
	sort.Slice(perfs, func(i, j int) bool { return perfs[i].score > perfs[j].score })

	rows := make([]row, fieldSize)
	gap := 0
	for place, p := range perfs {
		if place > 0 {
			gap += g.rng.Intn(20 + place*5)
		}
		rows[place] = row{
			year:       year,
			month:      month,
			day:        day,
			race:       name,
			class:      class,
			place:      place + 1,
			rider:      p.rider.name,
			age:        p.rider.age,
			gapSeconds: gap,
		}
	}
	return rows
}

func (g *generator) pickClass() string {
	total := 0
	for _, c := range classMix {
		total += c.weight
	}
	n := g.rng.Intn(total)
	for _, c := range classMix {
		if n < c.weight {
			return c.class
		}
		n -= c.weight
	}
	return classMix[len(classMix)-1].class
}
