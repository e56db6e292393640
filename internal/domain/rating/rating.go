// Package rating implements the rating engine: the translation of an
// ordered race result into weighted pairwise comparisons and the running
// rider ratings derived from them. Two systems are provided, a pairwise Elo
// variant and a Glicko-2 variant; both share the same roster contract and
// the same two-phase simulate/resolve discipline so that every comparison
// within one race is evaluated against identical pre-race state.
package rating

import (
	"sort"

	"github.com/SamMorton123/velo-research/internal/domain/model"
	"github.com/SamMorton123/velo-research/internal/domain/types"
)

// System is the contract shared by the Elo and Glicko-2 engines. Races must
// be fed in non-decreasing chronological order; ratings are path-dependent
// on that order. A SimulateRace call accumulates pending state only; the
// matching ResolveRace commits it. The two phases must never be merged:
// the split is what makes pair iteration order irrelevant within a race.
type System interface {
	// Rider returns the rider with the given name, if known.
	Rider(name string) (*model.Rider, bool)

	// AddRider returns the existing rider with the given name, updating
	// their age, or lazily creates one at the system's initial rating.
	AddRider(name string, age int) *model.Rider

	// SimulateRace expands the ordered result rows into head-to-head
	// comparisons and stages the resulting rating movements. Committed
	// ratings are not touched.
	SimulateRace(race model.Race, rows []model.Result)

	// ResolveRace commits all staged movements from the preceding
	// SimulateRace call and snapshots rider histories at the race date.
	ResolveRace(race model.Race)

	// NewSeason regresses every rider toward the default rating by weight
	// w in [0,1] and logs a synthetic season-boundary race.
	NewSeason(year int, w float64)

	// Rankings lists riders by rating descending, excluding those inactive
	// since before asOfYear-1 or rated below minRating, capped at limit.
	Rankings(asOfYear int, minRating float64, limit int) []types.Entry

	// Riders returns all known riders.
	Riders() []*model.Rider

	// Races returns the chronological race log, including season markers.
	Races() []model.Race
}

// roster holds the rider map and race log shared by both systems. The owning
// system is the only writer; riders are never aliased outside it.
type roster struct {
	riders map[string]*model.Rider
	races  []model.Race
}

func newRoster() roster {
	return roster{riders: make(map[string]*model.Rider)}
}

func (b *roster) Rider(name string) (*model.Rider, bool) {
	r, ok := b.riders[name]
	return r, ok
}

func (b *roster) Riders() []*model.Rider {
	out := make([]*model.Rider, 0, len(b.riders))
	for _, r := range b.riders {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (b *roster) Races() []model.Race {
	out := make([]model.Race, len(b.races))
	copy(out, b.races)
	return out
}

func (b *roster) logRace(race model.Race) {
	b.races = append(b.races, race)
}

// rankings implements the shared listing semantics. Ordering is rating
// descending with name ascending as the deterministic tie-breaker.
func (b *roster) rankings(asOfYear int, minRating float64, limit int) []types.Entry {
	sorted := b.Riders()
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Rating != sorted[j].Rating {
			return sorted[i].Rating > sorted[j].Rating
		}
		return sorted[i].Name < sorted[j].Name
	})

	out := make([]types.Entry, 0, len(sorted))
	for _, r := range sorted {
		if limit > 0 && len(out) >= limit {
			break
		}
		if r.Rating < minRating {
			break
		}
		if r.MostRecentActiveYear < asOfYear-1 {
			continue
		}
		out = append(out, types.Entry{
			Rank:       len(out) + 1,
			Rider:      r.Name,
			Rating:     r.Rating,
			Deviation:  r.Deviation,
			Volatility: r.Volatility,
			Age:        r.Age,
			ActiveYear: r.MostRecentActiveYear,
			LastChange: r.LastChange(),
		})
	}
	return out
}
