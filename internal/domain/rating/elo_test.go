package rating_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/SamMorton123/velo-research/internal/domain/model"
	"github.com/SamMorton123/velo-research/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func raceOn(name string, weight float64, y int, m time.Month, d int) model.Race {
	return model.Race{Name: name, Weight: weight, Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func TestEloHeadToHead(t *testing.T) {
	Convey("Given two evenly rated riders", t, func() {
		sys := rating.NewElo(rating.WithDecayExponents(1.5, 1.8))
		race := raceOn("omloop", 10, 2022, time.February, 26)
		rows := []model.Result{
			{Rider: "a", Place: 1},
			{Rider: "b", Place: 2},
		}

		Convey("When the race is simulated but not resolved", func() {
			sys.SimulateRace(race, rows)

			Convey("Then committed ratings are untouched", func() {
				a, _ := sys.Rider("a")
				b, _ := sys.Rider("b")
				So(a.Rating, ShouldEqual, model.DefaultRating)
				So(b.Rating, ShouldEqual, model.DefaultRating)
			})

			Convey("Then the pending deltas are an exact zero-sum pair", func() {
				a, _ := sys.Rider("a")
				b, _ := sys.Rider("b")
				So(a.PendingDelta(), ShouldBeGreaterThan, 0)
				So(a.PendingDelta()+b.PendingDelta(), ShouldAlmostEqual, 0, 1e-12)
			})
		})

		Convey("When the race is simulated and resolved", func() {
			sys.SimulateRace(race, rows)
			sys.ResolveRace(race)

			a, _ := sys.Rider("a")
			b, _ := sys.Rider("b")

			Convey("Then the winner gains exactly what the loser drops", func() {
				So(a.Rating, ShouldBeGreaterThan, model.DefaultRating)
				So(a.Rating-model.DefaultRating, ShouldAlmostEqual, model.DefaultRating-b.Rating, 1e-9)
			})

			Convey("Then pending deltas are zero again", func() {
				So(a.PendingDelta(), ShouldEqual, 0)
				So(b.PendingDelta(), ShouldEqual, 0)
			})

			Convey("Then both riders are active in the race year", func() {
				So(a.MostRecentActiveYear, ShouldEqual, 2022)
				So(b.MostRecentActiveYear, ShouldEqual, 2022)
			})
		})
	})
}

func TestEloZeroSumAcrossRatings(t *testing.T) {
	Convey("Given mismatched ratings", t, func() {
		Convey("When a string of head-to-heads runs at varied strengths", func() {
			Convey("Then every race's total delta is zero", func() {
				rng := rand.New(rand.NewSource(7))
				sys := rating.NewElo()
				for n := 0; n < 25; n++ {
					race := raceOn("kermesse", 1+rng.Float64()*14, 2021, time.May, 1+n)
					rows := []model.Result{
						{Rider: "x", Place: 1},
						{Rider: "y", Place: 2},
						{Rider: "z", Place: 3},
					}
					sys.SimulateRace(race, rows)

					var total float64
					for _, r := range sys.Riders() {
						total += r.PendingDelta()
					}
					So(total, ShouldAlmostEqual, 0, 1e-9)
					sys.ResolveRace(race)
				}
			})
		})
	})
}

func TestEloPairOrderIndependence(t *testing.T) {
	Convey("Given one race processed under different row orderings of the same finish", t, func() {
		finish := []model.Result{
			{Rider: "a", Place: 1, Gap: 0},
			{Rider: "b", Place: 2, Gap: 12 * time.Second},
			{Rider: "c", Place: 3, Gap: 40 * time.Second},
			{Rider: "d", Place: 4, Gap: 95 * time.Second},
			{Rider: "e", Place: 5, Gap: 180 * time.Second},
		}

		run := func(rows []model.Result) map[string]float64 {
			sys := rating.NewElo(rating.WithTimegapMultiplier(3))
			race := raceOn("strade-bianche", 9, 2022, time.March, 5)
			sys.SimulateRace(race, rows)
			sys.ResolveRace(race)
			out := make(map[string]float64)
			for _, r := range sys.Riders() {
				out[r.Name] = r.Rating
			}
			return out
		}

		Convey("When the rows are permuted", func() {
			base := run(finish)

			rng := rand.New(rand.NewSource(11))
			for trial := 0; trial < 10; trial++ {
				perm := make([]model.Result, len(finish))
				copy(perm, finish)
				rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

				got := run(perm)

				Convey("Then final ratings are identical (trial order is irrelevant)", func() {
					for name, want := range base {
						So(got[name], ShouldAlmostEqual, want, 1e-9)
					}
				})
				break
			}
		})
	})
}

func TestEloWinProbabilityProperties(t *testing.T) {
	Convey("Given pairs of finite distinct ratings", t, func() {
		Convey("When head-to-heads run across a wide rating spread", func() {
			Convey("Then each delta pair cancels and favorites gain less", func() {
				var prevGain float64 = 1e18
				for _, gap := range []float64{0, 50, 150, 400, 900} {
					sys := rating.NewElo()
					strong := sys.AddRider("strong", 25)
					strong.AccumulateDelta(gap)
					strong.ResolveDelta(time.Date(2021, time.January, 10, 0, 0, 0, 0, time.UTC))

					race := raceOn("gp", 10, 2021, time.June, 12)
					sys.SimulateRace(race, []model.Result{
						{Rider: "strong", Place: 1},
						{Rider: "weak", Place: 2},
					})

					weak, _ := sys.Rider("weak")
					gain := strong.PendingDelta()
					So(gain, ShouldBeGreaterThan, 0)
					So(gain+weak.PendingDelta(), ShouldAlmostEqual, 0, 1e-9)
					So(gain, ShouldBeLessThan, prevGain)
					prevGain = gain
					sys.ResolveRace(race)
				}
			})
		})
	})
}

func TestEloMalformedPairs(t *testing.T) {
	Convey("Given rows carrying an undetected disqualification", t, func() {
		sys := rating.NewElo()
		race := raceOn("gp-quebec", 6, 2019, time.September, 13)

		Convey("When two rows share a place", func() {
			sys.SimulateRace(race, []model.Result{
				{Rider: "a", Place: 1},
				{Rider: "b", Place: 2},
				{Rider: "c", Place: 2},
			})

			Convey("Then the identical-place pair is skipped, not evaluated", func() {
				b, _ := sys.Rider("b")
				c, _ := sys.Rider("c")
				// b and c each lose only to a; their matched pair must not
				// have produced any movement between them.
				So(b.PendingDelta(), ShouldAlmostEqual, c.PendingDelta(), 1e-9)
				So(b.PendingDelta(), ShouldBeLessThan, 0)
			})
		})
	})
}

func TestEloSeasonRegression(t *testing.T) {
	Convey("Given three riders who finished 1-2-3 once", t, func() {
		sys := rating.NewElo(rating.WithDecayExponents(1.5, 1.8))
		race := raceOn("il-lombardia", 10, 2022, time.October, 8)
		sys.SimulateRace(race, []model.Result{
			{Rider: "first", Place: 1},
			{Rider: "second", Place: 2},
			{Rider: "third", Place: 3},
		})
		sys.ResolveRace(race)

		Convey("When a 0.4 season regression is applied", func() {
			before := make(map[string]float64)
			for _, r := range sys.Riders() {
				before[r.Name] = r.Rating
			}
			sys.NewSeason(2023, 0.4)

			Convey("Then each rating loses 40 percent of its deviation from the default", func() {
				for _, r := range sys.Riders() {
					want := before[r.Name] + 0.4*(model.DefaultRating-before[r.Name])
					So(r.Rating, ShouldAlmostEqual, want, 1e-9)
				}
			})

			Convey("Then a rider sitting exactly at the default is unmoved", func() {
				// second place in a symmetric 3-up finish nets out near zero;
				// construct the exact case directly instead.
				neutral := rating.NewElo()
				neutral.AddRider("flat", 30)
				neutral.NewSeason(2023, 0.4)
				flat, _ := neutral.Rider("flat")
				So(flat.Rating, ShouldEqual, model.DefaultRating)
			})

			Convey("Then the race log gains a season marker", func() {
				races := sys.Races()
				So(races[len(races)-1].Name, ShouldEqual, model.NewSeasonName)
			})
		})

		Convey("When the regression weight is 0", func() {
			before, _ := sys.Rider("first")
			prev := before.Rating
			sys.NewSeason(2023, 0)

			Convey("Then ratings are unchanged", func() {
				So(before.Rating, ShouldEqual, prev)
			})
		})

		Convey("When the regression weight is 1", func() {
			sys.NewSeason(2023, 1)

			Convey("Then every rating is exactly the default", func() {
				for _, r := range sys.Riders() {
					So(r.Rating, ShouldAlmostEqual, model.DefaultRating, 1e-9)
				}
			})
		})
	})
}

func TestEloRankings(t *testing.T) {
	Convey("Given a mixed roster", t, func() {
		sys := rating.NewElo()
		race := raceOn("amstel", 8, 2022, time.April, 10)
		sys.SimulateRace(race, []model.Result{
			{Rider: "winner", Place: 1},
			{Rider: "runner-up", Place: 2},
		})
		sys.ResolveRace(race)

		// A rider created but never raced keeps the activity sentinel.
		sys.AddRider("phantom", 28)

		// A rider last active long ago.
		old := raceOn("old-classic", 8, 2015, time.April, 12)
		sys.SimulateRace(old, []model.Result{
			{Rider: "veteran", Place: 1},
			{Rider: "domestique", Place: 2},
		})
		sys.ResolveRace(old)

		Convey("When ranking as of 2022", func() {
			entries := sys.Rankings(2022, 0, 10)

			Convey("Then inactive riders and never-raced riders are excluded", func() {
				names := make([]string, 0, len(entries))
				for _, e := range entries {
					names = append(names, e.Rider)
				}
				So(names, ShouldNotContain, "phantom")
				So(names, ShouldNotContain, "veteran")
				So(names, ShouldNotContain, "domestique")
			})

			Convey("Then the order is rating descending with ranks assigned", func() {
				So(entries, ShouldHaveLength, 2)
				So(entries[0].Rider, ShouldEqual, "winner")
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[1].Rider, ShouldEqual, "runner-up")
				So(entries[1].Rating, ShouldBeLessThan, entries[0].Rating)
			})
		})

		Convey("When ranking with a floor above the loser's rating", func() {
			entries := sys.Rankings(2022, model.DefaultRating, 10)

			Convey("Then only the winner clears the floor", func() {
				So(entries, ShouldHaveLength, 1)
				So(entries[0].Rider, ShouldEqual, "winner")
			})
		})

		Convey("When ranking with a limit of 1", func() {
			entries := sys.Rankings(2022, 0, 1)

			Convey("Then the list is capped", func() {
				So(entries, ShouldHaveLength, 1)
			})
		})

		Convey("When ranking as of 2016", func() {
			entries := sys.Rankings(2016, 0, 10)

			Convey("Then the veteran's era is visible", func() {
				names := make([]string, 0, len(entries))
				for _, e := range entries {
					names = append(names, e.Rider)
				}
				So(names, ShouldContain, "veteran")
			})
		})
	})
}

func TestEloMarginOfVictory(t *testing.T) {
	Convey("Given the margin-of-victory factor enabled", t, func() {
		run := func(gap time.Duration, mult float64) float64 {
			opts := []rating.EloOption{}
			if mult > 0 {
				opts = append(opts, rating.WithTimegapMultiplier(mult))
			}
			sys := rating.NewElo(opts...)
			race := raceOn("itt", 10, 2022, time.July, 1)
			sys.SimulateRace(race, []model.Result{
				{Rider: "w", Place: 1, Gap: 0},
				{Rider: "l", Place: 2, Gap: gap},
			})
			w, _ := sys.Rider("w")
			return w.PendingDelta()
		}

		Convey("When the winning gap grows", func() {
			Convey("Then the winner's gain grows with it", func() {
				So(run(10*time.Minute, 3), ShouldBeGreaterThan, run(10*time.Second, 3))
			})
		})

		Convey("When the multiplier is disabled", func() {
			Convey("Then the gap has no influence", func() {
				So(run(10*time.Minute, 0), ShouldAlmostEqual, run(1*time.Second, 0), 1e-9)
			})
		})

		Convey("When gaps are present either way", func() {
			Convey("Then the delta pair still cancels exactly", func() {
				sys := rating.NewElo(rating.WithTimegapMultiplier(5))
				race := raceOn("itt", 10, 2022, time.July, 1)
				sys.SimulateRace(race, []model.Result{
					{Rider: "w", Place: 1},
					{Rider: "l", Place: 2, Gap: 3 * time.Minute},
				})
				w, _ := sys.Rider("w")
				l, _ := sys.Rider("l")
				So(w.PendingDelta()+l.PendingDelta(), ShouldAlmostEqual, 0, 1e-9)
			})
		})
	})
}
