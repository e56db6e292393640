package model_test

import (
	"testing"
	"time"

	"github.com/SamMorton123/velo-research/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRider(t *testing.T) {
	Convey("Given a freshly created rider", t, func() {
		r := model.NewRider("tadej-pogacar", 23)

		Convey("Then the defaults apply", func() {
			So(r.Rating, ShouldEqual, model.DefaultRating)
			So(r.PendingDelta(), ShouldEqual, 0)
			So(r.MostRecentActiveYear, ShouldEqual, model.SentinelActiveYear)
		})

		Convey("Then the history opens with a season-marker snapshot", func() {
			hist := r.History()
			So(hist, ShouldHaveLength, 1)
			So(hist[0].Rating, ShouldEqual, model.DefaultRating)
			So(hist[0].NewSeason, ShouldBeTrue)
		})

		Convey("When deltas are accumulated and resolved", func() {
			raceDay := time.Date(2022, time.July, 24, 0, 0, 0, 0, time.UTC)
			r.AccumulateDelta(4.5)
			r.AccumulateDelta(-1.5)

			Convey("Then the rating is untouched until resolution", func() {
				So(r.Rating, ShouldEqual, model.DefaultRating)
				So(r.PendingDelta(), ShouldEqual, 3.0)
			})

			Convey("And after resolving", func() {
				r.ResolveDelta(raceDay)

				Convey("Then the delta is committed and cleared", func() {
					So(r.Rating, ShouldEqual, model.DefaultRating+3.0)
					So(r.PendingDelta(), ShouldEqual, 0)
				})

				Convey("Then the rider counts as active that year", func() {
					So(r.MostRecentActiveYear, ShouldEqual, 2022)
				})

				Convey("Then a dated snapshot is appended", func() {
					hist := r.History()
					So(hist, ShouldHaveLength, 2)
					So(hist[1].Date, ShouldResemble, raceDay)
					So(r.LastChange(), ShouldAlmostEqual, 3.0)
				})
			})
		})

		Convey("When a zero delta is resolved", func() {
			r.ResolveDelta(time.Date(2022, time.March, 5, 0, 0, 0, 0, time.UTC))

			Convey("Then the activity year keeps its sentinel", func() {
				So(r.MostRecentActiveYear, ShouldEqual, model.SentinelActiveYear)
			})

			Convey("Then a snapshot is still recorded", func() {
				So(r.History(), ShouldHaveLength, 2)
			})
		})

		Convey("When regressing to the mean with weight 0.4", func() {
			r.AccumulateDelta(100)
			r.ResolveDelta(time.Date(2022, time.August, 1, 0, 0, 0, 0, time.UTC))
			r.RegressToMean(2023, 0.4)

			Convey("Then 40 percent of the deviation from the default is removed", func() {
				So(r.Rating, ShouldAlmostEqual, model.DefaultRating+60)
			})

			Convey("Then the snapshot carries the season marker", func() {
				hist := r.History()
				So(hist[len(hist)-1].NewSeason, ShouldBeTrue)
			})
		})
	})
}

func TestRiderRaceHistory(t *testing.T) {
	Convey("Given a rider and a race", t, func() {
		r := model.NewRider("wout-van-aert", 27)
		race := model.Race{
			Name:   "paris-roubaix",
			Weight: 8,
			Date:   time.Date(2022, time.April, 17, 0, 0, 0, 0, time.UTC),
		}

		Convey("When the race is added twice", func() {
			first := r.AddRace(race)
			second := r.AddRace(race)

			Convey("Then only the first add is kept", func() {
				So(first, ShouldBeTrue)
				So(second, ShouldBeFalse)
				So(r.RaceHistory(), ShouldHaveLength, 1)
			})
		})

		Convey("When another edition of the same race is added", func() {
			r.AddRace(race)
			later := race
			later.Date = race.Date.AddDate(1, 0, 0)

			Convey("Then it counts as a distinct race", func() {
				So(r.AddRace(later), ShouldBeTrue)
				So(r.RaceHistory(), ShouldHaveLength, 2)
			})
		})
	})
}

func TestGlickoRider(t *testing.T) {
	Convey("Given a rider created with Glicko seeds", t, func() {
		r := model.NewGlickoRider("annemiek-van-vleuten", 39, 1500, 350, 0.06)

		Convey("Then deviation and volatility are tracked", func() {
			So(r.Deviation, ShouldEqual, 350)
			So(r.Volatility, ShouldEqual, 0.06)
		})

		Convey("When a new state is committed as a participant", func() {
			day := time.Date(2022, time.September, 18, 0, 0, 0, 0, time.UTC)
			r.CommitRating(1530, 290, 0.059, day, true)

			Convey("Then all three values move and the rider is active", func() {
				So(r.Rating, ShouldEqual, 1530)
				So(r.Deviation, ShouldEqual, 290)
				So(r.Volatility, ShouldEqual, 0.059)
				So(r.MostRecentActiveYear, ShouldEqual, 2022)
			})
		})

		Convey("When a state is committed as a non-participant", func() {
			day := time.Date(2022, time.September, 18, 0, 0, 0, 0, time.UTC)
			r.CommitRating(r.Rating, 360, r.Volatility, day, false)

			Convey("Then the activity year keeps its sentinel", func() {
				So(r.MostRecentActiveYear, ShouldEqual, model.SentinelActiveYear)
				So(r.Deviation, ShouldEqual, 360)
			})
		})
	})
}

func TestRace(t *testing.T) {
	Convey("Given two race records", t, func() {
		date := time.Date(2021, time.June, 6, 0, 0, 0, 0, time.UTC)
		a := model.Race{Name: "dauphine", Weight: 7, Date: date}
		b := model.Race{Name: "dauphine", Weight: 3, Date: date}

		Convey("Then identity ignores the weight", func() {
			So(a.Same(b), ShouldBeTrue)
			So(a.Key(), ShouldEqual, "dauphine|2021-06-06")
		})

		Convey("Then a different date is a different race", func() {
			c := a
			c.Date = date.AddDate(1, 0, 0)
			So(a.Same(c), ShouldBeFalse)
		})
	})
}
