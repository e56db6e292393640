package rating

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSolveVolatility(t *testing.T) {
	Convey("Given realistic solver inputs", t, func() {
		phis := []float64{30 / glickoScale, 80 / glickoScale, 200 / glickoScale, 350 / glickoScale}
		vs := []float64{0.5, 1.2, 3.0, 10.0}
		deltas := []float64{-1.5, -0.2, 0, 0.3, 1.8}
		taus := []float64{0.05, 0.2, 0.3}

		Convey("When solving across the whole matrix", func() {
			Convey("Then every solve converges to a positive volatility within tolerance", func() {
				for _, phi := range phis {
					for _, v := range vs {
						for _, delta := range deltas {
							for _, tau := range taus {
								sigma, iterations := solveVolatility(phi, v, delta, 0.06, tau)

								So(math.IsNaN(sigma), ShouldBeFalse)
								So(sigma, ShouldBeGreaterThan, 0)
								So(iterations, ShouldBeLessThan, solverMaxIterations)
							}
						}
					}
				}
			})
		})

		Convey("When the outcome matches expectation exactly", func() {
			sigma, _ := solveVolatility(80/glickoScale, 1.5, 0, 0.06, 0.2)

			Convey("Then volatility stays near its prior", func() {
				So(sigma, ShouldAlmostEqual, 0.06, 0.01)
			})
		})

		Convey("When a surprising result forces the iterative bracket", func() {
			// delta^2 well below phi^2+v exercises the step-down search.
			sigma, iterations := solveVolatility(300/glickoScale, 8.0, 0.1, 0.06, 0.05)

			So(sigma, ShouldBeGreaterThan, 0)
			So(iterations, ShouldBeLessThan, solverMaxIterations)
		})

		Convey("When called with a non-positive tau", func() {
			Convey("Then the invariant violation halts loudly", func() {
				So(func() { solveVolatility(0.5, 1.0, 0.1, 0.06, 0) }, ShouldPanic)
			})
		})

		Convey("When called with a non-positive variance", func() {
			Convey("Then the invariant violation halts loudly", func() {
				So(func() { solveVolatility(0.5, 0, 0.1, 0.06, 0.2) }, ShouldPanic)
			})
		})
	})
}
