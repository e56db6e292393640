package rating

import (
	"fmt"
	"math"
)

// Volatility solver constants.
const (
	// solverTolerance is the |B-A| width at which iteration stops.
	solverTolerance = 1e-6

	// solverMaxIterations bounds the Illinois loop; with a valid bracket the
	// solver converges in far fewer steps across realistic inputs.
	solverMaxIterations = 100

	// solverMaxBracketSteps bounds the downward search for the lower
	// bracket endpoint.
	solverMaxBracketSteps = 1000
)

// solveVolatility finds the updated volatility sigma' by locating the root
// of
//
//	f(x) = e^x (Δ² - φ² - v - e^x) / (2 (φ² + v + e^x)²) - (x - a) / τ²
//
// with a = ln(σ²), using the Illinois variant of regula falsi. It returns
// sigma' and the number of iterations used.
//
// Bracketing cannot fail when τ, φ, and v are positive, which they are by
// construction; a failure here is an invariant violation from a bug in the
// caller, so it halts with a diagnostic instead of returning a wrong value.
func solveVolatility(phi, v, delta, sigma, tau float64) (float64, int) {
	if tau <= 0 || phi <= 0 || v <= 0 {
		panic(fmt.Sprintf("rating: volatility solve with non-positive inputs (tau=%g phi=%g v=%g)", tau, phi, v))
	}

	a := math.Log(sigma * sigma)
	f := func(x float64) float64 {
		ex := math.Exp(x)
		num := ex * (delta*delta - phi*phi - v - ex)
		den := 2 * (phi*phi + v + ex) * (phi*phi + v + ex)
		return num/den - (x-a)/(tau*tau)
	}

	// Bracket construction: A sits at a; B is the analytic solution of the
	// first term's sign change when it exists, otherwise found by stepping
	// down from a in units of tau until f turns non-negative.
	bigA := a
	var bigB float64
	if delta*delta > phi*phi+v {
		bigB = math.Log(delta*delta - phi*phi - v)
	} else {
		k := 1
		for f(a-float64(k)*tau) < 0 {
			k++
			if k > solverMaxBracketSteps {
				panic(fmt.Sprintf("rating: volatility bracket search exhausted (phi=%g v=%g delta=%g tau=%g)", phi, v, delta, tau))
			}
		}
		bigB = a - float64(k)*tau
	}

	fA := f(bigA)
	fB := f(bigB)
	if fA*fB > 0 {
		panic(fmt.Sprintf("rating: volatility bracket endpoints share a sign (f(A)=%g f(B)=%g)", fA, fB))
	}

	iterations := 0
	for math.Abs(bigB-bigA) > solverTolerance && iterations < solverMaxIterations {
		iterations++

		c := bigA + (bigA-bigB)*fA/(fB-fA)
		fC := f(c)

		if fB*fC <= 0 {
			bigA, fA = bigB, fB
		} else {
			// Illinois step: halve the retained endpoint's value so a
			// stagnant bracket side cannot stall convergence.
			fA /= 2
		}
		bigB, fB = c, fC
	}

	return math.Exp(bigA / 2), iterations
}
