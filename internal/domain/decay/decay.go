// Package decay maps a race importance weight to per-matchup weights.
//
// The head-to-head between the race winner and second place should move
// ratings more than the 10th place rider matched against the 50th. Weights
// therefore drop as the better-placed rider's absolute place worsens and as
// the gap between the two places widens.
package decay

import (
	"fmt"
	"math"
)

// Func computes the weight of one head-to-head. p1 and p2 are the two
// riders' places with p1 < p2; callers must skip pairs with p1 >= p2 before
// reaching a Func, as equal places are malformed input (an undetected
// disqualification) and not defined here.
type Func func(raceWeight float64, p1, p2 int, alpha, beta float64) float64

// Keywords accepted in configuration.
const (
	KeywordPower     = "power"
	KeywordLogistic  = "logistic"
	KeywordLinear    = "linear"
	KeywordPiecewise = "piecewise"
)

// Logistic curve parameters, tuned on historical results.
const (
	logisticSteepness  = 0.3
	logisticInflection = 12
)

// linearZeroThreshold zeroes matchups whose place gap is implausibly wide.
const linearZeroThreshold = 50

// ByName resolves a configuration keyword to a decay function.
func ByName(name string) (Func, error) {
	switch name {
	case "", KeywordPower:
		return Power, nil
	case KeywordLogistic:
		return Logistic, nil
	case KeywordLinear:
		return Linear, nil
	case KeywordPiecewise:
		return Piecewise, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunc, name)
	}
}

// Power scales the race weight first by the absolute place of the better
// rider and then by the relative gap:
//
//	out = w * (p1 / p1^alpha) * ((p2-p1) / (p2-p1)^beta)
//
// Higher alpha steepens decay with absolute place; higher beta steepens
// decay with the place gap.
func Power(raceWeight float64, p1, p2 int, alpha, beta float64) float64 {
	fp1 := float64(p1)
	gap := float64(p2 - p1)

	out := raceWeight * (fp1 / math.Pow(fp1, alpha))
	out *= gap / math.Pow(gap, beta)
	return out
}

// Logistic decays only with the better rider's absolute place, along a
// logistic curve inflecting near the edge of a typical front group.
func Logistic(raceWeight float64, p1, _ int, _, _ float64) float64 {
	w := raceWeight / (1 + math.Exp(-logisticSteepness*float64(logisticInflection-p1)))
	return math.Max(0, w)
}

// Linear decays with the square root of the better place and linearly with
// the gap, zeroing out beyond linearZeroThreshold places of separation.
func Linear(raceWeight float64, p1, p2 int, _, _ float64) float64 {
	gap := p2 - p1
	if gap > linearZeroThreshold {
		return 0
	}
	return raceWeight / math.Sqrt(float64(p1)) / float64(gap)
}

// Piecewise decays polynomially with the better place and with the ratio of
// the two places.
func Piecewise(raceWeight float64, p1, p2 int, _, _ float64) float64 {
	return raceWeight / math.Pow(float64(p1), 1.3) * (float64(p1) / float64(p2))
}
