package mcmc

import (
	"fmt"
	"math"

	"github.com/san-kum/mcsim/internal/rng"
)

// Accept applies the Metropolis criterion to candidate. It returns the state
// the chain moves to and whether the candidate was accepted.
//
// A candidate outside bounds is rejected without touching the target or the
// source. A candidate with density at least that of current (and strictly
// positive) is accepted without a draw. Otherwise exactly one uniform is
// drawn and the candidate is accepted with probability P(x')/P(x); when
// P(x) is zero the ratio is undefined and the candidate is rejected.
//
// Targets implementing LogTarget are compared in log space with the same
// evaluation order and draw count.
func Accept(src rng.Source, target Target, bounds Range, current, candidate State) (State, bool, error) {
	if !bounds.Contains(candidate) {
		return current, false, nil
	}
	if lt, ok := target.(LogTarget); ok {
		return acceptLog(src, lt, current, candidate)
	}

	pNext, err := evaluate(target, candidate)
	if err != nil {
		return current, false, err
	}
	pCur, err := evaluate(target, current)
	if err != nil {
		return current, false, err
	}

	if pNext >= pCur && pNext > 0 {
		return candidate, true, nil
	}

	u := src.Float64()
	if pCur > 0 && u < pNext/pCur {
		return candidate, true, nil
	}
	return current, false, nil
}

func evaluate(target Target, x State) (float64, error) {
	p, err := target.Density(x)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return 0, fmt.Errorf("%w: got %g", ErrInvalidDensity, p)
	}
	return p, nil
}

func acceptLog(src rng.Source, target LogTarget, current, candidate State) (State, bool, error) {
	lNext, err := evaluateLog(target, candidate)
	if err != nil {
		return current, false, err
	}
	lCur, err := evaluateLog(target, current)
	if err != nil {
		return current, false, err
	}

	if lNext >= lCur && !math.IsInf(lNext, -1) {
		return candidate, true, nil
	}

	u := src.Float64()
	if !math.IsInf(lCur, -1) && math.Log(u) < lNext-lCur {
		return candidate, true, nil
	}
	return current, false, nil
}

func evaluateLog(target LogTarget, x State) (float64, error) {
	l, err := target.LogDensity(x)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(l) || math.IsInf(l, 1) {
		return 0, fmt.Errorf("%w: log density %g", ErrInvalidDensity, l)
	}
	return l, nil
}
