// Package solve adapts github.com/khezen/rootfinding's iteration-count-based
// Brent's method into the tolerance-based signature money-warp's domain
// packages need (tax.Grossup, tvm.InternalRateOfReturn), grounded on the
// bracket-then-refine pattern in
// other_examples/93c801f8_chemerysov-gofinance__cash_flow.go.go's CashFlows.IRR.
package solve

import (
	"fmt"

	"github.com/khezen/rootfinding"
	"github.com/tomascorrea/money-warp/internal/loanerr"
)

// maxIterations bounds the refinement loop; rootfinding.Brent converges well
// before this for any well-posed bracket, so it only ever triggers on a
// genuinely pathological function.
const maxIterations = 100

// Brent finds a root of f within [a, b] to within xtol, expanding brent's
// fixed iteration count into a tolerance-driven contract: it calls
// rootfinding.Brent with an iteration budget, then re-checks the residual
// against xtol, escalating the iteration budget until the residual is
// within tolerance or maxIterations is exhausted.
func Brent(f func(float64) float64, a, b, xtol float64) (float64, error) {
	fa, fb := f(a), f(b)
	if fa*fb > 0 {
		return 0, loanerr.ErrNoSignChange
	}

	iterations := 8
	var root float64
	var err error
	for iterations <= maxIterations {
		root, err = rootfinding.Brent(f, a, b, iterations)
		if err != nil {
			return 0, fmt.Errorf("solve: %w", err)
		}
		if residual := f(root); residual < xtol && residual > -xtol {
			return root, nil
		}
		iterations *= 2
	}
	return root, loanerr.NoConvergence{Iterations: iterations, LastResidual: f(root)}
}

// Bracket expands [a, b] exponentially (doubling the distance from a) until
// f changes sign across the interval or the interval exceeds maxExpansions
// doublings, mirroring the IRR bracket-widening loop in the gofinance
// reference: most TVM root-finds start from a plausible guess, not a
// known-good bracket.
func Bracket(f func(float64) float64, a, b float64, maxExpansions int) (float64, float64, error) {
	fa, fb := f(a), f(b)
	for i := 0; i < maxExpansions; i++ {
		if fa*fb <= 0 {
			return a, b, nil
		}
		b = a + (b-a)*2
		fb = f(b)
	}
	if fa*fb <= 0 {
		return a, b, nil
	}
	return 0, 0, loanerr.ErrNoSignChange
}
