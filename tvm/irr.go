package tvm

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tomascorrea/money-warp/cashflow"
	"github.com/tomascorrea/money-warp/internal/loanerr"
	"github.com/tomascorrea/money-warp/internal/solve"
	"github.com/tomascorrea/money-warp/rate"
)

// irrCandidates are the annual-rate guesses tried in order when bracketing
// a root for InternalRateOfReturn.
var irrCandidates = []float64{-0.5, -0.1, 0.01, 0.05, 0.10, 0.15, 0.25, 0.50, 1.0, 2.0}

// irrTolerance is the default absolute tolerance held by the bracketed
// root-finder when the caller does not override it via WithTolerance.
const irrTolerance = 1e-4
const irrMaxNPV = 500.0

// Option configures optional InternalRateOfReturn behavior.
type Option func(*irrConfig)

type irrConfig struct {
	tolerance float64
}

// WithTolerance overrides the absolute tolerance passed to the bracketed
// root-finder, e.g. sourced from a process-wide config default.
func WithTolerance(tolerance float64) Option {
	return func(c *irrConfig) { c.tolerance = tolerance }
}

// InternalRateOfReturn finds the annual rate r for which NPV(flow, r) == 0,
// bracket-searching over a fixed candidate ladder (plus an optional caller
// guess), refining with a bracketed root-finder, and falling back to an
// unbounded solver seeded by the guess when no candidate pair brackets a
// root. The result is tagged rate.Annual with yearSize.
func InternalRateOfReturn(flow *cashflow.Flow, yearSize rate.YearSize, guess *float64, opts ...Option) (rate.InterestRate, error) {
	cfg := irrConfig{tolerance: irrTolerance}
	for _, opt := range opts {
		opt(&cfg)
	}

	entries := flow.Entries()
	if !hasSignChange(entries) {
		return rate.InterestRate{}, loanerr.ErrNoSignChange
	}

	anchor := earliestDate(entries)
	npvAt := func(annual float64) float64 {
		r := rate.New(decimal.NewFromFloat(annual), rate.Annual, rate.WithYearSize(yearSize))
		v := PresentValue(flow, r, anchor)
		f, _ := v.Real().Float64()
		return f
	}

	candidates := make([]float64, len(irrCandidates))
	copy(candidates, irrCandidates)
	if guess != nil {
		candidates = append(candidates, *guess)
	}

	var root float64
	var found bool
	var err error
	for i := 0; i < len(candidates)-1; i++ {
		a, b := candidates[i], candidates[i+1]
		if npvAt(a)*npvAt(b) <= 0 {
			root, err = solve.Brent(npvAt, a, b, cfg.tolerance)
			if err == nil {
				found = true
				break
			}
		}
	}

	if !found {
		seed := 0.15
		if guess != nil {
			seed = *guess
		}
		a, b, bracketErr := solve.Bracket(npvAt, seed-0.5, seed+0.5, 20)
		if bracketErr != nil {
			return rate.InterestRate{}, loanerr.ErrNoConvergence
		}
		root, err = solve.Brent(npvAt, a, b, cfg.tolerance)
		if err != nil {
			return rate.InterestRate{}, loanerr.NoConvergence{Iterations: 0, LastResidual: npvAt(root)}
		}
	}

	residual := npvAt(root)
	if residual > irrMaxNPV || residual < -irrMaxNPV {
		return rate.InterestRate{}, loanerr.NoConvergence{Iterations: 0, LastResidual: residual}
	}
	if root < -0.99 || root > 10.0 {
		return rate.InterestRate{}, loanerr.NoConvergence{Iterations: 0, LastResidual: residual}
	}

	return rate.New(decimal.NewFromFloat(root), rate.Annual, rate.WithYearSize(yearSize)), nil
}

func hasSignChange(entries []cashflow.Entry) bool {
	sawPositive, sawNegative := false, false
	for _, e := range entries {
		if e.Amount.IsPositive() {
			sawPositive = true
		}
		if e.Amount.IsNegative() {
			sawNegative = true
		}
	}
	return sawPositive && sawNegative
}

func earliestDate(entries []cashflow.Entry) time.Time {
	if len(entries) == 0 {
		return time.Time{}
	}
	earliest := entries[0].DateTime
	for _, e := range entries[1:] {
		if e.DateTime.Before(earliest) {
			earliest = e.DateTime
		}
	}
	return earliest
}

// ModifiedInternalRateOfReturn computes (FV_positives / |PV_negatives|)^(1/n) - 1
// where n is the total span in years (totalDays / yearSize). Fails if the
// flow has no negative or no positive entries.
func ModifiedInternalRateOfReturn(flow *cashflow.Flow, financeRate, reinvestmentRate decimal.Decimal, yearSize rate.YearSize) (decimal.Decimal, error) {
	entries := flow.Entries()
	if len(entries) == 0 {
		return decimal.Zero, loanerr.ErrNoSignChange
	}
	anchor := earliestDate(entries)
	latest := anchor
	for _, e := range entries {
		if e.DateTime.After(latest) {
			latest = e.DateTime
		}
	}

	financing := rate.New(financeRate, rate.Annual, rate.WithYearSize(yearSize))
	reinvestment := rate.New(reinvestmentRate, rate.Annual, rate.WithYearSize(yearSize))
	financingDaily := financing.DailyRate()
	reinvestmentDaily := reinvestment.DailyRate()

	pvNegatives := decimal.Zero
	fvPositives := decimal.Zero
	sawNegative, sawPositive := false, false

	for _, e := range entries {
		days := int(e.DateTime.Sub(anchor).Hours() / 24)
		if e.Amount.IsNegative() {
			sawNegative = true
			factor := decimal.NewFromInt(1).Div(rate.Pow(decimal.NewFromInt(1).Add(financingDaily), float64(days)))
			pvNegatives = pvNegatives.Add(e.Amount.Abs().Real().Mul(factor))
		} else if e.Amount.IsPositive() {
			sawPositive = true
			remainingDays := int(latest.Sub(e.DateTime).Hours() / 24)
			factor := rate.Pow(decimal.NewFromInt(1).Add(reinvestmentDaily), float64(remainingDays))
			fvPositives = fvPositives.Add(e.Amount.Real().Mul(factor))
		}
	}

	if !sawNegative || !sawPositive {
		return decimal.Zero, loanerr.ErrNoSignChange
	}

	totalDays := latest.Sub(anchor).Hours() / 24
	n := totalDays / float64(yearSize)
	if n <= 0 {
		return decimal.Zero, loanerr.InvalidInput{Field: "flow", Reason: "total span must be positive"}
	}

	ratio := fvPositives.Div(pvNegatives)
	return rate.Pow(ratio, 1/n).Sub(decimal.NewFromInt(1)), nil
}
