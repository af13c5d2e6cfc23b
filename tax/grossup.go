package tax

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/tomascorrea/money-warp/internal/loanerr"
	"github.com/tomascorrea/money-warp/internal/solve"
	"github.com/tomascorrea/money-warp/money"
	"github.com/tomascorrea/money-warp/rate"
	"github.com/tomascorrea/money-warp/scheduler"
)

// defaultTolerance is the absolute tolerance the bracketed root-finder is
// held to when the caller does not override it via WithTolerance.
const defaultTolerance = 1e-4

// maxCentSearch bounds the post-convergence cent-snapping walk so a
// pathological tax function can never spin forever.
const maxCentSearch = 1000

// GrossupOption configures optional Grossup behavior.
type GrossupOption func(*grossupConfig)

type grossupConfig struct {
	logger    zerolog.Logger
	tolerance float64
}

// WithLogger attaches a logger reporting the solved principal and the number
// of cent-snapping steps taken. Unset defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) GrossupOption {
	return func(c *grossupConfig) { c.logger = logger }
}

// WithTolerance overrides the absolute tolerance passed to the bracketed
// root-finder, e.g. sourced from a process-wide config default.
func WithTolerance(tolerance float64) GrossupOption {
	return func(c *grossupConfig) { c.tolerance = tolerance }
}

// Grossup solves for a principal P such that P minus the tax withheld on a
// schedule built from P covers requestedAmount, then snaps P to the
// smallest cent-aligned value satisfying that post-condition. Newton-style
// solvers stall on the cent-rounded, stair-step shape of totalTax(P); a
// bracketed method (Brent's, via internal/solve) is required.
func Grossup(requestedAmount money.Money, r rate.InterestRate, dueDates []time.Time, disbursement time.Time, sched scheduler.Scheduler, taxes BaseTax, opts ...GrossupOption) (money.Money, error) {
	cfg := grossupConfig{logger: zerolog.Nop(), tolerance: defaultTolerance}
	for _, opt := range opts {
		opt(&cfg)
	}

	requested := requestedAmount.Real()
	requestedFloat, _ := requested.Float64()
	if requestedFloat <= 0 {
		return money.Money{}, loanerr.InvalidInput{Field: "requestedAmount", Reason: "must be positive"}
	}

	totalTax := func(principal money.Money) (money.Money, error) {
		sch, err := sched.GenerateSchedule(principal, r, dueDates, disbursement)
		if err != nil {
			return money.Money{}, err
		}
		result, err := taxes.Calculate(sch, disbursement)
		if err != nil {
			return money.Money{}, err
		}
		return result.Total, nil
	}

	f := func(p float64) float64 {
		principal, err := money.FromFloat(p)
		if err != nil {
			return 0
		}
		tax, err := totalTax(principal)
		if err != nil {
			return 0
		}
		residual := principal.Sub(requestedAmount).Sub(tax)
		v, _ := residual.Real().Float64()
		return v
	}

	root, err := solve.Brent(f, requestedFloat, 2*requestedFloat, cfg.tolerance)
	if err != nil {
		return money.Money{}, err
	}

	centsGuess := int64(root*100 + 0.5)
	for offset := int64(-1); offset <= maxCentSearch; offset++ {
		candidate := money.FromCents(centsGuess + offset)
		tax, err := totalTax(candidate)
		if err != nil {
			return money.Money{}, err
		}
		if candidate.Sub(tax).GreaterThanOrEqual(requestedAmount) {
			cfg.logger.Debug().
				Str("requested", requestedAmount.String()).
				Str("principal", candidate.String()).
				Int64("cent_offset", offset).
				Msg("grossup solved")
			return candidate, nil
		}
	}
	return money.Money{}, loanerr.NoConvergence{Iterations: maxCentSearch, LastResidual: f(root)}
}
