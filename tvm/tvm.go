// Package tvm provides the time-value-of-money primitives shared by the
// loan engine and standalone callers: discount factors, present value /
// net present value, annuity and perpetuity closed forms, and internal
// rate of return via bracketed root-finding, grounded on the
// bracket-search-then-Brent pattern in
// other_examples/93c801f8_chemerysov-gofinance__cash_flow.go.go.
package tvm

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tomascorrea/money-warp/cashflow"
	"github.com/tomascorrea/money-warp/internal/loanerr"
	"github.com/tomascorrea/money-warp/internal/solve"
	"github.com/tomascorrea/money-warp/money"
	"github.com/tomascorrea/money-warp/rate"
)

// Timing controls whether an annuity's payments fall at the end or
// beginning of each period.
type Timing int

const (
	End Timing = iota
	Begin
)

// DiscountFactor returns 1 / (1+ratePerPeriod)^periods. periods may be
// fractional.
func DiscountFactor(ratePerPeriod decimal.Decimal, periods float64) decimal.Decimal {
	onePlus := decimal.NewFromInt(1).Add(ratePerPeriod)
	return decimal.NewFromInt(1).Div(rate.Pow(onePlus, periods))
}

// PresentValue discounts every entry in flow back to valuationDate using r's
// daily rate, summing the result. A past entry (days < 0 relative to
// valuationDate) is treated as same-day: its day count clamps to zero.
// NetPresentValue is an alias for the same computation — the two names must
// always agree.
func PresentValue(flow *cashflow.Flow, r rate.InterestRate, valuationDate time.Time) money.Money {
	daily := r.DailyRate()
	onePlusDaily := decimal.NewFromInt(1).Add(daily)

	total := money.Zero
	for _, entry := range flow.Entries() {
		days := int(entry.DateTime.Sub(valuationDate).Hours() / 24)
		if days < 0 {
			days = 0
		}
		factor := decimal.NewFromInt(1).Div(rate.Pow(onePlusDaily, float64(days)))
		total = total.Add(entry.Amount.Mul(factor))
	}
	return total
}

// NetPresentValue is the same function as PresentValue: present value and
// net present value are defined to be identical for a single cash-flow
// input.
func NetPresentValue(flow *cashflow.Flow, r rate.InterestRate, valuationDate time.Time) money.Money {
	return PresentValue(flow, r, valuationDate)
}

// PresentValueOfAnnuity discounts n level payments of pmt at ratePerPeriod,
// paid at the end or beginning of each period.
func PresentValueOfAnnuity(pmt money.Money, ratePerPeriod decimal.Decimal, n int, timing Timing) money.Money {
	if ratePerPeriod.IsZero() {
		return pmt.Mul(decimal.NewFromInt(int64(n)))
	}
	onePlus := decimal.NewFromInt(1).Add(ratePerPeriod)
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromInt(1).Div(rate.Pow(onePlus, float64(n)))).Div(ratePerPeriod)
	pv := pmt.Mul(factor)
	if timing == Begin {
		pv = pv.Mul(onePlus)
	}
	return pv
}

// PresentValueOfPerpetuity returns pmt / ratePerPeriod. Fails when
// ratePerPeriod <= 0.
func PresentValueOfPerpetuity(pmt money.Money, ratePerPeriod decimal.Decimal) (money.Money, error) {
	if ratePerPeriod.Sign() <= 0 {
		return money.Money{}, loanerr.InvalidInput{Field: "ratePerPeriod", Reason: "must be positive for a perpetuity"}
	}
	return pmt.Div(ratePerPeriod), nil
}
