package loan

import (
	"time"

	"github.com/tomascorrea/money-warp/cashflow"
	"github.com/tomascorrea/money-warp/money"
	"github.com/tomascorrea/money-warp/rate"
	"github.com/tomascorrea/money-warp/scheduler"
	"github.com/tomascorrea/money-warp/tvm"
)

// AccruedInterest returns the regular plus mora interest owed as of now,
// given the current principal balance and interest cutoff.
func (l *Loan) AccruedInterest() money.Money {
	regular, mora, _, _ := l.interestSplit(l.now())
	return regular.Add(mora)
}

// taxResult computes and caches the attached tax strategy's result against
// the immutable original schedule. The cache never needs invalidation
// because its only input, the original schedule, never changes after
// construction.
func (l *Loan) taxResult() (money.Money, error) {
	if l.taxes == nil {
		return money.Zero, nil
	}
	if l.cachedTax == nil {
		result, err := l.taxes.Calculate(l.originalSchedule, l.disbursement)
		if err != nil {
			return money.Money{}, err
		}
		l.cachedTax = &result
	}
	return l.cachedTax.Total, nil
}

// GenerateExpectedCashFlow builds the loan's expected cash-flow plan from
// the original schedule: a disbursement entry (net of tax when a tax
// strategy is attached, alongside a separate expected_tax entry so NPV and
// IRR naturally account for withholding), followed by one expected_interest
// and expected_principal entry per scheduled period.
func (l *Loan) GenerateExpectedCashFlow() (*cashflow.Flow, error) {
	totalTax, err := l.taxResult()
	if err != nil {
		return nil, err
	}

	flow := cashflow.NewFlow(l.ctx)
	netDisbursement := l.principal.Sub(totalTax)
	flow.Add(cashflow.NewEntry(netDisbursement, l.disbursement, "disbursement", cashflow.ExpectedDisbursement))
	if l.taxes != nil {
		flow.Add(cashflow.NewEntry(totalTax.Neg(), l.disbursement, "withheld tax", cashflow.ExpectedTax))
	}

	for _, e := range l.originalSchedule.Entries {
		flow.Add(cashflow.NewEntry(e.InterestPayment.Neg(), e.DueDate, "scheduled interest", cashflow.ExpectedInterest))
		flow.Add(cashflow.NewEntry(e.PrincipalPayment.Neg(), e.DueDate, "scheduled principal", cashflow.ExpectedPrincipal))
	}
	return flow, nil
}

// GetAmortizationSchedule returns past entries derived from actual payments
// followed by a freshly-computed projection over the remaining due dates,
// using the same scheduler class, the current remaining principal, and the
// last payment date (or disbursement, if none) as the projection's
// disbursement reference. Due dates explicitly anticipated via
// AnticipatePayment(installments=...) are skipped in the projection.
func (l *Loan) GetAmortizationSchedule() (scheduler.Schedule, error) {
	settlements := l.Settlements()
	past := make([]scheduler.Entry, 0, len(settlements))
	for _, s := range settlements {
		past = append(past, scheduler.Entry{
			DueDate:          s.PaymentDate,
			PrincipalPayment: s.PrincipalPaid,
			InterestPayment:  s.InterestPaid.Add(s.MoraPaid),
			PaymentAmount:    s.PaymentAmount,
			EndingBalance:    s.RemainingBalance,
		})
	}

	coveredCount := l.coveredInstallments()
	remainingDueDates := make([]time.Time, 0, len(l.dueDates)-coveredCount)
	for _, d := range l.dueDates[coveredCount:] {
		if !l.anticipatedDueDates[d] {
			remainingDueDates = append(remainingDueDates, d)
		}
	}

	if l.remainingPrincipal.IsZero() || len(remainingDueDates) == 0 {
		return scheduler.Schedule{Entries: past}, nil
	}

	projectionAnchor := l.lastProjectionAnchor()
	projected, err := l.scheduler.GenerateSchedule(l.remainingPrincipal, l.interestRate, remainingDueDates, projectionAnchor)
	if err != nil {
		return scheduler.Schedule{}, err
	}

	combined := append(past, projected.Entries...)
	return scheduler.Schedule{Entries: combined}, nil
}

// lastProjectionAnchor returns the most recent payment date, or the
// disbursement date if no payment has been recorded yet.
func (l *Loan) lastProjectionAnchor() time.Time {
	if len(l.payments) == 0 {
		return l.disbursement
	}
	return l.payments[len(l.payments)-1].PaymentDate
}

// PresentValue discounts the expected cash flow to the disbursement date
// using discountRate.
func (l *Loan) PresentValue(discountRate rate.InterestRate) (money.Money, error) {
	flow, err := l.GenerateExpectedCashFlow()
	if err != nil {
		return money.Money{}, err
	}
	return tvm.PresentValue(flow, discountRate, l.disbursement), nil
}

// IRR computes the internal rate of return of the loan's expected cash
// flow, which should reproduce the loan's own nominal rate within currency
// tolerance.
func (l *Loan) IRR(guess *float64) (rate.InterestRate, error) {
	flow, err := l.GenerateExpectedCashFlow()
	if err != nil {
		return rate.InterestRate{}, err
	}
	return tvm.InternalRateOfReturn(flow, l.interestRate.YearSize(), guess, tvm.WithTolerance(l.solverTolerance))
}
