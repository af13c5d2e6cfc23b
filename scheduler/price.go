package scheduler

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tomascorrea/money-warp/money"
	"github.com/tomascorrea/money-warp/rate"
)

// PriceScheduler implements the French (constant-payment) amortization
// method: a single payment P solves P * sum_k(1+r)^(-d_k) == principal,
// where d_k is the day count from disbursement to due date k. Each period's
// interest accrues on the beginning balance over that period's day count;
// every period's cash amounts are quantized to the cent as they're produced
// (a real ledger has no sub-cent money), and the final entry absorbs
// whatever cent-level residual that rounding discipline leaves so the
// ending balance is exactly zero.
type PriceScheduler struct{}

func (PriceScheduler) GenerateSchedule(principal money.Money, r rate.InterestRate, dueDates []time.Time, disbursement time.Time) (Schedule, error) {
	n := len(dueDates)
	daily := r.DailyRate()
	onePlusDaily := decimal.NewFromInt(1).Add(daily)

	days := make([]int, n)
	discountSum := decimal.Zero
	prev := disbursement
	for k, due := range dueDates {
		days[k] = daysBetween(prev, due)
		cumulativeDays := daysBetween(disbursement, due)
		discountSum = discountSum.Add(rate.Pow(onePlusDaily, -float64(cumulativeDays)))
		prev = due
	}

	payment := money.New(principal.Raw().Div(discountSum)).Quantized()

	entries := make([]Entry, n)
	balance := principal.Quantized()
	for k, due := range dueDates {
		periodDays := days[k]
		interest := r.Accrue(balance, periodDays).Sub(balance).Quantized()
		principalPayment := payment.Sub(interest).Quantized()
		ending := balance.Sub(principalPayment).Quantized()

		entries[k] = Entry{
			PaymentNumber:    k + 1,
			DueDate:          due,
			DaysInPeriod:     periodDays,
			BeginningBalance: balance,
			PaymentAmount:    payment,
			PrincipalPayment: principalPayment,
			InterestPayment:  interest,
			EndingBalance:    ending,
		}
		balance = ending
	}

	adjustLastEntry(entries)
	return totals(entries), nil
}

// adjustLastEntry forces the final row's principal payment and ending
// balance to exactly zero out the loan, absorbing whatever cent-level
// rounding residual accumulated across the schedule.
func adjustLastEntry(entries []Entry) {
	if len(entries) == 0 {
		return
	}
	last := len(entries) - 1
	entries[last].PrincipalPayment = entries[last].BeginningBalance
	entries[last].PaymentAmount = entries[last].PrincipalPayment.Add(entries[last].InterestPayment).Quantized()
	entries[last].EndingBalance = money.Zero
}
