package scheduler

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tomascorrea/money-warp/money"
	"github.com/tomascorrea/money-warp/rate"
)

// InvertedPriceScheduler implements SAC (constant-amortization): every
// period but the last pays principal/n of the original principal; interest
// is computed on the beginning balance over the period's day count; the
// last principal payment absorbs whatever residual remains so the ending
// balance is exactly zero.
type InvertedPriceScheduler struct{}

func (InvertedPriceScheduler) GenerateSchedule(principal money.Money, r rate.InterestRate, dueDates []time.Time, disbursement time.Time) (Schedule, error) {
	n := len(dueDates)
	flatPrincipal := money.New(principal.Raw().Div(decimal.NewFromInt(int64(n)))).Quantized()

	entries := make([]Entry, n)
	balance := principal.Quantized()
	prev := disbursement
	for k, due := range dueDates {
		periodDays := daysBetween(prev, due)
		interest := r.Accrue(balance, periodDays).Sub(balance).Quantized()

		principalPayment := flatPrincipal
		if k == n-1 {
			principalPayment = balance
		}

		payment := principalPayment.Add(interest).Quantized()
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
		prev = due
	}

	entries[n-1].EndingBalance = money.Zero
	return totals(entries), nil
}
