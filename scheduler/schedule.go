// Package scheduler produces amortization schedules from a loan's
// principal, rate, and due-date grid. PriceScheduler implements the French
// (constant-payment) method; InvertedPriceScheduler implements SAC
// (constant-amortization). Both satisfy the Scheduler capability interface,
// one behavior with multiple concrete implementations rather than an
// open-world class hierarchy.
package scheduler

import (
	"time"

	"github.com/tomascorrea/money-warp/money"
	"github.com/tomascorrea/money-warp/rate"
)

// Entry is one row of a PaymentSchedule.
type Entry struct {
	PaymentNumber    int
	DueDate          time.Time
	DaysInPeriod     int
	BeginningBalance money.Money
	PaymentAmount    money.Money
	PrincipalPayment money.Money
	InterestPayment  money.Money
	EndingBalance    money.Money
}

// Schedule is an ordered list of entries plus aggregate totals.
type Schedule struct {
	Entries        []Entry
	TotalPayments  money.Money
	TotalInterest  money.Money
	TotalPrincipal money.Money
}

// Scheduler produces a Schedule from a loan's principal, rate, and
// due-date grid.
type Scheduler interface {
	GenerateSchedule(principal money.Money, r rate.InterestRate, dueDates []time.Time, disbursement time.Time) (Schedule, error)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

func totals(entries []Entry) Schedule {
	s := Schedule{Entries: entries, TotalPayments: money.Zero, TotalInterest: money.Zero, TotalPrincipal: money.Zero}
	for _, e := range entries {
		s.TotalPayments = s.TotalPayments.Add(e.PaymentAmount)
		s.TotalInterest = s.TotalInterest.Add(e.InterestPayment)
		s.TotalPrincipal = s.TotalPrincipal.Add(e.PrincipalPayment)
	}
	return s
}
