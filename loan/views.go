package loan

import (
	"time"

	"github.com/tomascorrea/money-warp/money"
)

// Installment is a derived view of one scheduled period, reconstructed from
// the original schedule plus the loan's payment and fine history. It is
// never stored; every call to Installments recomputes it.
type Installment struct {
	Number       int
	DueDate      time.Time
	DaysInPeriod int

	ExpectedPayment   money.Money
	ExpectedPrincipal money.Money
	ExpectedInterest  money.Money
	ExpectedMora      money.Money
	ExpectedFine      money.Money

	PrincipalPaid money.Money
	InterestPaid  money.Money
	MoraPaid      money.Money
	FinePaid      money.Money
}

// Balance is expected_total - paid_total, clamped to zero. Expected and
// paid totals both include fine and mora components, which are zero for an
// installment that was never late.
func (i Installment) Balance() money.Money {
	expectedTotal := i.ExpectedPrincipal.Add(i.ExpectedInterest).Add(i.ExpectedFine).Add(i.ExpectedMora)
	paidTotal := i.PrincipalPaid.Add(i.InterestPaid).Add(i.FinePaid).Add(i.MoraPaid)
	balance := expectedTotal.Sub(paidTotal)
	if balance.IsNegative() {
		return money.Zero
	}
	return balance
}

// IsFullyPaid reports whether Balance is zero.
func (i Installment) IsFullyPaid() bool {
	return i.Balance().IsZero()
}

// SettlementAllocation is the portion of a single recorded payment
// attributed to one installment.
type SettlementAllocation struct {
	InstallmentNumber int
	Principal         money.Money
	Interest          money.Money
	Mora              money.Money
	Fine              money.Money
	IsFullyCovered    bool
}

// Settlement is the allocation result of a single recorded payment,
// reconstructed from the loan's append-only payment history — never stored
// separately.
type Settlement struct {
	PaymentAmount    money.Money
	PaymentDate      time.Time
	FinePaid         money.Money
	InterestPaid     money.Money
	MoraPaid         money.Money
	PrincipalPaid    money.Money
	RemainingBalance money.Money
	Allocations      []SettlementAllocation
}

// Installments reconstructs every scheduled period's derived view: expected
// amounts from the original schedule, paid amounts from the payment and
// fine history. Principal paid ripples across installments in due-date
// order against the original schedule's principal milestones; interest,
// mora, and fine paid are attributed to whichever due date was the "next
// unpaid" one at the moment each payment was recorded.
func (l *Loan) Installments() []Installment {
	entries := l.originalSchedule.Entries
	out := make([]Installment, len(entries))
	byDate := make(map[time.Time]*Installment, len(entries))

	for i, e := range entries {
		out[i] = Installment{
			Number:            e.PaymentNumber,
			DueDate:           e.DueDate,
			DaysInPeriod:      e.DaysInPeriod,
			ExpectedPayment:   e.PaymentAmount,
			ExpectedPrincipal: e.PrincipalPayment,
			ExpectedInterest:  e.InterestPayment,
			ExpectedMora:      money.Zero,
			ExpectedFine:      money.Zero,
		}
		byDate[e.DueDate] = &out[i]
	}

	totalPrincipalPaid := l.principal.Sub(l.remainingPrincipal)
	remaining := totalPrincipalPaid
	for i := range out {
		alloc := money.Min(remaining, out[i].ExpectedPrincipal)
		out[i].PrincipalPaid = alloc
		remaining = remaining.Sub(alloc)
	}

	for _, pr := range l.payments {
		if inst, ok := byDate[pr.DueDateCovered]; ok {
			inst.InterestPaid = inst.InterestPaid.Add(pr.RegularInterestPaid)
			inst.MoraPaid = inst.MoraPaid.Add(pr.MoraInterestPaid)
		}
	}
	for _, f := range l.fines {
		if inst, ok := byDate[f.DueDate]; ok {
			inst.ExpectedFine = inst.ExpectedFine.Add(f.Applied)
			inst.FinePaid = inst.FinePaid.Add(f.Paid)
		}
	}

	return out
}

// Settlements reconstructs one Settlement per recorded payment, in call
// order.
func (l *Loan) Settlements() []Settlement {
	installmentNumber := make(map[time.Time]int, len(l.originalSchedule.Entries))
	milestoneEnding := make(map[time.Time]money.Money, len(l.originalSchedule.Entries))
	for _, e := range l.originalSchedule.Entries {
		installmentNumber[e.DueDate] = e.PaymentNumber
		milestoneEnding[e.DueDate] = e.EndingBalance
	}

	balance := l.principal
	out := make([]Settlement, len(l.payments))
	for i, pr := range l.payments {
		balance = balance.Sub(pr.PrincipalPaid)
		fullyCovered := false
		if milestone, ok := milestoneEnding[pr.DueDateCovered]; ok {
			fullyCovered = milestone.GreaterThanOrEqual(balance)
		}

		paymentAmount := pr.FinePaid.Add(pr.RegularInterestPaid).Add(pr.MoraInterestPaid).Add(pr.PrincipalPaid)
		out[i] = Settlement{
			PaymentAmount:    paymentAmount,
			PaymentDate:      pr.PaymentDate,
			FinePaid:         pr.FinePaid,
			InterestPaid:     pr.RegularInterestPaid,
			MoraPaid:         pr.MoraInterestPaid,
			PrincipalPaid:    pr.PrincipalPaid,
			RemainingBalance: balance,
			Allocations: []SettlementAllocation{{
				InstallmentNumber: installmentNumber[pr.DueDateCovered],
				Principal:         pr.PrincipalPaid,
				Interest:          pr.RegularInterestPaid,
				Mora:              pr.MoraInterestPaid,
				Fine:              pr.FinePaid,
				IsFullyCovered:    fullyCovered,
			}},
		}
	}
	return out
}
