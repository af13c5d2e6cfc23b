package loan

import (
	"time"

	"github.com/tomascorrea/money-warp/cashflow"
	"github.com/tomascorrea/money-warp/money"
)

// CalculateLateFines walks each due date D <= asOf where D + gracePeriod <=
// asOf and no fine has yet been recorded for D, levying fine_rate times the
// original schedule's expected installment amount for D. It is idempotent:
// a due date already in the fines ledger is never charged twice. Returns
// the total of every fine applied for due dates on or before asOf (not just
// those newly applied by this call), so repeated calls with the same asOf
// return identical totals.
func (l *Loan) CalculateLateFines(asOf time.Time) money.Money {
	applied := make(map[time.Time]bool, len(l.fines))
	for _, f := range l.fines {
		applied[f.DueDate] = true
	}

	for _, entry := range l.originalSchedule.Entries {
		due := entry.DueDate
		if due.After(asOf) {
			break
		}
		chargeableAt := due.AddDate(0, 0, l.gracePeriod)
		if chargeableAt.After(asOf) {
			continue
		}
		if applied[due] {
			continue
		}

		fineAmount := entry.PaymentAmount.Mul(l.fineRate).Quantized()
		l.fines = append(l.fines, fineRecord{DueDate: due, Applied: fineAmount, Paid: money.Zero})
		applied[due] = true

		entryRecord := cashflow.NewEntry(fineAmount, chargeableAt, "late fine", cashflow.FineApplied)
		l.actualFlow.Add(entryRecord)

		l.logger.Warn().
			Time("due_date", due).
			Str("fine_amount", fineAmount.String()).
			Msg("late fine applied")
	}

	total := money.Zero
	for _, f := range l.fines {
		if !f.DueDate.After(asOf) {
			total = total.Add(f.Applied)
		}
	}
	return total
}

// OutstandingFines is the sum of applied fines not yet paid.
func (l *Loan) OutstandingFines() money.Money {
	total := money.Zero
	for _, f := range l.fines {
		total = total.Add(f.Applied.Sub(f.Paid))
	}
	return total
}

// TotalFines is the sum of every fine ever applied.
func (l *Loan) TotalFines() money.Money {
	total := money.Zero
	for _, f := range l.fines {
		total = total.Add(f.Applied)
	}
	return total
}

// FinesApplied returns the ledger of applied fines, oldest due date first.
func (l *Loan) FinesApplied() []struct {
	DueDate time.Time
	Applied money.Money
	Paid    money.Money
} {
	out := make([]struct {
		DueDate time.Time
		Applied money.Money
		Paid    money.Money
	}, len(l.fines))
	for i, f := range l.fines {
		out[i] = struct {
			DueDate time.Time
			Applied money.Money
			Paid    money.Money
		}{DueDate: f.DueDate, Applied: f.Applied, Paid: f.Paid}
	}
	return out
}

// allocateFines pays outstanding fines oldest-first from amount, returning
// the portion consumed and the portion left over. It does not mutate state;
// callers apply the returned per-fine deltas only after the full payment
// validates, so a rejected payment leaves every fine record untouched.
func (l *Loan) allocateFines(amount money.Money) (paid money.Money, remaining money.Money, deltas map[int]money.Money) {
	deltas = make(map[int]money.Money)
	remaining = amount
	paid = money.Zero
	for idx, f := range l.fines {
		outstanding := f.Applied.Sub(f.Paid)
		if !outstanding.IsPositive() || remaining.IsZero() {
			continue
		}
		pay := money.Min(outstanding, remaining)
		deltas[idx] = pay
		paid = paid.Add(pay)
		remaining = remaining.Sub(pay)
	}
	return paid, remaining, deltas
}

func (l *Loan) commitFinePayments(deltas map[int]money.Money) {
	for idx, pay := range deltas {
		l.fines[idx].Paid = l.fines[idx].Paid.Add(pay)
	}
}
