package loan

import (
	"sort"
	"time"

	"github.com/tomascorrea/money-warp/cashflow"
	"github.com/tomascorrea/money-warp/internal/loanerr"
	"github.com/tomascorrea/money-warp/money"
)

// interestSplit computes the regular/mora interest owed as of interestDate,
// given the loan's current remainingPrincipal and lastInterestCutoff (spec
// §4.4's allocation step 2). Regular interest covers up to the next unpaid
// due date; mora covers whatever lies beyond it.
func (l *Loan) interestSplit(interestDate time.Time) (regular, mora money.Money, nextDue time.Time, hasNextDue bool) {
	nextDue, hasNextDue = l.nextUnpaidDueDate()

	regularDays := daysBetween(l.lastInterestCutoff, interestDate)
	moraDays := 0
	if hasNextDue && interestDate.After(nextDue) {
		regularDays = daysBetween(l.lastInterestCutoff, nextDue)
		moraDays = daysBetween(nextDue, interestDate)
	}
	if regularDays < 0 {
		regularDays = 0
	}
	if moraDays < 0 {
		moraDays = 0
	}

	regular = l.interestRate.Accrue(l.remainingPrincipal, regularDays).Sub(l.remainingPrincipal).Quantized()
	mora = money.Zero
	if moraDays > 0 {
		base := l.remainingPrincipal
		if l.moraStrategy == Compound {
			base = base.Add(regular)
		}
		mora = l.moraRate.Accrue(base, moraDays).Sub(base).Quantized()
	}
	return regular, mora, nextDue, hasNextDue
}

// RecordPayment is the full-control payment-recording operation: it
// snapshots the pre-payment principal balance and interest cutoff (taken
// from the loan's own running state, which only ever advances via prior
// RecordPayment calls — never by now() — satisfying the "filtered by
// payment_date, not now()" pre-snapshot rule for any sequence of calls made
// in non-decreasing payment_date order), allocates strictly
// fines-then-interest-then-principal, and either commits the full
// allocation or returns an error with no state change.
func (l *Loan) RecordPayment(amount money.Money, paymentDate time.Time, interestDate, processingDate *time.Time, description string) (Settlement, error) {
	if l.IsPaidOff() {
		return Settlement{}, loanerr.ErrPaidOff
	}
	if !amount.IsPositive() {
		return Settlement{}, loanerr.InvalidInput{Field: "amount", Reason: "must be positive"}
	}

	// Naive dates arriving at this boundary are attached to the loan's
	// default timezone, never silently converted.
	paymentDate = l.ctx.Coerce(paymentDate)

	iDate := paymentDate
	if interestDate != nil {
		iDate = l.ctx.Coerce(*interestDate)
	}
	pDate := l.now()
	if processingDate != nil {
		pDate = l.ctx.Coerce(*processingDate)
	}

	regularOwed, moraOwed, nextDue, hasNextDue := l.interestSplit(iDate)
	dueDateCovered := nextDue
	if !hasNextDue {
		dueDateCovered = iDate
	}

	finePaid, afterFines, fineDeltas := l.allocateFines(amount)

	regularPaid := money.Min(afterFines, regularOwed)
	afterRegular := afterFines.Sub(regularPaid)
	moraPaid := money.Min(afterRegular, moraOwed)
	afterMora := afterRegular.Sub(moraPaid)

	principalPaid := afterMora
	if principalPaid.GreaterThan(l.remainingPrincipal) {
		return Settlement{}, loanerr.ErrOverPayment
	}

	l.commitFinePayments(fineDeltas)
	l.remainingPrincipal = l.remainingPrincipal.Sub(principalPaid)
	l.lastInterestCutoff = iDate

	itemStart := len(l.actualFlow.Items())
	if finePaid.IsPositive() {
		l.actualFlow.Add(cashflow.NewEntry(finePaid, paymentDate, description, cashflow.ActualFine))
	}
	if regularPaid.IsPositive() {
		l.actualFlow.Add(cashflow.NewEntry(regularPaid, paymentDate, description, cashflow.ActualInterest))
	}
	if moraPaid.IsPositive() {
		l.actualFlow.Add(cashflow.NewEntry(moraPaid, paymentDate, description, cashflow.ActualMoraInterest))
	}
	if principalPaid.IsPositive() {
		l.actualFlow.Add(cashflow.NewEntry(principalPaid, paymentDate, description, cashflow.ActualPrincipal))
	}
	itemEnd := len(l.actualFlow.Items())

	l.payments = append(l.payments, paymentRecord{
		PaymentDate:          paymentDate,
		InterestDate:         iDate,
		ProcessingDate:       pDate,
		Description:          description,
		FinePaid:             finePaid,
		RegularInterestPaid:  regularPaid,
		MoraInterestPaid:     moraPaid,
		PrincipalPaid:        principalPaid,
		DueDateCovered:       dueDateCovered,
		ItemStart:            itemStart,
		ItemEnd:              itemEnd,
	})

	l.logger.Info().
		Str("amount", amount.String()).
		Time("payment_date", paymentDate).
		Str("fine_paid", finePaid.String()).
		Str("interest_paid", regularPaid.String()).
		Str("mora_paid", moraPaid.String()).
		Str("principal_paid", principalPaid.String()).
		Str("remaining_balance", l.remainingPrincipal.String()).
		Msg("payment recorded")

	milestoneEnding, ok := l.milestoneEndingBalance(dueDateCovered)
	fullyCovered := ok && milestoneEnding.GreaterThanOrEqual(l.remainingPrincipal)

	installmentNumber := 0
	for _, e := range l.originalSchedule.Entries {
		if e.DueDate.Equal(dueDateCovered) {
			installmentNumber = e.PaymentNumber
			break
		}
	}

	return Settlement{
		PaymentAmount:    finePaid.Add(regularPaid).Add(moraPaid).Add(principalPaid),
		PaymentDate:      paymentDate,
		FinePaid:         finePaid,
		InterestPaid:     regularPaid,
		MoraPaid:         moraPaid,
		PrincipalPaid:    principalPaid,
		RemainingBalance: l.remainingPrincipal,
		Allocations: []SettlementAllocation{{
			InstallmentNumber: installmentNumber,
			Principal:         principalPaid,
			Interest:          regularPaid,
			Mora:              moraPaid,
			Fine:              finePaid,
			IsFullyCovered:    fullyCovered,
		}},
	}, nil
}

func (l *Loan) milestoneEndingBalance(due time.Time) (money.Money, bool) {
	for _, e := range l.originalSchedule.Entries {
		if e.DueDate.Equal(due) {
			return e.EndingBalance, true
		}
	}
	return money.Money{}, false
}

// PayInstallment is sugar over RecordPayment: payment_date = now();
// interest_date = max(now, next_unpaid_due_date) — paying early still owes
// interest through the due date, paying late accrues mora through now.
func (l *Loan) PayInstallment(amount money.Money, description string) (Settlement, error) {
	now := l.now()
	interestDate := now
	if nextDue, ok := l.nextUnpaidDueDate(); ok && nextDue.After(interestDate) {
		interestDate = nextDue
	}
	return l.RecordPayment(amount, now, &interestDate, &now, description)
}

// AnticipatePayment applies amount at payment_date = interest_date = now().
// Without installments it is sugar targeting the current unpaid due date
// (same allocation as any other payment). With installments, it performs
// the same strict allocation and then marks the given due dates as
// anticipated, removing them from future amortization projection (spec
// §4.4's "temporally delete those expected items").
func (l *Loan) AnticipatePayment(amount money.Money, installments []time.Time, description string) (Settlement, error) {
	now := l.now()
	settlement, err := l.RecordPayment(amount, now, &now, &now, description)
	if err != nil {
		return Settlement{}, err
	}
	for _, d := range installments {
		l.anticipatedDueDates[d] = true
	}
	return settlement, nil
}

// CalculateAnticipation is a pure calculation (no state change) of the
// amount required to fully prepay the given due dates today: the principal
// attributable to those installments (via the original schedule's
// milestones) plus interest accrued on the whole remaining principal from
// the loan's last interest cutoff through now.
func (l *Loan) CalculateAnticipation(installments []time.Time) (money.Money, []time.Time, error) {
	if len(installments) == 0 {
		return money.Money{}, nil, loanerr.InvalidInput{Field: "installments", Reason: "must name at least one due date"}
	}

	sorted := make([]time.Time, len(installments))
	copy(sorted, installments)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
	target := sorted[len(sorted)-1]

	milestone, ok := l.milestoneEndingBalance(target)
	if !ok {
		return money.Money{}, nil, loanerr.InvalidInput{Field: "installments", Reason: "due date not found in schedule"}
	}
	if milestone.GreaterThanOrEqual(l.remainingPrincipal) {
		return money.Money{}, nil, loanerr.InvalidInput{Field: "installments", Reason: "due date is already covered"}
	}

	principalPortion := l.remainingPrincipal.Sub(milestone)
	now := l.now()
	days := daysBetween(l.lastInterestCutoff, now)
	if days < 0 {
		days = 0
	}
	interest := l.interestRate.Accrue(l.remainingPrincipal, days).Sub(l.remainingPrincipal).Quantized()

	amount := principalPortion.Add(interest).Quantized()
	return amount, sorted, nil
}
