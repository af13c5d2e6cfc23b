package loan_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tomascorrea/money-warp/dategen"
	"github.com/tomascorrea/money-warp/loan"
	"github.com/tomascorrea/money-warp/money"
	"github.com/tomascorrea/money-warp/rate"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func newLoan(t *testing.T, opts ...loan.Option) *loan.Loan {
	t.Helper()
	r, err := rate.Parse("6% annual")
	assert.NoError(t, err)
	dueDates, err := dategen.Monthly{}.Generate(date(2024, 2, 1), 3)
	assert.NoError(t, err)

	l, err := loan.New(money.FromInt(10000), r, dueDates, date(2024, 1, 1), opts...)
	assert.NoError(t, err)
	return l
}

func TestNewRejectsNonPositivePrincipal(t *testing.T) {
	r, _ := rate.Parse("6% annual")
	dueDates, _ := dategen.Monthly{}.Generate(date(2024, 2, 1), 3)
	_, err := loan.New(money.Zero, r, dueDates, date(2024, 1, 1))
	assert.Error(t, err)
}

func TestNewRejectsDisbursementOnOrAfterFirstDue(t *testing.T) {
	r, _ := rate.Parse("6% annual")
	dueDates, _ := dategen.Monthly{}.Generate(date(2024, 2, 1), 3)
	_, err := loan.New(money.FromInt(10000), r, dueDates, date(2024, 2, 1))
	assert.Error(t, err)
}

func TestPaidOffStateRejectsFurtherPayments(t *testing.T) {
	l := newLoan(t)
	schedule := l.GetOriginalSchedule()
	// Paying on the first due date owes only that period's interest, so the
	// payoff amount is the full principal plus the first scheduled interest.
	total := l.Principal().Add(schedule.Entries[0].InterestPayment)
	_, err := l.RecordPayment(total, date(2024, 2, 1), nil, nil, "full payoff")
	assert.NoError(t, err)
	assert.True(t, l.IsPaidOff())

	_, err = l.RecordPayment(money.FromInt(1), date(2024, 3, 1), nil, nil, "late extra")
	assert.Error(t, err)
}

func TestOverPaymentRefused(t *testing.T) {
	l := newLoan(t)
	_, err := l.RecordPayment(money.FromInt(999999), date(2024, 2, 1), nil, nil, "way too much")
	assert.Error(t, err)
}

func TestAllocationPriorityFinesBeforeInterestBeforePrincipal(t *testing.T) {
	l := newLoan(t, loan.WithFineRate(decimal.RequireFromString("0.02")))
	l.CalculateLateFines(date(2024, 3, 1))
	outstandingBefore := l.OutstandingFines()
	assert.True(t, outstandingBefore.IsPositive())

	settlement, err := l.RecordPayment(money.FromCents(1), date(2024, 3, 1), nil, nil, "tiny payment")
	assert.NoError(t, err)
	assert.True(t, settlement.FinePaid.IsPositive())
	assert.True(t, settlement.PrincipalPaid.IsZero())
}

func TestCalculateLateFinesIsIdempotent(t *testing.T) {
	l := newLoan(t, loan.WithFineRate(decimal.RequireFromString("0.02")))
	first := l.CalculateLateFines(date(2024, 3, 1))
	second := l.CalculateLateFines(date(2024, 3, 1))
	assert.True(t, first.Equal(second))
}

func TestSameDayMultiplePaymentsEachGetOwnSettlement(t *testing.T) {
	l := newLoan(t)
	day := date(2024, 2, 1)
	s1, err := l.RecordPayment(money.FromInt(300), day, nil, nil, "first")
	assert.NoError(t, err)
	s2, err := l.RecordPayment(money.FromInt(300), day, nil, nil, "second")
	assert.NoError(t, err)

	settlements := l.Settlements()
	assert.Len(t, settlements, 2)
	sum := s1.PaymentAmount.Add(s2.PaymentAmount)
	assert.True(t, sum.Equal(money.FromInt(600)))
}

func TestIsPaidOffRequiresZeroPrincipalAndFines(t *testing.T) {
	l := newLoan(t)
	assert.False(t, l.IsPaidOff())
}

func TestCurrentBalanceDecreasesAfterPayment(t *testing.T) {
	l := newLoan(t)
	before := l.CurrentBalance()
	_, err := l.RecordPayment(money.FromInt(1000), date(2024, 2, 1), nil, nil, "partial")
	assert.NoError(t, err)
	after := l.CurrentBalance()
	assert.True(t, after.LessThan(before))
}

func TestInstallmentsBalanceIsNonNegative(t *testing.T) {
	l := newLoan(t)
	_, err := l.RecordPayment(money.FromInt(1000), date(2024, 2, 1), nil, nil, "partial")
	assert.NoError(t, err)
	for _, inst := range l.Installments() {
		assert.False(t, inst.Balance().IsNegative())
	}
}
