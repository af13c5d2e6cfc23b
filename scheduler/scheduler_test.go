package scheduler_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tomascorrea/money-warp/dategen"
	"github.com/tomascorrea/money-warp/money"
	"github.com/tomascorrea/money-warp/rate"
	"github.com/tomascorrea/money-warp/scheduler"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestPriceScheduleZeroRateMatchesReference(t *testing.T) {
	principal := money.FromInt(10000)
	r := rate.New(decimal.Zero, rate.Annual)
	dueDates, err := dategen.Monthly{}.Generate(date(2024, 2, 1), 12)
	assert.NoError(t, err)

	sched, err := scheduler.PriceScheduler{}.GenerateSchedule(principal, r, dueDates, date(2024, 1, 1))
	assert.NoError(t, err)

	for i := 0; i < 11; i++ {
		assert.True(t, sched.Entries[i].PaymentAmount.Equal(money.FromCents(83333)), "entry %d", i)
	}
	assert.True(t, sched.Entries[11].PaymentAmount.Equal(money.FromCents(83337)), "last entry absorbs residual")
	assert.True(t, sched.Entries[11].EndingBalance.IsZero())
	assert.True(t, sched.TotalPrincipal.Equal(principal))
}

func TestPriceScheduleBeginningEqualsPreviousEnding(t *testing.T) {
	principal := money.FromInt(10000)
	r, _ := rate.Parse("6% annual")
	dueDates, _ := dategen.Monthly{}.Generate(date(2024, 2, 1), 6)

	sched, err := scheduler.PriceScheduler{}.GenerateSchedule(principal, r, dueDates, date(2024, 1, 1))
	assert.NoError(t, err)

	for i := 1; i < len(sched.Entries); i++ {
		assert.True(t, sched.Entries[i].BeginningBalance.Equal(sched.Entries[i-1].EndingBalance))
	}
	assert.True(t, sched.Entries[len(sched.Entries)-1].EndingBalance.IsZero())
}

func TestPricePaymentsEqualExceptLast(t *testing.T) {
	principal := money.FromInt(10000)
	r, _ := rate.Parse("6% annual")
	dueDates, _ := dategen.Monthly{}.Generate(date(2024, 2, 1), 6)

	sched, err := scheduler.PriceScheduler{}.GenerateSchedule(principal, r, dueDates, date(2024, 1, 1))
	assert.NoError(t, err)

	first := sched.Entries[0].PaymentAmount
	for i := 0; i < len(sched.Entries)-1; i++ {
		assert.True(t, sched.Entries[i].PaymentAmount.Equal(first))
	}
}

func TestInvertedPriceConstantAmortization(t *testing.T) {
	principal := money.FromInt(12000)
	r, _ := rate.Parse("12% annual")
	dueDates, _ := dategen.Monthly{}.Generate(date(2024, 2, 1), 12)

	sched, err := scheduler.InvertedPriceScheduler{}.GenerateSchedule(principal, r, dueDates, date(2024, 1, 1))
	assert.NoError(t, err)

	first := sched.Entries[0].PrincipalPayment
	for i := 0; i < len(sched.Entries)-1; i++ {
		assert.True(t, sched.Entries[i].PrincipalPayment.Equal(first))
	}
	assert.True(t, sched.Entries[len(sched.Entries)-1].EndingBalance.IsZero())
	assert.True(t, sched.TotalPrincipal.Equal(principal))
}

func TestInvertedPriceSinglePaymentCoversFullPrincipalAndInterest(t *testing.T) {
	principal := money.FromInt(10000)
	r, _ := rate.Parse("5% annual")
	dueDates, _ := dategen.Monthly{}.Generate(date(2024, 2, 1), 1)

	sched, err := scheduler.InvertedPriceScheduler{}.GenerateSchedule(principal, r, dueDates, date(2024, 1, 1))
	assert.NoError(t, err)
	assert.Len(t, sched.Entries, 1)
	assert.True(t, sched.Entries[0].PrincipalPayment.Equal(principal))
	assert.True(t, sched.Entries[0].InterestPayment.IsPositive())
	assert.True(t, sched.Entries[0].EndingBalance.IsZero())
}
