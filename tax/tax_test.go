package tax_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tomascorrea/money-warp/dategen"
	"github.com/tomascorrea/money-warp/money"
	"github.com/tomascorrea/money-warp/rate"
	"github.com/tomascorrea/money-warp/scheduler"
	"github.com/tomascorrea/money-warp/tax"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestIOFCalculateAccumulatesPerInstallment(t *testing.T) {
	principal := money.FromInt(10000)
	r, _ := rate.Parse("1% monthly")
	dueDates, _ := dategen.Monthly{}.Generate(date(2024, 2, 1), 12)
	sched, err := scheduler.PriceScheduler{}.GenerateSchedule(principal, r, dueDates, date(2024, 1, 1))
	assert.NoError(t, err)

	iof := tax.IndividualIOF()
	result, err := iof.Calculate(sched, date(2024, 1, 1))
	assert.NoError(t, err)
	assert.True(t, result.Total.IsPositive())
	assert.Len(t, result.PerInstallment, 12)
}

func TestIOFRoundingModesAgreeWithinACentPerInstallment(t *testing.T) {
	principal := money.FromInt(10000)
	r, _ := rate.Parse("1% monthly")
	dueDates, _ := dategen.Monthly{}.Generate(date(2024, 2, 1), 12)
	sched, _ := scheduler.PriceScheduler{}.GenerateSchedule(principal, r, dueDates, date(2024, 1, 1))

	dailyRate := decimal.RequireFromString("0.000082")
	additionalRate := decimal.RequireFromString("0.0038")
	precise := tax.New(dailyRate, additionalRate, tax.WithRounding(tax.Precise))
	perComponent := tax.New(dailyRate, additionalRate, tax.WithRounding(tax.PerComponent))

	preciseResult, _ := precise.Calculate(sched, date(2024, 1, 1))
	perComponentResult, _ := perComponent.Calculate(sched, date(2024, 1, 1))

	diff := preciseResult.Total.Sub(perComponentResult.Total).Abs()
	assert.True(t, diff.LessThanOrEqual(money.FromCents(12)))
}

func TestGrossupSatisfiesPostCondition(t *testing.T) {
	requested := money.FromInt(10000)
	r, _ := rate.Parse("1% monthly")
	dueDates, _ := dategen.Monthly{}.Generate(date(2024, 2, 1), 12)
	disbursement := date(2024, 1, 1)
	sched := scheduler.PriceScheduler{}
	iof := tax.IndividualIOF()

	principal, err := tax.Grossup(requested, r, dueDates, disbursement, sched, iof)
	assert.NoError(t, err)
	assert.True(t, principal.GreaterThan(requested))

	schedule, err := sched.GenerateSchedule(principal, r, dueDates, disbursement)
	assert.NoError(t, err)
	result, err := iof.Calculate(schedule, disbursement)
	assert.NoError(t, err)

	assert.True(t, principal.Sub(result.Total).GreaterThanOrEqual(requested))
	assert.True(t, principal.Raw().Equal(principal.Real()))
}
