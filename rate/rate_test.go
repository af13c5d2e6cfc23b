package rate_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tomascorrea/money-warp/money"
	"github.com/tomascorrea/money-warp/rate"
)

func closeEnough(t *testing.T, got, want decimal.Decimal, tol string, msg string) {
	t.Helper()
	diff := got.Sub(want).Abs()
	tolerance := decimal.RequireFromString(tol)
	assert.Truef(t, diff.LessThanOrEqual(tolerance), "%s: got %s want %s (diff %s)", msg, got, want, diff)
}

func TestParseLongAndAbbreviated(t *testing.T) {
	r, err := rate.Parse("3% monthly")
	assert.NoError(t, err)
	assert.Equal(t, rate.Monthly, r.Frequency())

	r2, err := rate.Parse("3% a.m.")
	assert.NoError(t, err)
	assert.Equal(t, rate.Monthly, r2.Frequency())
	assert.Contains(t, r2.String(), "m")
}

func TestParseDecimalWithoutPercent(t *testing.T) {
	r, err := rate.Parse("0.03 monthly")
	assert.NoError(t, err)
	closeEnough(t, r.PeriodRate(), decimal.RequireFromString("0.03"), "0.0001", "period rate")
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := rate.Parse("garbage")
	assert.Error(t, err)

	_, err = rate.Parse("3% fortnightly")
	assert.Error(t, err)
}

func TestConversionRoundTrip(t *testing.T) {
	r, err := rate.Parse("12% annual")
	assert.NoError(t, err)

	m := r.ToMonthly()
	back := m.ToAnnual()
	closeEnough(t, back.EffectiveAnnual(), r.EffectiveAnnual(), "0.0000001", "annual->monthly->annual")
}

func TestAccrueZeroDaysIsIdentity(t *testing.T) {
	r := rate.New(decimal.RequireFromString("0.03"), rate.Daily)
	p := money.FromInt(1000)
	assert.True(t, r.Accrue(p, 0).Equal(p))
}

func TestAccrueIsAdditiveOverDays(t *testing.T) {
	r := rate.New(decimal.RequireFromString("0.001"), rate.Daily)
	p := money.FromInt(1000)

	direct := r.Accrue(p, 10)
	stepwise := r.Accrue(r.Accrue(p, 4), 6)

	closeEnough(t, direct.Raw(), stepwise.Raw(), "0.01", "accrue(d1+d2) == accrue(accrue(d1),d2)")
}

func TestDailyToAnnualUsesYearSize(t *testing.T) {
	commercial := rate.New(decimal.RequireFromString("0.0001"), rate.Daily, rate.WithYearSize(rate.Commercial))
	banker := rate.New(decimal.RequireFromString("0.0001"), rate.Daily, rate.WithYearSize(rate.Banker))

	assert.True(t, commercial.ToAnnual().EffectiveAnnual().GreaterThan(banker.ToAnnual().EffectiveAnnual()))
}

func TestPrecisionQuantizesEffectiveAnnual(t *testing.T) {
	r := rate.New(decimal.RequireFromString("0.0123456"), rate.Monthly, rate.WithPrecision(4))
	assert.True(t, r.EffectiveAnnual().Equal(r.EffectiveAnnual().Round(4)))
}
