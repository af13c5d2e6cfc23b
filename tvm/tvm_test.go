package tvm_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tomascorrea/money-warp/cashflow"
	"github.com/tomascorrea/money-warp/money"
	"github.com/tomascorrea/money-warp/rate"
	"github.com/tomascorrea/money-warp/timectx"
	"github.com/tomascorrea/money-warp/tvm"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func buildFlow(entries ...cashflow.Entry) *cashflow.Flow {
	ctx := timectx.New(time.UTC)
	flow := cashflow.NewFlow(ctx)
	for _, e := range entries {
		flow.Add(e)
	}
	return flow
}

func TestPresentValueEqualsNetPresentValue(t *testing.T) {
	r := rate.New(decimal.RequireFromString("0.1"), rate.Annual)
	flow := buildFlow(
		cashflow.NewEntry(money.FromInt(-1000), date(2024, 1, 1), "out", cashflow.ExpectedDisbursement),
		cashflow.NewEntry(money.FromInt(1100), date(2025, 1, 1), "in", cashflow.ExpectedPrincipal),
	)
	pv := tvm.PresentValue(flow, r, date(2024, 1, 1))
	npv := tvm.NetPresentValue(flow, r, date(2024, 1, 1))
	assert.True(t, pv.Equal(npv))
}

func TestPresentValueClampsPastFlowsToSameDay(t *testing.T) {
	r := rate.New(decimal.RequireFromString("0.1"), rate.Annual)
	flow := buildFlow(
		cashflow.NewEntry(money.FromInt(1000), date(2023, 1, 1), "past", cashflow.ActualPrincipal),
	)
	valuation := date(2024, 1, 1)
	pv := tvm.PresentValue(flow, r, valuation)
	assert.True(t, pv.Equal(money.FromInt(1000)))
}

func TestPresentValueOfAnnuityZeroRate(t *testing.T) {
	pv := tvm.PresentValueOfAnnuity(money.FromInt(100), decimal.Zero, 12, tvm.End)
	assert.True(t, pv.Equal(money.FromInt(1200)))
}

func TestPresentValueOfPerpetuityRejectsNonPositiveRate(t *testing.T) {
	_, err := tvm.PresentValueOfPerpetuity(money.FromInt(100), decimal.Zero)
	assert.Error(t, err)
}

func TestPresentValueOfPerpetuity(t *testing.T) {
	pv, err := tvm.PresentValueOfPerpetuity(money.FromInt(100), decimal.RequireFromString("0.1"))
	assert.NoError(t, err)
	assert.True(t, pv.Equal(money.FromInt(1000)))
}

func TestInternalRateOfReturnIrregularFlow(t *testing.T) {
	flow := buildFlow(
		cashflow.NewEntry(money.FromInt(-10000), date(2024, 1, 1), "", cashflow.ExpectedDisbursement),
		cashflow.NewEntry(money.FromInt(2000), date(2024, 3, 1), "", cashflow.ActualPrincipal),
		cashflow.NewEntry(money.FromInt(-1000), date(2024, 6, 1), "", cashflow.ExpectedDisbursement),
		cashflow.NewEntry(money.FromInt(3000), date(2024, 9, 1), "", cashflow.ActualPrincipal),
		cashflow.NewEntry(money.FromInt(8000), date(2024, 12, 31), "", cashflow.ActualPrincipal),
	)

	irr, err := tvm.InternalRateOfReturn(flow, rate.Commercial, nil)
	assert.NoError(t, err)
	assert.True(t, irr.PeriodRate().GreaterThan(decimal.NewFromFloat(-0.99)))
	assert.True(t, irr.PeriodRate().LessThan(decimal.NewFromFloat(10.0)))

	guess := 0.15
	irrFromGuess, err := tvm.InternalRateOfReturn(flow, rate.Commercial, &guess)
	assert.NoError(t, err)
	assert.InDelta(t, irr.PeriodRate().InexactFloat64(), irrFromGuess.PeriodRate().InexactFloat64(), 0.05)
}

func TestInternalRateOfReturnRejectsNoSignChange(t *testing.T) {
	flow := buildFlow(
		cashflow.NewEntry(money.FromInt(1000), date(2024, 1, 1), "", cashflow.ActualPrincipal),
		cashflow.NewEntry(money.FromInt(2000), date(2024, 6, 1), "", cashflow.ActualPrincipal),
	)
	_, err := tvm.InternalRateOfReturn(flow, rate.Commercial, nil)
	assert.Error(t, err)
}
