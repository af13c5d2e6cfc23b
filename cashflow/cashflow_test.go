package cashflow_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tomascorrea/money-warp/cashflow"
	"github.com/tomascorrea/money-warp/money"
	"github.com/tomascorrea/money-warp/timectx"
)

func d(y, m, day int) time.Time {
	return time.Date(y, time.Month(m), day, 0, 0, 0, 0, time.UTC)
}

func TestItemResolveBeforeAnyEffectiveDate(t *testing.T) {
	ctx := timectx.New(time.UTC)
	item := cashflow.NewItem(ctx, d(2024, 2, 1), cashflow.NewEntry(money.FromInt(10), d(2024, 2, 1), "x", cashflow.ActualPrincipal))

	_, ok := item.Resolve(d(2024, 1, 1))
	assert.False(t, ok)
}

func TestItemDeleteIsTombstone(t *testing.T) {
	ctx := timectx.New(time.UTC)
	entry := cashflow.NewEntry(money.FromInt(10), d(2024, 2, 1), "x", cashflow.ActualPrincipal)
	item := cashflow.NewItem(ctx, d(2024, 2, 1), entry)
	item.Delete(d(2024, 2, 5))

	_, ok := item.Resolve(d(2024, 2, 10))
	assert.False(t, ok, "deleted as of 2024-02-05")

	got, ok := item.Resolve(d(2024, 2, 3))
	assert.True(t, ok, "still present before the delete")
	assert.True(t, got.Amount.Equal(money.FromInt(10)))
}

func TestItemUpdateAppendsNotOverwrites(t *testing.T) {
	ctx := timectx.New(time.UTC)
	entry := cashflow.NewEntry(money.FromInt(10), d(2024, 2, 1), "x", cashflow.ActualPrincipal)
	item := cashflow.NewItem(ctx, d(2024, 2, 1), entry)
	item.Update(d(2024, 2, 10), cashflow.NewEntry(money.FromInt(20), d(2024, 2, 10), "y", cashflow.ActualPrincipal))

	early, _ := item.Resolve(d(2024, 2, 5))
	late, _ := item.Resolve(d(2024, 2, 15))

	assert.True(t, early.Amount.Equal(money.FromInt(10)))
	assert.True(t, late.Amount.Equal(money.FromInt(20)))
}

func TestFlowQueryFilterAndSum(t *testing.T) {
	ctx := timectx.New(time.UTC)
	flow := cashflow.NewFlow(ctx)
	flow.Add(cashflow.NewEntry(money.FromInt(100), d(2024, 1, 1), "principal", cashflow.ActualPrincipal))
	flow.Add(cashflow.NewEntry(money.FromInt(10), d(2024, 1, 1), "interest", cashflow.ActualInterest))
	flow.Add(cashflow.NewEntry(money.FromInt(50), d(2024, 2, 1), "principal", cashflow.ActualPrincipal))

	sum := flow.Query().WhereCategory(cashflow.ActualPrincipal).Sum()
	assert.True(t, sum.Equal(money.FromInt(150)))

	count := flow.Query().ExcludeCategory(cashflow.ActualInterest).Count()
	assert.Equal(t, 2, count)
}

func TestFlowQueryOrderLimitOffset(t *testing.T) {
	ctx := timectx.New(time.UTC)
	flow := cashflow.NewFlow(ctx)
	flow.Add(cashflow.NewEntry(money.FromInt(1), d(2024, 3, 1), "c", cashflow.ActualPrincipal))
	flow.Add(cashflow.NewEntry(money.FromInt(2), d(2024, 1, 1), "a", cashflow.ActualPrincipal))
	flow.Add(cashflow.NewEntry(money.FromInt(3), d(2024, 2, 1), "b", cashflow.ActualPrincipal))

	all := flow.Query().OrderByDateTime(true).All()
	assert.Equal(t, "a", all[0].Description)
	assert.Equal(t, "b", all[1].Description)
	assert.Equal(t, "c", all[2].Description)

	page := flow.Query().OrderByDateTime(true).Offset(1).Limit(1).All()
	assert.Len(t, page, 1)
	assert.Equal(t, "b", page[0].Description)
}

func TestQueryToFlowIsReQueryable(t *testing.T) {
	ctx := timectx.New(time.UTC)
	flow := cashflow.NewFlow(ctx)
	flow.Add(cashflow.NewEntry(money.FromInt(100), d(2024, 1, 1), "p", cashflow.ActualPrincipal))
	flow.Add(cashflow.NewEntry(money.FromInt(10), d(2024, 1, 1), "i", cashflow.ActualInterest))

	sub := flow.Query().WhereCategory(cashflow.ActualPrincipal).ToFlow()
	assert.Equal(t, 1, sub.Query().Count())
}

func TestIsValidCategory(t *testing.T) {
	assert.True(t, cashflow.IsValidCategory(cashflow.ActualFine))
	assert.False(t, cashflow.IsValidCategory(cashflow.Category("not_a_real_category")))
}
