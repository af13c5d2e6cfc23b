// Package tax provides a per-installment tax strategy over an amortization
// schedule plus a grossup solver that finds the principal a lender must
// disburse so the borrower nets a requested amount after tax withholding.
// Uses the same one-behavior, multiple-concrete-implementations interface
// style as scheduler.Scheduler.
package tax

import (
	"time"

	"github.com/tomascorrea/money-warp/money"
	"github.com/tomascorrea/money-warp/scheduler"
)

// InstallmentTax is the tax attributed to a single schedule entry.
type InstallmentTax struct {
	PaymentNumber    int
	DueDate          time.Time
	PrincipalPayment money.Money
	TaxAmount        money.Money
}

// Result is the outcome of applying a BaseTax to a schedule.
type Result struct {
	Total          money.Money
	PerInstallment []InstallmentTax
}

// BaseTax is the capability every concrete tax strategy implements: compute
// a Result from a schedule and its disbursement date.
type BaseTax interface {
	Calculate(schedule scheduler.Schedule, disbursement time.Time) (Result, error)
}
