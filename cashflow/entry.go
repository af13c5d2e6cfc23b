// Package cashflow provides temporal cash-flow records: a frozen entry
// type, an item wrapping an append-only timeline of entries, an ordered
// flow of items, and a query builder over a flow. Category is a closed
// enum with its own IsValidCategory validator, never a bare string at the
// query-builder boundary.
package cashflow

import (
	"time"

	"github.com/google/uuid"
	"github.com/tomascorrea/money-warp/money"
)

// Category is a closed tag identifying the meaning of a cash-flow entry.
// Query filters never accept a bare string, only one of the values below.
type Category string

const (
	ExpectedDisbursement Category = "expected_disbursement"
	ExpectedTax          Category = "expected_tax"
	ExpectedInterest     Category = "expected_interest"
	ExpectedPrincipal    Category = "expected_principal"
	ActualInterest       Category = "actual_interest"
	ActualMoraInterest   Category = "actual_mora_interest"
	ActualPrincipal      Category = "actual_principal"
	ActualFine           Category = "actual_fine"
	FineApplied          Category = "fine_applied"
)

var validCategories = map[Category]bool{
	ExpectedDisbursement: true,
	ExpectedTax:          true,
	ExpectedInterest:     true,
	ExpectedPrincipal:    true,
	ActualInterest:       true,
	ActualMoraInterest:   true,
	ActualPrincipal:      true,
	ActualFine:           true,
	FineApplied:          true,
}

// IsValidCategory reports whether c is one of the closed enum values.
func IsValidCategory(c Category) bool {
	return validCategories[c]
}

// Entry is a frozen cash-flow record.
type Entry struct {
	ID          uuid.UUID
	Amount      money.Money
	DateTime    time.Time
	Description string
	Category    Category
}

// NewEntry builds a frozen Entry, generating a fresh reference id.
func NewEntry(amount money.Money, at time.Time, description string, category Category) Entry {
	return Entry{
		ID:          uuid.New(),
		Amount:      amount,
		DateTime:    at,
		Description: description,
		Category:    category,
	}
}
