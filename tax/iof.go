package tax

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tomascorrea/money-warp/money"
	"github.com/tomascorrea/money-warp/scheduler"
)

// Rounding controls how an IOF installment's two components are combined.
type Rounding int

const (
	// Precise sums the daily and additional components at full precision,
	// then rounds the sum to the cent.
	Precise Rounding = iota
	// PerComponent rounds each component to the cent before summing.
	PerComponent
)

// defaultMaxDailyDays caps the number of days the daily component accrues
// over.
const defaultMaxDailyDays = 365

// IOF is Brazil's tax-on-credit-operations: a per-day component on the
// principal plus a flat additional component, both withheld at disbursement
// per installment.
type IOF struct {
	DailyRate      decimal.Decimal
	AdditionalRate decimal.Decimal
	MaxDailyDays   int
	Rounding       Rounding
}

// Option configures optional IOF fields.
type Option func(*IOF)

// WithMaxDailyDays overrides the default 365-day cap on the daily component.
func WithMaxDailyDays(days int) Option {
	return func(i *IOF) { i.MaxDailyDays = days }
}

// WithRounding selects the PRECISE or PER_COMPONENT rounding mode.
func WithRounding(r Rounding) Option {
	return func(i *IOF) { i.Rounding = r }
}

// New builds an IOF from explicit daily and additional rates.
func New(dailyRate, additionalRate decimal.Decimal, opts ...Option) IOF {
	iof := IOF{DailyRate: dailyRate, AdditionalRate: additionalRate, MaxDailyDays: defaultMaxDailyDays}
	for _, opt := range opts {
		opt(&iof)
	}
	return iof
}

// individualDailyRate and individualAdditionalRate are Brazil's standard
// personal-loan IOF rates: 0.0082% per day, 0.38% additional. Illustrative
// jurisdictional defaults, not a source of legal truth.
var (
	individualDailyRate      = decimal.RequireFromString("0.000082")
	individualAdditionalRate = decimal.RequireFromString("0.0038")
	corporateDailyRate       = decimal.RequireFromString("0.000041")
	corporateAdditionalRate  = decimal.RequireFromString("0.0038")
)

// IndividualIOF fixes daily and additional rates to Brazil's personal-loan
// defaults. It overrides no behavior beyond the fixed rates.
func IndividualIOF(opts ...Option) IOF {
	return New(individualDailyRate, individualAdditionalRate, opts...)
}

// CorporateIOF fixes daily and additional rates to Brazil's legal-entity
// defaults. It overrides no behavior beyond the fixed rates.
func CorporateIOF(opts ...Option) IOF {
	return New(corporateDailyRate, corporateAdditionalRate, opts...)
}

// Calculate applies the IOF formula to each schedule entry's principal
// payment, capping the day count at MaxDailyDays.
func (iof IOF) Calculate(schedule scheduler.Schedule, disbursement time.Time) (Result, error) {
	perInstallment := make([]InstallmentTax, len(schedule.Entries))
	total := money.Zero

	for idx, entry := range schedule.Entries {
		days := daysBetween(disbursement, entry.DueDate)
		if days > iof.MaxDailyDays {
			days = iof.MaxDailyDays
		}
		if days < 0 {
			days = 0
		}

		dailyComponent := entry.PrincipalPayment.Mul(iof.DailyRate).Mul(decimal.NewFromInt(int64(days)))
		additionalComponent := entry.PrincipalPayment.Mul(iof.AdditionalRate)

		var taxAmount money.Money
		if iof.Rounding == PerComponent {
			taxAmount = dailyComponent.Quantized().Add(additionalComponent.Quantized())
		} else {
			taxAmount = dailyComponent.Add(additionalComponent).Quantized()
		}

		perInstallment[idx] = InstallmentTax{
			PaymentNumber:    entry.PaymentNumber,
			DueDate:          entry.DueDate,
			PrincipalPayment: entry.PrincipalPayment,
			TaxAmount:        taxAmount,
		}
		total = total.Add(taxAmount)
	}

	return Result{Total: total, PerInstallment: perInstallment}, nil
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
