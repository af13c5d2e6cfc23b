// Package rate provides InterestRate: a period rate tagged with a
// compounding frequency and a day-count convention, convertible between
// frequencies through a canonical effective-annual hub, and able to accrue
// daily-compound growth over an arbitrary day count. It is the rate half of
// money-warp's TVM foundation, sitting beside package money, the rate
// itself a first-class type instead of a bare decimal field.
package rate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tomascorrea/money-warp/internal/loanerr"
	"github.com/tomascorrea/money-warp/money"
)

// Frequency is a compounding frequency.
type Frequency int

const (
	Daily Frequency = iota
	Monthly
	Quarterly
	SemiAnnual
	Annual
	Continuous
)

func (f Frequency) String() string {
	switch f {
	case Daily:
		return "daily"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case SemiAnnual:
		return "semi_annual"
	case Annual:
		return "annual"
	case Continuous:
		return "continuous"
	default:
		return "unknown"
	}
}

// YearSize is the day-count convention used to relate a daily rate to an
// annual one.
type YearSize int

const (
	// Commercial treats the year as 365 days.
	Commercial YearSize = 365
	// Banker treats the year as 360 days.
	Banker YearSize = 360
)

// DisplayStyle controls how String() renders the rate's period token.
type DisplayStyle int

const (
	Long DisplayStyle = iota
	Abbreviated
)

// InterestRate is an immutable period rate with a compounding frequency and
// day-count convention. The canonical intermediate form used by every
// conversion is the effective annual rate.
type InterestRate struct {
	periodRate   decimal.Decimal
	frequency    Frequency
	yearSize     YearSize
	precision    *int32
	displayStyle DisplayStyle

	effAnnual decimal.Decimal
}

// Option configures optional InterestRate fields.
type Option func(*InterestRate)

// WithYearSize overrides the default Commercial (365) day-count convention.
func WithYearSize(y YearSize) Option {
	return func(r *InterestRate) { r.yearSize = y }
}

// WithPrecision quantizes the effective-annual hub to the given number of
// decimal places, used to reproduce a lender's externally truncated rate.
func WithPrecision(places int32) Option {
	return func(r *InterestRate) { r.precision = &places }
}

// WithDisplayStyle sets the long/abbreviated rendering hint.
func WithDisplayStyle(s DisplayStyle) Option {
	return func(r *InterestRate) { r.displayStyle = s }
}

// New builds an InterestRate from a period rate (e.g. 0.03 for 3%) and its
// compounding frequency.
func New(periodRate decimal.Decimal, frequency Frequency, opts ...Option) InterestRate {
	r := InterestRate{
		periodRate: periodRate,
		frequency:  frequency,
		yearSize:   Commercial,
	}
	for _, opt := range opts {
		opt(&r)
	}
	r.effAnnual = toEffectiveAnnual(periodRate, frequency, r.yearSize)
	r.quantize()
	return r
}

func (r *InterestRate) quantize() {
	if r.precision != nil {
		r.effAnnual = r.effAnnual.Round(*r.precision)
	}
}

// powFloat computes base^exponent for a real exponent by bridging through
// float64: decimal.Decimal has no native irrational-exponent power, and
// nothing in the retrieved pack supplies arbitrary-precision exponentiation,
// so this is the one place money-warp crosses into stdlib math, converting
// back into a decimal.Decimal immediately via string formatting (the same
// "stringify before parsing" discipline package money uses for float input).
// Pow computes base^exponent for a real exponent, the same float64 bridge
// Accrue uses internally. Exported for callers (schedulers, TVM) that need
// a discount or growth factor without going through a full InterestRate.
func Pow(base decimal.Decimal, exponent float64) decimal.Decimal {
	return powFloat(base, exponent)
}

func powFloat(base decimal.Decimal, exponent float64) decimal.Decimal {
	b, _ := base.Float64()
	result := math.Pow(b, exponent)
	d, err := decimal.NewFromString(strconv.FormatFloat(result, 'f', -15, 64))
	if err != nil {
		// math.Pow never produces a string decimal.NewFromString rejects.
		panic(fmt.Sprintf("rate: unexpected float formatting error: %v", err))
	}
	return d
}

func periodsPerYear(frequency Frequency, yearSize YearSize) float64 {
	switch frequency {
	case Daily:
		return float64(yearSize)
	case Monthly:
		return 12
	case Quarterly:
		return 4
	case SemiAnnual:
		return 2
	case Annual:
		return 1
	default:
		return 0
	}
}

func toEffectiveAnnual(periodRate decimal.Decimal, frequency Frequency, yearSize YearSize) decimal.Decimal {
	if frequency == Continuous {
		rf, _ := periodRate.Float64()
		expVal := math.Exp(rf) - 1
		d, _ := decimal.NewFromString(strconv.FormatFloat(expVal, 'f', -15, 64))
		return d
	}
	n := periodsPerYear(frequency, yearSize)
	onePlus := decimal.NewFromInt(1).Add(periodRate)
	return powFloat(onePlus, n).Sub(decimal.NewFromInt(1))
}

func fromEffectiveAnnual(effAnnual decimal.Decimal, frequency Frequency, yearSize YearSize) decimal.Decimal {
	if frequency == Continuous {
		ef, _ := effAnnual.Float64()
		lnVal := math.Log(1 + ef)
		d, _ := decimal.NewFromString(strconv.FormatFloat(lnVal, 'f', -15, 64))
		return d
	}
	n := periodsPerYear(frequency, yearSize)
	onePlus := decimal.NewFromInt(1).Add(effAnnual)
	return powFloat(onePlus, 1/n).Sub(decimal.NewFromInt(1))
}

// EffectiveAnnual returns the canonical effective annual rate.
func (r InterestRate) EffectiveAnnual() decimal.Decimal { return r.effAnnual }

// PeriodRate returns the original period rate as constructed.
func (r InterestRate) PeriodRate() decimal.Decimal { return r.periodRate }

// Frequency returns the compounding frequency.
func (r InterestRate) Frequency() Frequency { return r.frequency }

// YearSize returns the day-count convention.
func (r InterestRate) YearSize() YearSize { return r.yearSize }

// toFrequency returns a new InterestRate in the target frequency, preserving
// year size, precision, and display style, via the effective-annual hub.
func (r InterestRate) toFrequency(target Frequency) InterestRate {
	periodRate := fromEffectiveAnnual(r.effAnnual, target, r.yearSize)
	out := InterestRate{
		periodRate:   periodRate,
		frequency:    target,
		yearSize:     r.yearSize,
		precision:    r.precision,
		displayStyle: r.displayStyle,
		effAnnual:    r.effAnnual,
	}
	return out
}

// ToDaily converts to a daily-compounding rate.
func (r InterestRate) ToDaily() InterestRate { return r.toFrequency(Daily) }

// ToMonthly converts to a monthly-compounding rate.
func (r InterestRate) ToMonthly() InterestRate { return r.toFrequency(Monthly) }

// ToQuarterly converts to a quarterly-compounding rate.
func (r InterestRate) ToQuarterly() InterestRate { return r.toFrequency(Quarterly) }

// ToSemiAnnual converts to a semi-annual-compounding rate.
func (r InterestRate) ToSemiAnnual() InterestRate { return r.toFrequency(SemiAnnual) }

// ToAnnual converts to an annual-compounding rate.
func (r InterestRate) ToAnnual() InterestRate { return r.toFrequency(Annual) }

// ToContinuous converts to a continuously-compounding rate.
func (r InterestRate) ToContinuous() InterestRate { return r.toFrequency(Continuous) }

// ToPeriodic converts to a rate compounding numPeriods times per year.
func (r InterestRate) ToPeriodic(numPeriods float64) InterestRate {
	onePlus := decimal.NewFromInt(1).Add(r.effAnnual)
	p := powFloat(onePlus, 1/numPeriods).Sub(decimal.NewFromInt(1))
	return InterestRate{
		periodRate:   p,
		frequency:    Daily, // a custom-periods rate has no named frequency; Daily is used as a generic periodic bucket, the rate itself still carries the correct periodRate
		yearSize:     r.yearSize,
		precision:    r.precision,
		displayStyle: r.displayStyle,
		effAnnual:    r.effAnnual,
	}
}

// DailyRate returns the equivalent rate per day.
func (r InterestRate) DailyRate() decimal.Decimal {
	onePlus := decimal.NewFromInt(1).Add(r.effAnnual)
	return powFloat(onePlus, 1/float64(r.yearSize)).Sub(decimal.NewFromInt(1))
}

// Accrue compounds principal at the daily rate over the given number of
// days: principal * (1 + daily)^days.
func (r InterestRate) Accrue(principal money.Money, days int) money.Money {
	if days <= 0 {
		return principal
	}
	daily := r.DailyRate()
	onePlusDaily := decimal.NewFromInt(1).Add(daily)
	factor := powFloat(onePlusDaily, float64(days))
	return principal.Mul(factor)
}

// String renders the rate using the configured display style, e.g.
// "3.0000% monthly" (Long) or "3.0000% m" (Abbreviated).
func (r InterestRate) String() string {
	pct := r.periodRate.Mul(decimal.NewFromInt(100)).StringFixed(4)
	if r.displayStyle == Abbreviated {
		return fmt.Sprintf("%s%% %s", pct, abbreviate(r.frequency))
	}
	return fmt.Sprintf("%s%% %s", pct, r.frequency.String())
}

func abbreviate(f Frequency) string {
	switch f {
	case Daily:
		return "d"
	case Monthly:
		return "m"
	case Quarterly:
		return "q"
	case SemiAnnual:
		return "s"
	case Annual:
		return "a"
	default:
		return "a.a."
	}
}

var periodTokens = map[string]Frequency{
	"a": Annual, "annual": Annual, "a.a.": Annual,
	"m": Monthly, "monthly": Monthly, "a.m.": Monthly,
	"d": Daily, "daily": Daily, "a.d.": Daily,
	"q": Quarterly, "quarterly": Quarterly, "a.t.": Quarterly,
	"s": SemiAnnual, "semi_annual": SemiAnnual, "a.s.": SemiAnnual,
}

var abbreviatedTokens = map[string]bool{
	"a.a.": true, "a.m.": true, "a.d.": true, "a.t.": true, "a.s.": true,
	"a": true, "m": true, "d": true, "q": true, "s": true,
}

// Parse parses strings of the form "<number>[%] <period>", e.g. "3% monthly"
// or "0.03 a.m.". Presence of '%' means the number is a percentage; its
// absence means a decimal fraction. Abbreviated period tokens set the
// display style to Abbreviated.
func Parse(s string, opts ...Option) (InterestRate, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 {
		return InterestRate{}, loanerr.InvalidInput{Field: "rate", Reason: fmt.Sprintf("expected '<number>[%%] <period>', got %q", s)}
	}
	numTok, periodTok := fields[0], strings.ToLower(fields[1])

	isPercent := strings.HasSuffix(numTok, "%")
	numTok = strings.TrimSuffix(numTok, "%")

	num, err := decimal.NewFromString(numTok)
	if err != nil {
		return InterestRate{}, loanerr.InvalidInput{Field: "rate", Reason: fmt.Sprintf("unparseable number %q", fields[0])}
	}
	if isPercent {
		num = num.Div(decimal.NewFromInt(100))
	}

	freq, ok := periodTokens[periodTok]
	if !ok {
		return InterestRate{}, loanerr.InvalidInput{Field: "rate", Reason: fmt.Sprintf("unknown period token %q", fields[1])}
	}

	allOpts := make([]Option, 0, len(opts)+1)
	if abbreviatedTokens[periodTok] {
		allOpts = append(allOpts, WithDisplayStyle(Abbreviated))
	}
	allOpts = append(allOpts, opts...)

	return New(num, freq, allOpts...), nil
}
