// Package loan implements the amortizing-loan state machine: construction
// validation, payment recording with strict fine/interest/principal
// allocation priority, late-fee accrual, and the derived views (balances,
// installments, settlements, amortization projection) computed on demand
// from the loan's append-only payment history. Structured as an
// aggregate-with-validate type mutated only through named operations, the
// way a validated domain record is mutated only through its own allocation
// logic, generalized from a single-currency database record into an
// in-memory state machine driven by package cashflow, scheduler, and rate.
package loan

import (
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/tomascorrea/money-warp/cashflow"
	"github.com/tomascorrea/money-warp/internal/loanerr"
	"github.com/tomascorrea/money-warp/money"
	"github.com/tomascorrea/money-warp/rate"
	"github.com/tomascorrea/money-warp/scheduler"
	"github.com/tomascorrea/money-warp/tax"
	"github.com/tomascorrea/money-warp/timectx"
)

// MoraStrategy selects how interest beyond a due date compounds against the
// regular interest already accrued in the same period.
type MoraStrategy int

const (
	// Compound accrues mora interest on principal plus the period's regular
	// interest.
	Compound MoraStrategy = iota
	// Simple accrues mora interest on principal alone.
	Simple
)

// defaultSolverTolerance is the absolute tolerance handed to the bracketed
// root-finder behind IRR when the caller does not override it via
// WithSolverTolerance.
const defaultSolverTolerance = 1e-4

// fineRecord tracks one levied-and-possibly-paid late fine.
type fineRecord struct {
	DueDate time.Time
	Applied money.Money
	Paid    money.Money
}

// paymentRecord is the realized allocation of one RecordPayment call. The
// loan's payment history is an append-only slice of these; nothing is ever
// rewritten in place, mirroring the timeline-of-snapshots discipline used by
// cashflow.Item.
type paymentRecord struct {
	PaymentDate    time.Time
	InterestDate   time.Time
	ProcessingDate time.Time
	Description    string

	FinePaid             money.Money
	RegularInterestPaid  money.Money
	MoraInterestPaid     money.Money
	PrincipalPaid        money.Money
	DueDateCovered       time.Time
	ItemStart, ItemEnd   int // positional offsets into the actual cash-flow Flow's Items(), used to group same-time entries from one payment
}

// Loan is the aggregate state machine: a principal amortized over a fixed
// due-date grid, mutated only by recording payments, with every other view
// (balance, installments, settlements, schedule projection) derived on
// read.
type Loan struct {
	principal       money.Money
	interestRate    rate.InterestRate
	dueDates        []time.Time
	disbursement    time.Time
	scheduler       scheduler.Scheduler
	fineRate        decimal.Decimal
	gracePeriod     int
	moraRate        rate.InterestRate
	moraStrategy    MoraStrategy
	taxes           tax.BaseTax
	ctx             *timectx.Context
	logger          zerolog.Logger
	solverTolerance float64

	originalSchedule scheduler.Schedule
	cachedTax        *tax.Result

	remainingPrincipal  money.Money
	lastInterestCutoff  time.Time
	payments            []paymentRecord
	actualFlow          *cashflow.Flow
	fines               []fineRecord
	anticipatedDueDates map[time.Time]bool
}

// Option configures optional Loan fields.
type Option func(*Loan)

// WithScheduler overrides the default PriceScheduler.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(l *Loan) { l.scheduler = s }
}

// WithFineRate sets the flat percentage levied once per missed due date.
func WithFineRate(r decimal.Decimal) Option {
	return func(l *Loan) { l.fineRate = r }
}

// WithGracePeriodDays sets how many days after a due date a payment is still
// considered on time.
func WithGracePeriodDays(days int) Option {
	return func(l *Loan) { l.gracePeriod = days }
}

// WithMoraRate overrides the default (same as interestRate) rate used for
// interest beyond a due date.
func WithMoraRate(r rate.InterestRate) Option {
	return func(l *Loan) { l.moraRate = r }
}

// WithMoraStrategy selects COMPOUND or SIMPLE mora accrual.
func WithMoraStrategy(s MoraStrategy) Option {
	return func(l *Loan) { l.moraStrategy = s }
}

// WithTaxes attaches a tax strategy, computed lazily from the original
// schedule and cached.
func WithTaxes(t tax.BaseTax) Option {
	return func(l *Loan) { l.taxes = t }
}

// WithTimeContext shares an existing TimeContext instead of creating a new
// one, used by package warp to splice a clone's context into a cloned loan.
func WithTimeContext(ctx *timectx.Context) Option {
	return func(l *Loan) { l.ctx = ctx }
}

// WithLogger attaches a logger for payment/fine activity. Unset defaults to
// zerolog.Nop(), so the library stays silent unless an embedding application
// opts in — it never forces console output itself.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loan) { l.logger = logger }
}

// WithSolverTolerance overrides the absolute tolerance IRR passes to its
// bracketed root-finder, e.g. sourced from a process-wide config default.
func WithSolverTolerance(tolerance float64) Option {
	return func(l *Loan) { l.solverTolerance = tolerance }
}

// New constructs a Loan, validating inputs and computing the immutable
// original amortization schedule.
func New(principal money.Money, interestRate rate.InterestRate, dueDates []time.Time, disbursement time.Time, opts ...Option) (*Loan, error) {
	if !principal.IsPositive() {
		return nil, loanerr.InvalidInput{Field: "principal", Reason: "must be positive"}
	}
	if len(dueDates) == 0 {
		return nil, loanerr.InvalidInput{Field: "dueDates", Reason: "must have at least one due date"}
	}

	l := &Loan{
		interestRate:        interestRate,
		scheduler:           scheduler.PriceScheduler{},
		fineRate:            decimal.Zero,
		gracePeriod:         0,
		moraRate:            interestRate,
		moraStrategy:        Compound,
		anticipatedDueDates: make(map[time.Time]bool),
		logger:              zerolog.Nop(),
		solverTolerance:     defaultSolverTolerance,
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.fineRate.LessThan(decimal.Zero) || l.fineRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, loanerr.InvalidInput{Field: "fineRate", Reason: "must be within [0, 1]"}
	}
	if l.gracePeriod < 0 {
		return nil, loanerr.InvalidInput{Field: "gracePeriodDays", Reason: "must be non-negative"}
	}
	if l.ctx == nil {
		l.ctx = timectx.New(time.UTC)
	}

	// Naive disbursement/due-date inputs are attached to the context's
	// default timezone here, at construction, so every date stored on the
	// loan from this point on is timezone-aware.
	coercedDisbursement := l.ctx.Coerce(disbursement)
	sorted := make([]time.Time, len(dueDates))
	for i, d := range dueDates {
		sorted[i] = l.ctx.Coerce(d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	// Disbursement must be strictly before the first due date: defaulting
	// it instead would silently mask a caller bug.
	if !coercedDisbursement.Before(sorted[0]) {
		return nil, loanerr.InvalidInput{Field: "disbursement", Reason: "must be strictly before the first due date"}
	}

	l.principal = principal
	l.dueDates = sorted
	l.disbursement = coercedDisbursement
	l.remainingPrincipal = principal
	l.lastInterestCutoff = coercedDisbursement
	l.actualFlow = cashflow.NewFlow(l.ctx)

	sched, err := l.scheduler.GenerateSchedule(l.principal, l.interestRate, l.dueDates, l.disbursement)
	if err != nil {
		return nil, err
	}
	l.originalSchedule = sched

	l.logger.Debug().
		Str("principal", principal.String()).
		Int("installments", len(sorted)).
		Time("disbursement", l.disbursement).
		Msg("loan constructed")

	return l, nil
}

// now returns the loan's current time via its shared TimeContext.
func (l *Loan) now() time.Time {
	return l.ctx.Now()
}

// TimeContext returns the loan's shared clock, used by package warp to
// derive an independent clone bound to a fixed point in time.
func (l *Loan) TimeContext() *timectx.Context {
	return l.ctx
}

// Principal returns the original principal.
func (l *Loan) Principal() money.Money { return l.principal }

// InterestRate returns the loan's nominal interest rate.
func (l *Loan) InterestRate() rate.InterestRate { return l.interestRate }

// DueDates returns the sorted due-date grid.
func (l *Loan) DueDates() []time.Time {
	out := make([]time.Time, len(l.dueDates))
	copy(out, l.dueDates)
	return out
}

// Disbursement returns the disbursement date.
func (l *Loan) Disbursement() time.Time { return l.disbursement }

// CurrentBalance returns the outstanding principal.
func (l *Loan) CurrentBalance() money.Money { return l.remainingPrincipal }

// IsPaidOff reports whether the loan's principal and outstanding fines are
// both zero.
func (l *Loan) IsPaidOff() bool {
	return l.remainingPrincipal.IsZero() && l.OutstandingFines().IsZero()
}

// GetOriginalSchedule returns the immutable schedule computed at
// construction time.
func (l *Loan) GetOriginalSchedule() scheduler.Schedule {
	return l.originalSchedule
}

// GetActualCashFlow returns the append-only flow of actual_* and
// fine_applied entries recorded so far.
func (l *Loan) GetActualCashFlow() *cashflow.Flow {
	return l.actualFlow
}

// coveredInstallments returns how many leading due dates have had their
// scheduled principal milestone met or exceeded by remainingPrincipal,
// computed by comparing the current remaining principal against each
// original-schedule ending-balance milestone, not by counting payment
// calls.
func (l *Loan) coveredInstallments() int {
	covered := 0
	for _, entry := range l.originalSchedule.Entries {
		if entry.EndingBalance.GreaterThanOrEqual(l.remainingPrincipal) {
			covered++
		} else {
			break
		}
	}
	return covered
}

// nextUnpaidDueDate returns the next due date not yet covered, and whether
// one exists.
func (l *Loan) nextUnpaidDueDate() (time.Time, bool) {
	idx := l.coveredInstallments()
	if idx >= len(l.originalSchedule.Entries) {
		return time.Time{}, false
	}
	return l.originalSchedule.Entries[idx].DueDate, true
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// Clone deep-copies the loan, binding the copy to ctx (expected to already be
// a clone of the original's TimeContext, per package warp). Payment and fine
// history are copied into fresh slices/maps so mutating the clone — recording
// payments, applying fines — never touches the original.
func (l *Loan) Clone(ctx *timectx.Context) *Loan {
	clone := *l
	clone.ctx = ctx
	clone.dueDates = append([]time.Time(nil), l.dueDates...)
	clone.payments = append([]paymentRecord(nil), l.payments...)
	clone.fines = append([]fineRecord(nil), l.fines...)
	clone.actualFlow = l.actualFlow.Clone(ctx)

	clone.anticipatedDueDates = make(map[time.Time]bool, len(l.anticipatedDueDates))
	for k, v := range l.anticipatedDueDates {
		clone.anticipatedDueDates[k] = v
	}

	if l.cachedTax != nil {
		cachedTax := *l.cachedTax
		cachedTax.PerInstallment = append([]tax.InstallmentTax(nil), l.cachedTax.PerInstallment...)
		clone.cachedTax = &cachedTax
	}

	return &clone
}
