// Command moneywarp-demo builds a sample amortizing loan and walks it
// through a schedule, a payment, a warped late-fine projection, an internal
// rate of return, and a tax grossup, logging each step with structured fields the way a
// production service logs request handling.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/tomascorrea/money-warp/dategen"
	"github.com/tomascorrea/money-warp/internal/config"
	"github.com/tomascorrea/money-warp/loan"
	"github.com/tomascorrea/money-warp/money"
	"github.com/tomascorrea/money-warp/rate"
	"github.com/tomascorrea/money-warp/scheduler"
	"github.com/tomascorrea/money-warp/tax"
	"github.com/tomascorrea/money-warp/warp"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	log.Info().Str("timezone", cfg.DefaultTimezone).Int("year_size", cfg.DefaultYearSize).Msg("configuration loaded")

	interestRate, err := rate.Parse("2.5% monthly", rate.WithYearSize(rate.YearSize(cfg.DefaultYearSize)))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse interest rate")
	}

	disbursement := time.Date(2024, 1, 1, 0, 0, 0, 0, cfg.Location)
	dueDates, err := dategen.Monthly{}.Generate(time.Date(2024, 2, 1, 0, 0, 0, 0, cfg.Location), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to generate due dates")
	}

	warp.SetLogger(log.Logger)

	l, err := loan.New(
		money.FromInt(10000),
		interestRate,
		dueDates,
		disbursement,
		loan.WithFineRate(decimal.RequireFromString("0.02")),
		loan.WithGracePeriodDays(3),
		loan.WithLogger(log.Logger),
		loan.WithSolverTolerance(cfg.RootTolerance),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct loan")
	}
	log.Info().Int("installments", len(dueDates)).Msg("loan constructed")

	schedule := l.GetOriginalSchedule()
	for _, entry := range schedule.Entries {
		log.Info().
			Int("installment", entry.PaymentNumber).
			Time("due_date", entry.DueDate).
			Str("payment", entry.PaymentAmount.String()).
			Str("ending_balance", entry.EndingBalance.String()).
			Msg("scheduled installment")
	}

	settlement, err := l.PayInstallment(schedule.Entries[0].PaymentAmount, "first installment")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to record payment")
	}
	log.Info().
		Str("principal_paid", settlement.PrincipalPaid.String()).
		Str("interest_paid", settlement.InterestPaid.String()).
		Str("remaining_balance", settlement.RemainingBalance.String()).
		Msg("payment recorded")

	futureDate := dueDates[2].AddDate(0, 0, 10)
	projected, err := warp.At(l, futureDate, func(clone *loan.Loan) (money.Money, error) {
		clone.CalculateLateFines(futureDate)
		return clone.TotalFines(), nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to compute warped projection")
	}
	log.Info().Str("projected_fines", projected.String()).Msg("warped projection complete")

	irr, err := l.IRR(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to compute internal rate of return")
	}
	log.Info().Str("monthly_irr", irr.ToMonthly().PeriodRate().String()).Msg("internal rate of return computed")

	iof := tax.IndividualIOF()
	grossPrincipal, err := tax.Grossup(
		money.FromInt(10000),
		interestRate,
		dueDates,
		disbursement,
		scheduler.PriceScheduler{},
		iof,
		tax.WithTolerance(cfg.RootTolerance),
		tax.WithLogger(log.Logger),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to gross up disbursement for withheld tax")
	}
	log.Info().Str("gross_principal", grossPrincipal.String()).Msg("grossed-up principal computed")
}
