// Package warp implements a scoped, isolated time-travel view of a Loan:
// clone the loan, pin the clone's clock to a target date, let the caller
// observe or mutate the clone, then discard it. The original loan's payment
// and fine history are guaranteed untouched, and only one warp may be
// active at a time across the process, mirrored on a single-flag worker
// guard shape.
package warp

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tomascorrea/money-warp/internal/loanerr"
	"github.com/tomascorrea/money-warp/loan"
	"github.com/tomascorrea/money-warp/timectx"
)

var activeMu sync.Mutex
var active bool
var logger = zerolog.Nop()

// SetLogger installs a package-level logger for warp entry/exit events.
// Unset, warp stays silent (zerolog.Nop()) — it never forces console output
// on an embedding application.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Into clones l, pins the clone's clock to at, pre-computes late fines on
// the clone up to at, and hands the clone to fn. The clone's TimeContext is
// independent of l's, so any RecordPayment/CalculateLateFines calls fn makes
// through the clone never reach l. Only one warp may be active process-wide;
// a nested call returns ErrNestedWarp without invoking fn.
func Into(l *loan.Loan, at time.Time, fn func(*loan.Loan) error) error {
	activeMu.Lock()
	if active {
		activeMu.Unlock()
		return loanerr.ErrNestedWarp
	}
	active = true
	activeMu.Unlock()

	defer func() {
		activeMu.Lock()
		active = false
		activeMu.Unlock()
	}()

	ctx := l.TimeContext().Clone()
	clone := l.Clone(ctx)

	// A naive target date is attached to the loan's default timezone, never
	// silently converted, before it pins the clone's clock.
	coercedAt := ctx.Coerce(at)
	ctx.Override(timectx.FixedSource{At: coercedAt})
	clone.CalculateLateFines(coercedAt)

	logger.Debug().Time("at", coercedAt).Msg("warp entered")
	defer logger.Debug().Time("at", coercedAt).Msg("warp exited")

	return fn(clone)
}

// At is a convenience wrapper over Into for read-only observation: it runs
// view against the warped clone and returns whatever it computes, alongside
// any error either from entering the warp or from view itself.
func At[T any](l *loan.Loan, at time.Time, view func(*loan.Loan) (T, error)) (T, error) {
	var result T
	err := Into(l, at, func(clone *loan.Loan) error {
		r, verr := view(clone)
		if verr != nil {
			return verr
		}
		result = r
		return nil
	})
	return result, err
}
