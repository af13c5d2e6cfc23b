// Package dategen generates periodic due-date lists (monthly, bi-weekly,
// custom interval) anchored to a first due date, with calendar-aware month
// rollover anchoring a cutoff day across a year boundary.
package dategen

import (
	"time"

	"github.com/tomascorrea/money-warp/internal/loanerr"
)

// Generator produces an ordered list of due dates.
type Generator interface {
	Generate(first time.Time, numPayments int) ([]time.Time, error)
}

// Monthly generates one due date per calendar month, anchored to the day of
// month of the first due date. When a target month is shorter than the
// anchor day (e.g. anchor day 31, target month February), the date clamps to
// the target month's last day.
type Monthly struct{}

func (Monthly) Generate(first time.Time, numPayments int) ([]time.Time, error) {
	if numPayments < 1 {
		return nil, loanerr.InvalidInput{Field: "numPayments", Reason: "must be at least 1"}
	}
	anchorDay := first.Day()
	out := make([]time.Time, numPayments)
	year, month := first.Year(), int(first.Month())
	for i := 0; i < numPayments; i++ {
		out[i] = anchoredDate(year, month, anchorDay, first)
		year, month = nextMonth(year, month)
	}
	return out, nil
}

// Interval generates due dates a fixed number of days apart, starting at
// first (inclusive).
type Interval struct {
	Days int
}

func (g Interval) Generate(first time.Time, numPayments int) ([]time.Time, error) {
	if numPayments < 1 {
		return nil, loanerr.InvalidInput{Field: "numPayments", Reason: "must be at least 1"}
	}
	if g.Days < 1 {
		return nil, loanerr.InvalidInput{Field: "intervalDays", Reason: "must be at least 1"}
	}
	out := make([]time.Time, numPayments)
	for i := 0; i < numPayments; i++ {
		out[i] = first.AddDate(0, 0, g.Days*i)
	}
	return out, nil
}

// BiWeekly generates due dates 14 days apart.
func BiWeekly() Interval { return Interval{Days: 14} }

// Daily generates due dates 1 day apart.
func Daily() Interval { return Interval{Days: 1} }

// anchoredDate builds a date in (year, month) on anchorDay, clamped to the
// last day of that month, preserving the time-of-day of reference.
func anchoredDate(year, month, anchorDay int, reference time.Time) time.Time {
	lastDay := daysInMonth(year, month)
	day := anchorDay
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, time.Month(month), day,
		reference.Hour(), reference.Minute(), reference.Second(), reference.Nanosecond(), reference.Location())
}

func daysInMonth(year, month int) int {
	firstOfNext := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	lastOfThis := firstOfNext.AddDate(0, 0, -1)
	return lastOfThis.Day()
}

// nextMonth returns the (year, month) pair following the given one,
// rolling over into the next year at December the way PreviousMonth rolls
// backward at January.
func nextMonth(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}

// PreviousMonth returns the year and month preceding the given one.
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}
