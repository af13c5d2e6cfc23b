// Package timectx provides a shared, overridable time source plus the
// timezone-aware datetime coercion rule used at money-warp's API boundary:
// naive datetimes are attached to (not converted into) the configured
// default timezone. A small struct holds either a default-clock function or
// an override, shared by reference between a Loan and every CashFlowItem
// it creates (see internal/config.Load for where the process default
// timezone comes from).
package timectx

import "time"

// Source produces the current time.
type Source interface {
	Now() time.Time
}

// SystemSource delegates to time.Now, rendered in the given location.
type SystemSource struct {
	Location *time.Location
}

func (s SystemSource) Now() time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}

// FixedSource always returns the same instant, used by Warp to observe a
// loan at a specific point in time.
type FixedSource struct {
	At time.Time
}

func (s FixedSource) Now() time.Time { return s.At }

// Context holds the default time source for a Loan and every CashFlowItem
// it creates. override and clear are its only mutators.
type Context struct {
	location *time.Location
	override Source
}

// New creates a Context whose default source is the system clock rendered
// in loc. A nil loc defaults to UTC.
func New(loc *time.Location) *Context {
	if loc == nil {
		loc = time.UTC
	}
	return &Context{location: loc}
}

// Now returns the override's time if one is active, otherwise the system
// clock in the context's configured location.
func (c *Context) Now() time.Time {
	if c.override != nil {
		return c.override.Now()
	}
	return SystemSource{Location: c.location}.Now()
}

// Override installs a fixed (or otherwise custom) time source.
func (c *Context) Override(source Source) {
	c.override = source
}

// Clear removes any override, reverting to the system clock.
func (c *Context) Clear() {
	c.override = nil
}

// Location returns the context's default timezone.
func (c *Context) Location() *time.Location {
	return c.location
}

// Clone returns a deep copy: an independent Context with the same location
// and override state, so that overriding the clone never affects the
// original — the isolation package warp depends on.
func (c *Context) Clone() *Context {
	clone := &Context{location: c.location, override: c.override}
	return clone
}

// Coerce attaches a naive (zero-location or UTC-by-default) time.Time to the
// context's default timezone without converting the wall-clock reading:
// naive inputs are attached, not converted, to the default zone. A time
// that already carries a non-UTC, non-local location is assumed to already
// be timezone-aware and is returned unchanged.
func (c *Context) Coerce(t time.Time) time.Time {
	if t.Location() == time.UTC || t.Location() == time.Local {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), c.location)
	}
	return t
}
