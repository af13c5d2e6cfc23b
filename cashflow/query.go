package cashflow

import (
	"sort"
	"time"

	"github.com/tomascorrea/money-warp/money"
)

// Query builds a filtered, ordered view over a Flow, terminating in All,
// First, Sum, Count, or ToFlow. Filters compose by logical AND.
type Query struct {
	flow       *Flow
	predicates []func(Entry) bool
	order      func(a, b Entry) bool
	limit      int
	offset     int
}

func newQuery(f *Flow) *Query {
	return &Query{flow: f, limit: -1}
}

// WhereCategory filters to entries whose category equals c.
func (q *Query) WhereCategory(c Category) *Query {
	return q.where(func(e Entry) bool { return e.Category == c })
}

// WhereCategoryIn filters to entries whose category is one of cats.
func (q *Query) WhereCategoryIn(cats ...Category) *Query {
	set := make(map[Category]bool, len(cats))
	for _, c := range cats {
		set[c] = true
	}
	return q.where(func(e Entry) bool { return set[e.Category] })
}

// ExcludeCategory filters out entries whose category equals c.
func (q *Query) ExcludeCategory(c Category) *Query {
	return q.where(func(e Entry) bool { return e.Category != c })
}

// WhereDateTimeBefore filters to entries strictly before t.
func (q *Query) WhereDateTimeBefore(t time.Time) *Query {
	return q.where(func(e Entry) bool { return e.DateTime.Before(t) })
}

// WhereDateTimeAfter filters to entries strictly after t.
func (q *Query) WhereDateTimeAfter(t time.Time) *Query {
	return q.where(func(e Entry) bool { return e.DateTime.After(t) })
}

// WhereDateTimeOnOrBefore filters to entries at or before t.
func (q *Query) WhereDateTimeOnOrBefore(t time.Time) *Query {
	return q.where(func(e Entry) bool { return !e.DateTime.After(t) })
}

// WhereAmountGreaterThan filters to entries whose amount exceeds m.
func (q *Query) WhereAmountGreaterThan(m money.Money) *Query {
	return q.where(func(e Entry) bool { return e.Amount.GreaterThan(m) })
}

func (q *Query) where(pred func(Entry) bool) *Query {
	q.predicates = append(q.predicates, pred)
	return q
}

// OrderByDateTime orders ascending (or descending) by DateTime.
func (q *Query) OrderByDateTime(ascending bool) *Query {
	q.order = func(a, b Entry) bool {
		if ascending {
			return a.DateTime.Before(b.DateTime)
		}
		return a.DateTime.After(b.DateTime)
	}
	return q
}

// Limit caps the number of results returned by a terminal.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Offset skips the first n matching results.
func (q *Query) Offset(n int) *Query {
	q.offset = n
	return q
}

func (q *Query) matching() []Entry {
	var out []Entry
	for _, entry := range q.flow.Entries() {
		ok := true
		for _, pred := range q.predicates {
			if !pred(entry) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, entry)
		}
	}
	if q.order != nil {
		sort.SliceStable(out, func(i, j int) bool { return q.order(out[i], out[j]) })
	}
	if q.offset > 0 && q.offset < len(out) {
		out = out[q.offset:]
	} else if q.offset >= len(out) {
		out = nil
	}
	if q.limit >= 0 && q.limit < len(out) {
		out = out[:q.limit]
	}
	return out
}

// All returns every matching entry.
func (q *Query) All() []Entry {
	return q.matching()
}

// First returns the first matching entry, if any.
func (q *Query) First() (Entry, bool) {
	all := q.matching()
	if len(all) == 0 {
		return Entry{}, false
	}
	return all[0], true
}

// Sum returns the sum of matching entries' amounts.
func (q *Query) Sum() money.Money {
	total := money.Zero
	for _, e := range q.matching() {
		total = total.Add(e.Amount)
	}
	return total
}

// Count returns the number of matching entries.
func (q *Query) Count() int {
	return len(q.matching())
}

// ToFlow materializes the matching entries into a new, independent Flow
// bound to the same TimeContext, so it can be re-queried.
func (q *Query) ToFlow() *Flow {
	out := NewFlow(q.flow.ctx)
	for _, e := range q.matching() {
		out.Add(e)
	}
	return out
}
