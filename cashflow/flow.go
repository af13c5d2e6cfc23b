package cashflow

import (
	"time"

	"github.com/tomascorrea/money-warp/timectx"
)

// Flow is an ordered collection of Items sharing a TimeContext. Iteration
// resolves each item at the flow's current time and yields only entries
// that are not (as of that time) deleted.
type Flow struct {
	ctx   *timectx.Context
	items []*Item
}

// NewFlow creates an empty Flow bound to ctx.
func NewFlow(ctx *timectx.Context) *Flow {
	return &Flow{ctx: ctx}
}

// Add appends a new Item to the flow holding entry, effective as of the
// entry's DateTime.
func (f *Flow) Add(entry Entry) *Item {
	item := NewItem(f.ctx, entry.DateTime, entry)
	f.items = append(f.items, item)
	return item
}

// AddItem appends an already-constructed Item (used when replaying a clone).
func (f *Flow) AddItem(item *Item) {
	f.items = append(f.items, item)
}

// Items returns the flow's underlying items in insertion order.
func (f *Flow) Items() []*Item {
	return f.items
}

// Entries resolves every item at the flow's current time and returns the
// non-deleted entries, in insertion order.
func (f *Flow) Entries() []Entry {
	return f.EntriesAt(f.ctx.Now())
}

// EntriesAt resolves every item at the given time and returns the
// non-deleted entries, in insertion order.
func (f *Flow) EntriesAt(at time.Time) []Entry {
	out := make([]Entry, 0, len(f.items))
	for _, item := range f.items {
		if entry, ok := item.Resolve(at); ok {
			out = append(out, entry)
		}
	}
	return out
}

// Query starts a new query builder over the flow.
func (f *Flow) Query() *Query {
	return newQuery(f)
}

// Clone deep-copies the flow and all of its items, binding the result to
// ctx (expected to already be a clone, per package warp).
func (f *Flow) Clone(ctx *timectx.Context) *Flow {
	clone := &Flow{ctx: ctx, items: make([]*Item, len(f.items))}
	for idx, item := range f.items {
		clone.items[idx] = item.Clone(ctx)
	}
	return clone
}
