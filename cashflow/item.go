package cashflow

import (
	"sort"
	"time"

	"github.com/tomascorrea/money-warp/timectx"
)

// snapshot is one (effective_date, entry|tombstone) pair in an Item's
// timeline. A nil Entry marks a tombstone: the item is considered deleted
// as of EffectiveDate.
type snapshot struct {
	EffectiveDate time.Time
	Entry         *Entry
}

// Item is a temporal container wrapping an append-only timeline of entry
// snapshots. update and delete append; nothing is ever edited in place.
type Item struct {
	timeline []snapshot
	ctx      *timectx.Context
}

// NewItem creates an Item sharing the given TimeContext, seeded with an
// initial entry effective as of the given effective time.
func NewItem(ctx *timectx.Context, effective time.Time, entry Entry) *Item {
	item := &Item{ctx: ctx}
	item.Update(effective, entry)
	return item
}

// Update appends a new effective entry to the timeline.
func (i *Item) Update(effective time.Time, entry Entry) {
	i.insert(snapshot{EffectiveDate: effective, Entry: &entry})
}

// Delete appends a tombstone to the timeline, effective at the given time.
func (i *Item) Delete(effective time.Time) {
	i.insert(snapshot{EffectiveDate: effective, Entry: nil})
}

func (i *Item) insert(s snapshot) {
	i.timeline = append(i.timeline, s)
	sort.SliceStable(i.timeline, func(a, b int) bool {
		return i.timeline[a].EffectiveDate.Before(i.timeline[b].EffectiveDate)
	})
}

// Resolve returns the latest entry with effective_date <= at, or (Entry{},
// false) if no such snapshot exists or the latest one is a tombstone.
func (i *Item) Resolve(at time.Time) (Entry, bool) {
	var latest *snapshot
	for idx := range i.timeline {
		s := &i.timeline[idx]
		if s.EffectiveDate.After(at) {
			break
		}
		latest = s
	}
	if latest == nil || latest.Entry == nil {
		return Entry{}, false
	}
	return *latest.Entry, true
}

// ResolveNow resolves against the item's TimeContext's current time.
func (i *Item) ResolveNow() (Entry, bool) {
	return i.Resolve(i.ctx.Now())
}

// Clone deep-copies the item's timeline, sharing the new context ctx
// (callers are expected to pass an already-cloned TimeContext so overriding
// it does not leak back to the original Loan — see package warp).
func (i *Item) Clone(ctx *timectx.Context) *Item {
	clone := &Item{ctx: ctx, timeline: make([]snapshot, len(i.timeline))}
	copy(clone.timeline, i.timeline)
	return clone
}
