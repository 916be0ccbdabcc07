package store

import "sync/atomic"

// Clock is a monotonic logical clock for ledger ordering.
//
// All records are stamped with a strictly increasing seq number from
// this clock, never wall-clock timestamps, so history reads are
// reproducible regardless of when runs happened.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// though the CLI's single-writer usage never exercises that.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific sequence
// number. Used to resume from the last persisted position.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
