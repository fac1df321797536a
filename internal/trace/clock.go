package trace

import "sync/atomic"

// Clock supplies logical timestamps for traces. Each call to Next returns
// a strictly increasing value. Logical time instead of wall-clock time
// keeps trace ordering deterministic and replayable.
type Clock interface {
	Next() int64
}

// SeqClock is the production Clock: a monotonic counter.
//
// Thread-safety: SeqClock is safe for concurrent use (atomic operations),
// though the single-writer discipline means one goroutine typically calls
// Next per document.
type SeqClock struct {
	seq atomic.Int64
}

// NewSeqClock creates a clock starting at 0; the first Next returns 1.
func NewSeqClock() *SeqClock {
	return &SeqClock{}
}

// NewSeqClockAt creates a clock resuming from a known position, e.g. the
// highest timestamp already present in a persistent witness log.
func NewSeqClockAt(start int64) *SeqClock {
	c := &SeqClock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and advances the clock.
func (c *SeqClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without advancing.
func (c *SeqClock) Current() int64 {
	return c.seq.Load()
}
