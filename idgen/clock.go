package idgen

import (
	"sync/atomic"
	"time"
)

// Clock reports wall-clock time in milliseconds since the Unix epoch.
type Clock interface {
	NowMillis() int64
}

// SystemClock reads the host wall clock. It is the default of every generator.
type SystemClock struct{}

func (SystemClock) NowMillis() int64 {
	return time.Now().UTC().UnixNano() / int64(time.Millisecond)
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() int64

func (f ClockFunc) NowMillis() int64 {
	return f()
}

// ManualClock only moves when told to. Safe for concurrent use.
type ManualClock struct {
	now int64
}

// NewManualClock returns a clock stopped at now, in Unix milliseconds.
func NewManualClock(now int64) *ManualClock {
	return &ManualClock{now: now}
}

func (c *ManualClock) NowMillis() int64 {
	return atomic.LoadInt64(&c.now)
}

// Set moves the clock to now, backwards included.
func (c *ManualClock) Set(now int64) {
	atomic.StoreInt64(&c.now, now)
}

// Advance moves the clock forward by d, truncated to whole milliseconds.
func (c *ManualClock) Advance(d time.Duration) {
	atomic.AddInt64(&c.now, int64(d/time.Millisecond))
}
