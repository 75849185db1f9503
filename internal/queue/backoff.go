package queue

import (
	"runtime"
	"time"
)

const (
	spinLimit  = 6
	yieldLimit = 10

	// DefaultMinSleep is the first sleep once spinning and yielding are exhausted.
	DefaultMinSleep = 50 * time.Microsecond
	// DefaultMaxSleep caps a single Snooze.
	DefaultMaxSleep = 2 * time.Millisecond
)

// Backoff escalates from spinning through yielding to short sleeps while a
// non-blocking queue operation keeps failing.
//
// The zero value is ready to use with the default bounds. A Backoff is owned
// by one goroutine.
type Backoff struct {
	MinSleep time.Duration
	MaxSleep time.Duration

	step  int
	sleep time.Duration
}

// NewBackoff returns a Backoff whose sleeps never exceed maxSleep.
// A non-positive maxSleep selects DefaultMaxSleep.
func NewBackoff(maxSleep time.Duration) *Backoff {
	return &Backoff{MaxSleep: maxSleep}
}

// Snooze waits once. Early calls busy-spin 1<<step iterations, the next ones
// yield the processor, and after Completed reports true each call sleeps,
// doubling up to MaxSleep.
func (b *Backoff) Snooze() {
	switch {
	case b.step <= spinLimit:
		for i := 0; i < 1<<b.step; i++ {
			spin()
		}
		b.step++
	case b.step <= yieldLimit:
		for i := 0; i < 1<<(b.step-spinLimit); i++ {
			runtime.Gosched()
		}
		b.step++
	default:
		time.Sleep(b.nextSleep())
	}
}

// Completed reports whether Snooze has escalated to sleeping.
func (b *Backoff) Completed() bool { return b.step > yieldLimit }

// Reset returns to the cheapest phase; call it after making progress.
func (b *Backoff) Reset() {
	b.step = 0
	b.sleep = 0
}

func (b *Backoff) nextSleep() time.Duration {
	lo, hi := b.MinSleep, b.MaxSleep
	if lo <= 0 {
		lo = DefaultMinSleep
	}
	if hi <= 0 {
		hi = DefaultMaxSleep
	}
	if lo > hi {
		lo = hi
	}
	switch {
	case b.sleep < lo:
		b.sleep = lo
	case b.sleep < hi:
		b.sleep *= 2
		if b.sleep > hi {
			b.sleep = hi
		}
	}
	return b.sleep
}

//go:noinline
func spin() {}
