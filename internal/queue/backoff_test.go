package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffEscalatesAndResets(t *testing.T) {
	b := NewBackoff(time.Millisecond)
	assert.False(t, b.Completed())

	for !b.Completed() {
		b.Snooze()
	}
	assert.True(t, b.Completed())

	b.Reset()
	assert.False(t, b.Completed())
}

func TestBackoffSleepIsBounded(t *testing.T) {
	b := &Backoff{MinSleep: 10 * time.Microsecond, MaxSleep: 80 * time.Microsecond}
	var got []time.Duration
	for i := 0; i < 8; i++ {
		got = append(got, b.nextSleep())
	}
	assert.Equal(t, []time.Duration{
		10 * time.Microsecond,
		20 * time.Microsecond,
		40 * time.Microsecond,
		80 * time.Microsecond,
		80 * time.Microsecond,
		80 * time.Microsecond,
		80 * time.Microsecond,
		80 * time.Microsecond,
	}, got)
}

func TestBackoffDefaults(t *testing.T) {
	var b Backoff
	assert.Equal(t, DefaultMinSleep, b.nextSleep())
	for i := 0; i < 20; i++ {
		b.nextSleep()
	}
	assert.Equal(t, DefaultMaxSleep, b.nextSleep())
}

func TestBackoffPhases(t *testing.T) {
	var b Backoff
	n := 0
	for !b.Completed() {
		b.Snooze()
		n++
	}
	assert.Equal(t, yieldLimit+1, n, "spin and yield phases precede sleeping")
	assert.Zero(t, b.sleep, "no sleep before the backoff completes")

	b.Snooze()
	assert.Equal(t, DefaultMinSleep, b.sleep)
}
