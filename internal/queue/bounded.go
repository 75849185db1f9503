package queue

import (
	"errors"
	"sync/atomic"
)

// ErrInvalidCapacity is returned by NewBounded for a capacity below one.
var ErrInvalidCapacity = errors.New("queue: capacity must be >= 1")

type cacheLinePad struct {
	_ [64]byte
}

// slot.turn encodes whose move it is on this slot: 2*lap while the slot waits
// for the producer of that lap, 2*lap+1 once the value is published and waits
// for the consumer.
type slot[T any] struct {
	turn atomic.Uint64
	val  T
}

// Bounded is a fixed-capacity, non-blocking MPMC ring.
//
// Every TryPush and TryPop is atomic with respect to each other; there is no
// FIFO promise between different goroutines.
type Bounded[T any] struct {
	_ cacheLinePad

	// head is the next ticket a consumer will claim.
	head atomic.Uint64

	_ cacheLinePad

	// tail is the next ticket a producer will claim.
	tail atomic.Uint64

	_ cacheLinePad

	slots []slot[T]
	size  uint64
}

// NewBounded allocates a ring holding at most capacity items.
func NewBounded[T any](capacity int) (*Bounded[T], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &Bounded[T]{
		slots: make([]slot[T], capacity),
		size:  uint64(capacity),
	}, nil
}

// TryPush appends v unless the ring is full. On false the caller still owns v.
func (q *Bounded[T]) TryPush(v T) bool {
	ticket := q.tail.Load()
	for {
		s := &q.slots[ticket%q.size]
		want := 2 * (ticket / q.size)
		turn := s.turn.Load()
		switch {
		case turn == want:
			if q.tail.CompareAndSwap(ticket, ticket+1) {
				s.val = v
				s.turn.Store(want + 1)
				return true
			}
			ticket = q.tail.Load()
		case turn < want:
			// Slot still holds the previous lap's value.
			return false
		default:
			ticket = q.tail.Load()
		}
	}
}

// TryPop removes one item, reporting false when nothing is published.
func (q *Bounded[T]) TryPop() (T, bool) {
	var zero T
	ticket := q.head.Load()
	for {
		s := &q.slots[ticket%q.size]
		want := 2*(ticket/q.size) + 1
		turn := s.turn.Load()
		switch {
		case turn == want:
			if q.head.CompareAndSwap(ticket, ticket+1) {
				v := s.val
				s.val = zero
				s.turn.Store(want + 1)
				return v, true
			}
			ticket = q.head.Load()
		case turn < want:
			return zero, false
		default:
			ticket = q.head.Load()
		}
	}
}

// Empty reports whether every claimed push has also been claimed by a pop.
//
// A push whose ticket is claimed but whose value is not yet published counts
// as non-empty, so Empty never reports true while an accepted item is pending.
func (q *Bounded[T]) Empty() bool {
	head := q.head.Load()
	return q.tail.Load() <= head
}

// Len is a snapshot of the number of claimed, not yet popped, tickets.
func (q *Bounded[T]) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail <= head {
		return 0
	}
	n := tail - head
	if n > q.size {
		n = q.size
	}
	return int(n)
}

// Cap returns the fixed capacity.
func (q *Bounded[T]) Cap() int { return int(q.size) }
