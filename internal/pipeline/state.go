package pipeline

import (
	"sync/atomic"
	"time"

	"readmap/internal/queue"
)

// runState is everything the stages of one Run share.
type runState struct {
	work    *queue.Bounded[WorkItem]
	results *queue.Bounded[ResultItem]

	shutdown atomic.Bool  // set once by the producer
	live     atomic.Int32 // worker goroutines that have not exited
	active   atomic.Int32 // workers neither retired nor finished
	retired  atomic.Int32
}

func newRunState(cfg Config) (*runState, error) {
	work, err := queue.NewBounded[WorkItem](cfg.WorkCapacity)
	if err != nil {
		return nil, err
	}
	results, err := queue.NewBounded[ResultItem](cfg.ResultCapacity)
	if err != nil {
		return nil, err
	}
	st := &runState{work: work, results: results}
	st.live.Store(int32(cfg.Threads))
	st.active.Store(int32(cfg.Threads))
	return st, nil
}

// retire takes one worker out of the pool after a panic. It refuses when the
// caller is the last active worker, so queued work is never stranded.
func (s *runState) retire() bool {
	for {
		n := s.active.Load()
		if n <= 1 {
			return false
		}
		if s.active.CompareAndSwap(n, n-1) {
			s.retired.Add(1)
			return true
		}
	}
}

func newBackoff(maxSleep time.Duration) *queue.Backoff { return queue.NewBackoff(maxSleep) }
