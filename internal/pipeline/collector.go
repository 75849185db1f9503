package pipeline

import (
	"time"

	"golang.org/x/time/rate"

	"readmap/internal/logging"
)

type collector struct {
	st       *runState
	sink     Sink
	log      *logging.Logger
	maxSleep time.Duration
	awaiting rate.Sometimes

	rep     Report
	sinkErr error
}

// run drains the result queue until every worker has exited and a final pop
// comes back empty. It returns the first sink error, if any.
func (c *collector) run() error {
	b := newBackoff(c.maxSleep)
	for {
		if r, ok := c.st.results.TryPop(); ok {
			c.consume(r)
			b.Reset()
			continue
		}
		if n := c.st.live.Load(); n > 0 {
			if b.Completed() {
				c.awaiting.Do(func() {
					c.log.Debug("awaiting results", "live_workers", n, "pending_work", c.st.work.Len())
				})
			}
			b.Snooze()
			continue
		}
		// Every worker has exited, so nothing else can be pushed.
		r, ok := c.st.results.TryPop()
		if !ok {
			return c.sinkErr
		}
		c.consume(r)
	}
}

func (c *collector) consume(r ResultItem) {
	c.rep.add(r)
	if c.sinkErr != nil {
		return
	}
	if err := c.sink.Consume(r); err != nil {
		c.sinkErr = err
		c.log.Warn("sink failed; draining remaining results", "err", err)
	}
}
