package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/time/rate"

	"readmap/internal/logging"
)

type producer struct {
	st       *runState
	src      Source
	log      *logging.Logger
	maxSleep time.Duration
	progress rate.Sometimes

	queued    uint64
	cancelled bool
}

// run feeds the work queue until the source is exhausted, fails, or ctx is
// cancelled. Shutdown is set on every exit path.
func (p *producer) run(ctx context.Context) (err error) {
	defer p.st.shutdown.Store(true)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("query source panicked: %v", r)
		}
	}()

	b := newBackoff(p.maxSleep)
	for {
		if ctx.Err() != nil {
			p.cancelled = true
			p.log.Debug("producer cancelled", "queued", p.queued)
			return nil
		}
		id, payload, err := p.src.Next()
		if errors.Is(err, io.EOF) {
			p.log.Debug("producer finished", "queued", p.queued)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read queries: %w", err)
		}

		item := WorkItem{ID: id, Payload: payload, Seq: p.queued}
		for !p.st.work.TryPush(item) {
			b.Snooze()
		}
		b.Reset()
		p.queued++
		p.progress.Do(func() {
			p.log.Debug("queued records", "queued", p.queued, "pending", p.st.work.Len())
		})
	}
}
