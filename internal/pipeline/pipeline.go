package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"readmap/internal/index"
	"readmap/internal/logging"
)

// Pipeline runs one mapping job on a fixed worker pool. It holds its own
// clone of the index handle until Close.
type Pipeline struct {
	cfg     Config
	handle  *index.Handle
	aligner Aligner
	log     *logging.Logger

	ran    atomic.Bool
	closed atomic.Bool
}

// New validates cfg and clones h. The caller keeps ownership of h.
func New(cfg Config, h *index.Handle, a Aligner) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if h == nil {
		return nil, errors.New("pipeline: nil index handle")
	}
	if a == nil {
		return nil, errors.New("pipeline: nil aligner")
	}
	return &Pipeline{
		cfg:     cfg,
		handle:  h.Clone(),
		aligner: a,
		log:     cfg.logger().WithComponent("pipeline"),
	}, nil
}

// Run maps every record of src and hands each result to sink. It returns
// only after the producer has finished, every worker has exited and the
// result queue is drained.
//
// Cancelling ctx stops reading from src; records already queued are still
// mapped and delivered, and the error then matches ctx.Err() along with any
// first sink error. Otherwise the error is the source error and/or the first
// sink error. Per-record mapping failures
// are never returned here; they travel in ResultItem.Err.
func (p *Pipeline) Run(ctx context.Context, src Source, sink Sink) (Report, error) {
	if p.closed.Load() {
		return Report{}, ErrClosed
	}
	if !p.ran.CompareAndSwap(false, true) {
		return Report{}, ErrAlreadyRun
	}
	start := time.Now()

	st, err := newRunState(p.cfg)
	if err != nil {
		return Report{}, fmt.Errorf("pipeline: %w", err)
	}

	for i := 0; i < p.cfg.Threads; i++ {
		w := &worker{
			st:       st,
			handle:   p.handle.Clone(),
			aligner:  p.aligner,
			log:      p.log.WithWorker(i),
			maxSleep: p.cfg.MaxSleep,
		}
		go w.run()
	}

	prod := &producer{
		st:       st,
		src:      src,
		log:      p.log,
		maxSleep: p.cfg.MaxSleep,
		progress: rate.Sometimes{Interval: 5 * time.Second},
	}
	prodErr := make(chan error, 1)
	go func() { prodErr <- prod.run(ctx) }()

	col := &collector{
		st:       st,
		sink:     sink,
		log:      p.log,
		maxSleep: p.cfg.MaxSleep,
		awaiting: rate.Sometimes{Interval: time.Second},
	}
	sinkErr := col.run()
	srcErr := <-prodErr

	rep := col.rep
	rep.Workers = p.cfg.Threads
	rep.Retired = int(st.retired.Load())
	rep.Elapsed = time.Since(start)

	if prod.cancelled {
		return rep, errors.Join(ctx.Err(), srcErr, sinkErr)
	}
	return rep, errors.Join(srcErr, sinkErr)
}

// Close releases the pipeline's index handle. It is safe to call more than once.
func (p *Pipeline) Close() {
	if p.closed.CompareAndSwap(false, true) {
		p.handle.Release()
	}
}
