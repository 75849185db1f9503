package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"readmap/internal/align"
	"readmap/internal/index"
)

// RunBatch is the collect-then-map alternative to Pipeline.Run. It reads all
// of src into memory, maps the records on cfg.Threads goroutines, each owning
// a contiguous slice of the input and its own scratch, and then delivers the
// results to sink in submission order.
//
// The per-record error policy and the Report match Run. Cancelling ctx stops
// the read phase only.
func RunBatch(ctx context.Context, cfg Config, h *index.Handle, a Aligner, src Source, sink Sink) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	if h == nil || a == nil {
		return Report{}, errors.New("pipeline: nil index handle or aligner")
	}
	start := time.Now()
	log := cfg.logger().WithComponent("batch")

	items, cancelled, srcErr := collectItems(ctx, src)
	log.Debug("records collected", "records", len(items))

	results := make([]ResultItem, len(items))
	g := new(errgroup.Group)
	g.SetLimit(cfg.Threads)
	for _, span := range splitEven(len(items), cfg.Threads) {
		w := &worker{handle: h.Clone(), aligner: a, log: log}
		g.Go(func() error {
			defer w.handle.Release()
			scratch := align.NewScratch()
			for i := span[0]; i < span[1]; i++ {
				res, panicked := w.process(items[i], scratch)
				results[i] = res
				if panicked {
					w.log.Warn("recovered panic in batch mapping", "query", string(items[i].ID))
					scratch = align.NewScratch()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{Workers: cfg.Threads}, fmt.Errorf("pipeline: batch mapping: %w", err)
	}

	rep := Report{Workers: cfg.Threads}
	var sinkErr error
	for _, r := range results {
		rep.add(r)
		if sinkErr != nil {
			continue
		}
		sinkErr = sink.Consume(r)
	}
	rep.Elapsed = time.Since(start)

	if cancelled {
		return rep, errors.Join(ctx.Err(), srcErr, sinkErr)
	}
	return rep, errors.Join(srcErr, sinkErr)
}

func collectItems(ctx context.Context, src Source) (items []WorkItem, cancelled bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("query source panicked: %v", r)
		}
	}()
	for {
		if ctx.Err() != nil {
			return items, true, nil
		}
		id, payload, err := src.Next()
		if errors.Is(err, io.EOF) {
			return items, false, nil
		}
		if err != nil {
			return items, false, fmt.Errorf("read queries: %w", err)
		}
		items = append(items, WorkItem{ID: id, Payload: payload, Seq: uint64(len(items))})
	}
}

// splitEven cuts [0,n) into at most parts contiguous, non-empty spans.
func splitEven(n, parts int) [][2]int {
	if n == 0 {
		return nil
	}
	if parts > n {
		parts = n
	}
	spans := make([][2]int, 0, parts)
	lo := 0
	for i := 0; i < parts; i++ {
		hi := lo + (n-lo)/(parts-i)
		spans = append(spans, [2]int{lo, hi})
		lo = hi
	}
	return spans
}
