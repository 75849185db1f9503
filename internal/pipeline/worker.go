package pipeline

import (
	"runtime"
	"runtime/debug"
	"time"

	"readmap/internal/align"
	"readmap/internal/index"
	"readmap/internal/logging"
)

type worker struct {
	st       *runState
	handle   *index.Handle
	aligner  Aligner
	log      *logging.Logger
	maxSleep time.Duration
}

// run is the worker state machine: waiting, processing, back to waiting, until
// shutdown is set and the work queue is empty.
func (w *worker) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer w.st.live.Add(-1)
	defer w.handle.Release()

	w.log.Debug("worker started")
	scratch := align.NewScratch()
	b := newBackoff(w.maxSleep)
	done := 0
	for {
		item, ok := w.st.work.TryPop()
		if !ok {
			if w.st.shutdown.Load() && w.st.work.Empty() {
				w.st.active.Add(-1)
				w.log.Debug("worker finished", "records", done)
				return
			}
			b.Snooze()
			continue
		}
		b.Reset()

		res, panicked := w.process(item, scratch)
		w.push(res)
		done++
		if !panicked {
			continue
		}
		if w.st.retire() {
			w.log.Warn("worker retired after panic", "query", string(item.ID), "records", done)
			return
		}
		w.log.Warn("last worker recovered from panic", "query", string(item.ID))
		scratch = align.NewScratch()
	}
}

// process maps one item. A panic in the aligner becomes a *PanicError result.
func (w *worker) process(item WorkItem, s *align.Scratch) (res ResultItem, panicked bool) {
	res = ResultItem{ID: item.ID, Seq: item.Seq, Query: item.Payload}
	defer func() {
		if r := recover(); r != nil {
			res.Mappings = nil
			res.Err = &PanicError{Query: string(item.ID), Value: r, Stack: debug.Stack()}
			panicked = true
		}
	}()
	res.Mappings, res.Err = w.aligner.Map(w.handle, item.ID, item.Payload, s)
	return res, false
}

// push retries until the result queue accepts r.
func (w *worker) push(r ResultItem) {
	b := newBackoff(w.maxSleep)
	for !w.st.results.TryPush(r) {
		b.Snooze()
	}
}
