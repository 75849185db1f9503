package index

import (
	"runtime"
	"sync/atomic"
)

type shared struct {
	ix      *Index
	refs    atomic.Int64
	destroy func(*Index)
}

// Handle is a reference-counted share of an immutable Index.
//
// Every Handle, whether from NewHandle or Clone, owns one reference and must
// be released exactly once. The destroy callback runs once, on whichever
// goroutine drops the last reference.
type Handle struct {
	s        *shared
	released atomic.Bool
}

// NewHandle wraps ix with a reference count of one. destroy may be nil.
func NewHandle(ix *Index, destroy func(*Index)) *Handle {
	s := &shared{ix: ix, destroy: destroy}
	s.refs.Store(1)
	return newHandle(s)
}

func newHandle(s *shared) *Handle {
	h := &Handle{s: s}
	// A leaked clone still drops its reference once it is unreachable.
	runtime.SetFinalizer(h, (*Handle).Release)
	return h
}

// Clone returns a new Handle sharing the same Index. It panics if h was released.
func (h *Handle) Clone() *Handle {
	if h.released.Load() {
		panic("index: Clone of released Handle")
	}
	h.s.refs.Add(1)
	return newHandle(h.s)
}

// Release drops h's reference. Further calls on the same Handle are no-ops.
func (h *Handle) Release() {
	if !h.released.CompareAndSwap(false, true) {
		return
	}
	runtime.SetFinalizer(h, nil)
	if h.s.refs.Add(-1) != 0 {
		return
	}
	ix := h.s.ix
	h.s.ix = nil
	if h.s.destroy != nil {
		h.s.destroy(ix)
	}
}

// Index returns the shared index. It panics if h was released.
func (h *Handle) Index() *Index {
	if h.released.Load() {
		panic("index: use of released Handle")
	}
	return h.s.ix
}

// Refs reports the number of live handles sharing the index.
func (h *Handle) Refs() int64 { return h.s.refs.Load() }
