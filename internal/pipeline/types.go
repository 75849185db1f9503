package pipeline

import (
	"io"

	"readmap/internal/align"
	"readmap/internal/index"
)

// WorkItem is one query record waiting to be mapped.
type WorkItem struct {
	ID      []byte
	Payload []byte
	Seq     uint64 // submission order, for diagnostics only
}

// ResultItem is the outcome of mapping one WorkItem. Err == nil means success,
// in which case Mappings may still be empty.
type ResultItem struct {
	ID       []byte
	Seq      uint64
	Query    []byte // query bases as read
	Mappings []align.Mapping
	Err      error
}

// OK reports whether the record mapped without error.
func (r ResultItem) OK() bool { return r.Err == nil }

// Aligner maps one query. Implementations must only read from the index.
type Aligner interface {
	Map(h *index.Handle, id, seq []byte, s *align.Scratch) ([]align.Mapping, error)
}

// Source yields query records until it returns io.EOF.
type Source interface {
	Next() (id, payload []byte, err error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (id, payload []byte, err error)

// Next calls f.
func (f SourceFunc) Next() ([]byte, []byte, error) { return f() }

// SliceSource serves a fixed list of items, then io.EOF.
type SliceSource struct {
	items []WorkItem
	next  int
}

// NewSliceSource returns a Source over items.
func NewSliceSource(items ...WorkItem) *SliceSource { return &SliceSource{items: items} }

// Next returns the next item or io.EOF.
func (s *SliceSource) Next() ([]byte, []byte, error) {
	if s.next >= len(s.items) {
		return nil, nil, io.EOF
	}
	it := s.items[s.next]
	s.next++
	return it.ID, it.Payload, nil
}

// Sink receives every ResultItem exactly once, from a single goroutine.
type Sink interface {
	Consume(ResultItem) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ResultItem) error

// Consume calls f.
func (f SinkFunc) Consume(r ResultItem) error { return f(r) }
