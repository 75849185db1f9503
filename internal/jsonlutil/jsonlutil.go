// Package jsonlutil writes JSON Lines through a pooled buffered writer.
package jsonlutil

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
)

// Reuse a 64 KiB buffered writer across JSONL writers to avoid per-writer mallocs.
var bwPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

// Writer encodes values of type T as one JSON object per line.
// It is not safe for concurrent use.
type Writer[T any] struct {
	bw       *bufio.Writer
	enc      *json.Encoder
	encode   func(*json.Encoder, T) error
	isBroken func(error) bool
}

// New returns a Writer on out.
//   - encode: converts one value to its wire type and calls enc.Encode
//   - isBroken: recognizes broken/closed pipe errors, which Close suppresses
func New[T any](out io.Writer, encode func(*json.Encoder, T) error, isBroken func(error) bool) *Writer[T] {
	bw := bwPool.Get().(*bufio.Writer)
	bw.Reset(out)
	return &Writer[T]{bw: bw, enc: json.NewEncoder(bw), encode: encode, isBroken: isBroken}
}

// Write encodes v. Output is buffered until Close.
func (w *Writer[T]) Write(v T) error {
	if w.bw == nil {
		return io.ErrClosedPipe
	}
	return w.encode(w.enc, v)
}

// Close flushes and returns the buffer to the pool. It is safe to call twice.
func (w *Writer[T]) Close() error {
	if w.bw == nil {
		return nil
	}
	err := w.bw.Flush()
	w.bw.Reset(io.Discard)
	bwPool.Put(w.bw)
	w.bw = nil
	if err != nil && w.isBroken != nil && w.isBroken(err) {
		return nil
	}
	return err
}
