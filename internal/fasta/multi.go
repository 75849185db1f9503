package fasta

import (
	"fmt"
	"io"
)

// MultiReader reads several files back to back, opening each lazily.
type MultiReader struct {
	paths []string
	cur   *Reader
	idx   int
}

// NewMultiReader returns a reader over paths in order.
func NewMultiReader(paths ...string) *MultiReader {
	return &MultiReader{paths: paths}
}

// Read returns the next record across all files, or io.EOF after the last one.
func (m *MultiReader) Read() (Record, error) {
	for {
		if m.cur == nil {
			if m.idx >= len(m.paths) {
				return Record{}, io.EOF
			}
			r, err := Open(m.paths[m.idx])
			if err != nil {
				return Record{}, fmt.Errorf("open %s: %w", m.paths[m.idx], err)
			}
			m.cur = r
			m.idx++
		}
		rec, err := m.cur.Read()
		if err == io.EOF {
			_ = m.cur.Close()
			m.cur = nil
			continue
		}
		return rec, err
	}
}

// Close closes the file currently open, if any.
func (m *MultiReader) Close() error {
	if m.cur == nil {
		return nil
	}
	err := m.cur.Close()
	m.cur = nil
	return err
}

// Next returns the ID and sequence of the next record across all files.
func (m *MultiReader) Next() (id, seq []byte, err error) {
	rec, err := m.Read()
	return rec.ID, rec.Seq, err
}
