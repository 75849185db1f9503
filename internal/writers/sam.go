package writers

import (
	"bufio"
	"io"

	"readmap/internal/output"
	"readmap/internal/pipeline"
)

func init() {
	Register(output.FormatSAM, func(w io.Writer, h Header) Sink { return NewSAM(w, h) })
}

// SAM writes a header from the index targets, then one line per mapping.
// Queries without mappings, failed ones included, get a single unmapped line.
type SAM struct {
	bw     *bufio.Writer
	header string
	wrote  bool
}

// NewSAM returns a SAM writer on w. The header is written with the first
// record, or on Close when there are none.
func NewSAM(w io.Writer, h Header) *SAM {
	program := h.Program
	if program == "" {
		program = "readmap"
	}
	return &SAM{
		bw:     bufio.NewWriterSize(w, 64<<10),
		header: output.FormatSAMHeader(h.Targets, program, h.Version),
	}
}

func (s *SAM) writeHeader() error {
	if s.wrote {
		return nil
	}
	s.wrote = true
	_, err := s.bw.WriteString(s.header)
	return err
}

func (s *SAM) line(l string) error {
	if _, err := s.bw.WriteString(l); err != nil {
		return err
	}
	return s.bw.WriteByte('\n')
}

// Consume writes r's lines.
func (s *SAM) Consume(r pipeline.ResultItem) error {
	if err := s.writeHeader(); err != nil {
		return err
	}
	if !r.OK() || len(r.Mappings) == 0 {
		return s.line(output.FormatSAMUnmapped(r.ID, r.Query))
	}
	for _, m := range r.Mappings {
		if err := s.line(output.FormatSAMRecord(m, r.Query)); err != nil {
			return err
		}
	}
	return nil
}

// Close writes the header if no record did, then flushes.
func (s *SAM) Close() error {
	if err := s.writeHeader(); err != nil {
		return err
	}
	return s.bw.Flush()
}
