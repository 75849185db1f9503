package writers

import (
	"bufio"
	"io"

	"readmap/internal/output"
	"readmap/internal/pipeline"
)

func init() {
	Register(output.FormatPAF, func(w io.Writer, _ Header) Sink { return NewPAF(w) })
}

// PAF writes one tab-separated line per mapping. Failed and unmapped
// queries produce no output.
type PAF struct {
	bw *bufio.Writer
}

// NewPAF returns a PAF writer on w.
func NewPAF(w io.Writer) *PAF {
	return &PAF{bw: bufio.NewWriterSize(w, 64<<10)}
}

// Consume writes r's mappings.
func (p *PAF) Consume(r pipeline.ResultItem) error {
	if !r.OK() {
		return nil
	}
	for _, m := range r.Mappings {
		if _, err := p.bw.WriteString(output.FormatPAFRow(m)); err != nil {
			return err
		}
		if err := p.bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes buffered lines.
func (p *PAF) Close() error { return p.bw.Flush() }
