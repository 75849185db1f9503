package writers

import (
	"encoding/json"
	"io"

	"readmap/internal/jsonlutil"
	"readmap/internal/output"
	"readmap/internal/pipeline"
)

func init() {
	Register(output.FormatJSONL, func(w io.Writer, _ Header) Sink { return NewJSONL(w) })
}

// JSONL writes one api.ResultV1 object per query, including failed ones.
type JSONL struct {
	w *jsonlutil.Writer[pipeline.ResultItem]
}

// NewJSONL returns a JSONL writer on w.
func NewJSONL(w io.Writer) *JSONL {
	return &JSONL{w: jsonlutil.New(w,
		func(enc *json.Encoder, r pipeline.ResultItem) error {
			return enc.Encode(output.ToAPIResult(r))
		},
		IsBrokenPipe,
	)}
}

// Consume encodes r.
func (j *JSONL) Consume(r pipeline.ResultItem) error { return j.w.Write(r) }

// Close flushes; a broken pipe is not an error.
func (j *JSONL) Close() error { return j.w.Close() }
