package writers

import (
	"fmt"
	"io"
	"sort"

	"readmap/internal/index"
	"readmap/internal/pipeline"
)

// Sink is a pipeline.Sink that must be closed to flush its output.
type Sink interface {
	pipeline.Sink
	Close() error
}

// Header is run-level context some formats print before any record.
type Header struct {
	Targets []index.Target
	Program string
	Version string
}

// Factory builds a Sink writing to w.
type Factory func(w io.Writer, h Header) Sink

// Writer registry (format → factory). Register in init() blocks from each
// writer file; last registration wins.
var factories = map[string]Factory{}

// Register adds or replaces the writer for format.
func Register(format string, f Factory) { factories[format] = f }

// New returns the registered writer for format.
func New(format string, w io.Writer, h Header) (Sink, error) {
	f, ok := factories[format]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	return f(w, h), nil
}

// Registered lists the registered formats in sorted order.
func Registered() []string {
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
