package writers

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"readmap/internal/output"
	"readmap/internal/pipeline"
)

func init() {
	Register(output.FormatSummary, func(w io.Writer, _ Header) Sink { return NewSummary(w) })
}

// Summary counts results and writes a table on Close.
type Summary struct {
	out io.Writer

	Queries  int
	Mapped   int // queries with at least one mapping
	Unmapped int
	Failed   int
	Mappings int
	Primary  map[string]int // primary mappings per target
}

// NewSummary returns a Summary writing to w.
func NewSummary(w io.Writer) *Summary {
	return &Summary{out: w, Primary: map[string]int{}}
}

// Consume counts r.
func (s *Summary) Consume(r pipeline.ResultItem) error {
	s.Queries++
	switch {
	case !r.OK():
		s.Failed++
	case len(r.Mappings) == 0:
		s.Unmapped++
	default:
		s.Mapped++
	}
	s.Mappings += len(r.Mappings)
	for _, m := range r.Mappings {
		if m.Primary {
			s.Primary[m.TargetName]++
		}
	}
	return nil
}

// Close writes the totals, then primary mappings per target sorted by name.
func (s *Summary) Close() error {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "queries\t%d\n", s.Queries)
	fmt.Fprintf(tw, "mapped\t%d\n", s.Mapped)
	fmt.Fprintf(tw, "unmapped\t%d\n", s.Unmapped)
	fmt.Fprintf(tw, "failed\t%d\n", s.Failed)
	fmt.Fprintf(tw, "mappings\t%d\n", s.Mappings)

	names := make([]string, 0, len(s.Primary))
	for n := range s.Primary {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(tw, "target\t%s\t%d\n", n, s.Primary[n])
	}
	return tw.Flush()
}
