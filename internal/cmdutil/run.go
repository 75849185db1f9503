// Package cmdutil dispatches a mapping run to the selected multithreading method.
package cmdutil

import (
	"context"
	"fmt"

	"readmap/internal/index"
	"readmap/internal/pipeline"
)

// Method names, matching cli.MethodChannels / cli.MethodBatch.
const (
	MethodChannels = "channels"
	MethodBatch    = "batch"
)

// RunStream runs src through the chosen method and hands every result to
// sink. "channels" streams through the bounded-queue pipeline; "batch" reads
// everything first and maps it in parallel.
func RunStream(
	ctx context.Context,
	method string,
	cfg pipeline.Config,
	h *index.Handle,
	a pipeline.Aligner,
	src pipeline.Source,
	sink pipeline.Sink,
) (pipeline.Report, error) {
	switch method {
	case MethodChannels, "":
		p, err := pipeline.New(cfg, h, a)
		if err != nil {
			return pipeline.Report{}, err
		}
		defer p.Close()
		return p.Run(ctx, src, sink)
	case MethodBatch:
		return pipeline.RunBatch(ctx, cfg, h, a, src, sink)
	}
	return pipeline.Report{}, fmt.Errorf("unknown method %q", method)
}
