// Package appcore runs one readmap job: load or build the index, map every
// query through the pipeline and translate the outcome into an exit code.
package appcore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"readmap/internal/align"
	"readmap/internal/blobstore"
	"readmap/internal/cmdutil"
	"readmap/internal/fasta"
	"readmap/internal/index"
	"readmap/internal/logging"
	"readmap/internal/pipeline"
	"readmap/internal/runutil"
	"readmap/internal/version"
	"readmap/internal/writers"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitUsage     = 2 // usage, configuration or index build error
	ExitRuntime   = 3 // I/O and other runtime failures
	ExitCancelled = 130
)

type Options struct {
	Target  string
	Queries []string

	Preset       string
	K, W         int
	MaxOcc       int
	IndexThreads int
	SaveIndex    string
	IndexCodec   index.Codec

	MinChainScore int
	BestN         int

	Threads        int
	Method         string
	WorkCapacity   int
	ResultCapacity int

	Output          string
	Stats           bool
	NoMatchExitCode int

	Logger *logging.Logger
	Opener *blobstore.Opener // nil = blobstore.Default()
}

// Run executes the job described by o. Results go to stdout; diagnostics and
// the --stats table go to stderr.
func Run(ctx context.Context, stdout, stderr io.Writer, o Options) int {
	log := o.Logger
	if log == nil {
		log = logging.Noop()
	}
	opener := o.Opener
	if opener == nil {
		opener = blobstore.Default()
	}
	threads := runutil.ResolveThreads(o.Threads)

	idxOpts, alnOpts, err := align.Preset(o.Preset)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsage
	}
	if o.K > 0 {
		idxOpts.K = o.K
	}
	if o.W > 0 {
		idxOpts.W = o.W
	}
	if o.MaxOcc != 0 {
		idxOpts.MaxOcc = o.MaxOcc
	}
	idxOpts.Threads = runutil.IndexThreads(o.IndexThreads, threads)
	if o.MinChainScore > 0 {
		alnOpts.MinChainScore = o.MinChainScore
	}
	if o.BestN > 0 {
		alnOpts.BestN = o.BestN
	}

	ix, code := loadIndex(ctx, stderr, log, opener, o.Target, idxOpts)
	if ix == nil {
		return code
	}
	if o.SaveIndex != "" {
		if err := saveIndex(ctx, opener, ix, o.SaveIndex, o.IndexCodec); err != nil {
			fmt.Fprintln(stderr, err)
			return ExitRuntime
		}
		log.Info("index saved", "dest", o.SaveIndex, "codec", o.IndexCodec.String())
	}

	h := index.NewHandle(ix, func(*index.Index) { log.Debug("index released") })
	defer h.Release()

	sink, err := writers.New(o.Output, stdout, writers.Header{
		Targets: ix.Targets(),
		Program: "readmap",
		Version: version.Version,
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsage
	}
	if o.Stats {
		sink = writers.Multi{sink, writers.NewSummary(stderr)}
	}

	src := fasta.NewMultiReader(o.Queries...)
	defer src.Close()

	cfg := pipeline.Config{
		Threads:        threads,
		WorkCapacity:   o.WorkCapacity,
		ResultCapacity: o.ResultCapacity,
		Logger:         log,
	}
	log.Debug("mapping", "threads", threads, "method", o.Method, "queries", len(o.Queries))
	rep, runErr := cmdutil.RunStream(ctx, o.Method, cfg, h, align.New(alnOpts), src, sink)
	closeErr := sink.Close()
	log.LogRun(ctx, rep.Records, rep.Failed, rep.Mappings, rep.Elapsed, runErr)
	if rep.Retired > 0 {
		log.Warn("workers retired after panics", "retired", rep.Retired, "workers", rep.Workers)
	}

	switch {
	case runErr == nil:
	case errors.Is(runErr, context.Canceled):
		return ExitCancelled
	case writers.IsBrokenPipe(runErr):
		return ExitOK
	case errors.Is(runErr, pipeline.ErrInvalidConfig):
		fmt.Fprintln(stderr, runErr)
		return ExitUsage
	default:
		fmt.Fprintln(stderr, runErr)
		return ExitRuntime
	}
	if closeErr != nil {
		if writers.IsBrokenPipe(closeErr) {
			return ExitOK
		}
		fmt.Fprintln(stderr, closeErr)
		return ExitRuntime
	}
	if rep.Mappings == 0 {
		return o.NoMatchExitCode
	}
	return ExitOK
}

func loadIndex(ctx context.Context, stderr io.Writer, log *logging.Logger, opener *blobstore.Opener, target string, opts index.Options) (*index.Index, int) {
	start := time.Now()
	rc, err := opener.Open(ctx, target)
	if err != nil {
		err = index.NewBuildError(target, err)
		log.LogIndexBuilt(ctx, target, 0, 0, time.Since(start), err)
		fmt.Fprintln(stderr, err)
		return nil, ExitUsage
	}
	ix, err := index.FromStream(ctx, rc, target, opts)
	if err != nil {
		log.LogIndexBuilt(ctx, target, 0, 0, time.Since(start), err)
		if errors.Is(err, context.Canceled) {
			return nil, ExitCancelled
		}
		fmt.Fprintln(stderr, err)
		return nil, ExitUsage
	}
	st := ix.Stats()
	log.LogIndexBuilt(ctx, target, st.Targets, st.Minimizers, time.Since(start), nil)
	if st.Repetitive > 0 {
		log.Debug("repetitive minimizers masked", "count", st.Repetitive)
	}
	return ix, ExitOK
}

func saveIndex(ctx context.Context, opener *blobstore.Opener, ix *index.Index, dest string, c index.Codec) error {
	var buf bytes.Buffer
	if err := ix.Save(&buf, c); err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	return opener.Put(ctx, dest, &buf)
}
