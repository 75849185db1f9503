// Package app is the readmap command: flag parsing, logger setup and exit
// codes around appcore.Run.
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"readmap/internal/appcore"
	"readmap/internal/cli"
	"readmap/internal/clibase"
	"readmap/internal/index"
	"readmap/internal/logging"
	"readmap/internal/version"
	"readmap/internal/writers"
)

const name = "readmap"

// flushHelp writes buffered help/usage text and maps write failures to exit codes.
func flushHelp(outw *bufio.Writer, stderr io.Writer, code int) int {
	if err := outw.Flush(); writers.IsBrokenPipe(err) {
		return 0
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitRuntime
	}
	return code
}

// RunContext parses argv and runs one job. It returns the process exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)

	fs := cli.NewFlagSet(name)
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		fs.SetOutput(outw)
		switch {
		case errors.Is(err, flag.ErrHelp):
			fs.Usage()
			return flushHelp(outw, stderr, 0)
		case errors.Is(err, clibase.ErrPrintedAndExitOK):
			clibase.PrintExamples(outw, name, clibase.ExamplesBody(name))
			return flushHelp(outw, stderr, 0)
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.Usage()
		return flushHelp(outw, stderr, appcore.ExitUsage)
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
		return flushHelp(outw, stderr, 0)
	}

	log, err := newLogger(opts, stderr)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitUsage
	}
	codec, _ := index.ParseCodec(opts.IndexCodec) // validated by cli

	return appcore.Run(parent, stdout, stderr, appcore.Options{
		Target:          opts.Target,
		Queries:         opts.Queries,
		Preset:          opts.Preset,
		K:               opts.K,
		W:               opts.W,
		MaxOcc:          opts.MaxOcc,
		IndexThreads:    opts.IndexThreads,
		SaveIndex:       opts.SaveIndex,
		IndexCodec:      codec,
		MinChainScore:   opts.MinChainScore,
		BestN:           opts.BestN,
		Threads:         opts.Threads,
		Method:          opts.Method,
		WorkCapacity:    opts.WorkCapacity,
		ResultCapacity:  opts.ResultCapacity,
		Output:          opts.Output,
		Stats:           opts.Stats,
		NoMatchExitCode: opts.NoMatchExitCode,
		Logger:          log,
	})
}

// Run is RunContext without cancellation.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func newLogger(o cli.Options, stderr io.Writer) (*logging.Logger, error) {
	if o.Quiet {
		return logging.Noop(), nil
	}
	level, err := logging.ParseLevel(o.LogLevel)
	if err != nil {
		return nil, err
	}
	if o.LogFormat == "json" {
		return logging.NewJSON(stderr, level).WithComponent(name), nil
	}
	return logging.NewText(stderr, level).WithComponent(name), nil
}
