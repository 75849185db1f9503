package cli

import (
	"errors"
	"flag"
	"fmt"
	"slices"
	"strings"

	"readmap/internal/align"
	"readmap/internal/clibase"
	"readmap/internal/cliutil"
	"readmap/internal/index"
	"readmap/internal/logging"
	"readmap/internal/output"
)

// Multithreading methods accepted by --method.
const (
	MethodChannels = "channels"
	MethodBatch    = "batch"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Input
	Target  string
	Queries []string

	// Index
	Preset       string
	K, W         int
	MaxOcc       int
	IndexThreads int
	SaveIndex    string
	IndexCodec   string

	// Mapping
	MinChainScore int
	BestN         int

	// Performance
	Threads        int
	Method         string
	QueueCapacity  int
	WorkCapacity   int // 0 = QueueCapacity
	ResultCapacity int // 0 = QueueCapacity

	// Output
	Output          string
	Stats           bool
	NoMatchExitCode int

	// Misc
	LogLevel  string
	LogFormat string
	Quiet     bool
	Version   bool
}

// sliceValue appends each value to a *[]string (for --query/-q).
type sliceValue struct{ dst *[]string }

func (s *sliceValue) String() string {
	if s.dst == nil {
		return ""
	}
	return strings.Join(*s.dst, ",")
}

func (s *sliceValue) Set(v string) error {
	*s.dst = append(*s.dst, v)
	return nil
}

// Register wires every flag onto fs.
func Register(fs *flag.FlagSet, o *Options) {
	// Input
	fs.StringVar(&o.Target, "target", "", "reference FASTA/FASTQ, .rmi index, s3:// or minio:// URI")
	fs.StringVar(&o.Target, "x", "", "alias of --target")
	q := &sliceValue{dst: &o.Queries}
	fs.Var(q, "query", "query FASTA/FASTQ (repeatable) or '-'")
	fs.Var(q, "q", "alias of --query")

	// Index
	fs.StringVar(&o.Preset, "preset", "map-ont", "map-ont | map-pb | sr | asm5")
	fs.StringVar(&o.Preset, "p", "map-ont", "alias of --preset")
	fs.IntVar(&o.K, "k", 0, "k-mer length (0 = preset)")
	fs.IntVar(&o.W, "w", 0, "minimizer window (0 = preset)")
	fs.IntVar(&o.MaxOcc, "max-occ", 0, "repetitive minimizer threshold (0 = default, -1 = off)")
	fs.IntVar(&o.IndexThreads, "index-threads", 0, "index build threads (0 = --threads)")
	fs.StringVar(&o.SaveIndex, "save-index", "", "write the index snapshot to this path or URI")
	fs.StringVar(&o.SaveIndex, "d", "", "alias of --save-index")
	fs.StringVar(&o.IndexCodec, "index-codec", "zstd", "snapshot compression: none | lz4 | zstd")

	// Mapping
	fs.IntVar(&o.MinChainScore, "min-chain-score", 0, "minimum chaining score (0 = preset)")
	fs.IntVar(&o.BestN, "best-n", 0, "mappings kept per query (0 = preset)")
	fs.IntVar(&o.BestN, "N", 0, "alias of --best-n")

	// Performance
	fs.IntVar(&o.Threads, "threads", 0, "worker threads (0 = available CPUs)")
	fs.IntVar(&o.Threads, "t", 0, "alias of --threads")
	fs.StringVar(&o.Method, "method", MethodChannels, "channels | batch")
	fs.IntVar(&o.QueueCapacity, "queue-capacity", 1024, "capacity of both queues")
	fs.IntVar(&o.WorkCapacity, "work-capacity", 0, "work queue capacity (0 = --queue-capacity)")
	fs.IntVar(&o.ResultCapacity, "result-capacity", 0, "result queue capacity (0 = --queue-capacity)")

	// Output
	fs.StringVar(&o.Output, "output", output.FormatPAF, "paf | sam | jsonl | summary")
	fs.StringVar(&o.Output, "o", output.FormatPAF, "alias of --output")
	fs.BoolVar(&o.Stats, "stats", false, "also print a summary table to stderr")
	fs.IntVar(&o.NoMatchExitCode, "no-match-exit-code", 1, "exit code when nothing mapped")

	// Misc
	fs.StringVar(&o.LogLevel, "log-level", "info", "debug | info | warn | error")
	fs.StringVar(&o.LogFormat, "log-format", "text", "text | json")
	fs.BoolVar(&o.Quiet, "quiet", false, "no logging")
	fs.BoolVar(&o.Version, "v", false, "print version and exit")
	fs.BoolVar(&o.Version, "version", false, "print version and exit")
}

// ParseArgs registers and parses all flags and positionals. It returns
// flag.ErrHelp for -h and clibase.ErrPrintedAndExitOK for --examples, having
// printed the text to fs.Output().
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help, examples bool
	Register(fs, &o)
	fs.BoolVar(&help, "h", false, "show help")
	fs.BoolVar(&help, "help", false, "show help")
	fs.BoolVar(&examples, "examples", false, "show usage examples")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return o, err
	}
	if help {
		fs.Usage()
		return o, flag.ErrHelp
	}
	if examples {
		clibase.PrintExamples(fs.Output(), fs.Name(), clibase.ExamplesBody(fs.Name()))
		return o, clibase.ErrPrintedAndExitOK
	}
	if o.Version {
		return o, nil
	}

	posArgs = append(posArgs, fs.Args()...)
	if len(posArgs) > 0 {
		exp, err := cliutil.ExpandPositionals(posArgs)
		if err != nil {
			return o, err
		}
		o.Queries = append(o.Queries, exp...)
	}
	if o.WorkCapacity == 0 {
		o.WorkCapacity = o.QueueCapacity
	}
	if o.ResultCapacity == 0 {
		o.ResultCapacity = o.QueueCapacity
	}
	return o, Validate(&o)
}

// Validate applies the CLI invariants.
func Validate(o *Options) error {
	if o.Target == "" {
		return errors.New("--target is required")
	}
	if len(o.Queries) == 0 {
		return errors.New("at least one query file is required")
	}
	stdin := 0
	for _, q := range o.Queries {
		if q == "-" {
			stdin++
		}
	}
	if stdin > 1 || (stdin == 1 && o.Target == "-") {
		return errors.New("STDIN ('-') can be read only once")
	}
	if !slices.Contains(align.Presets, o.Preset) {
		return fmt.Errorf("invalid --preset %q (want %s)", o.Preset, strings.Join(align.Presets, " | "))
	}
	if o.K < 0 || o.K > index.MaxK {
		return fmt.Errorf("-k must be between 0 and %d", index.MaxK)
	}
	if o.W < 0 || o.W > 255 {
		return errors.New("-w must be between 0 and 255")
	}
	if o.MaxOcc < -1 {
		return errors.New("--max-occ must be ≥ -1")
	}
	if o.Threads < 0 || o.IndexThreads < 0 {
		return errors.New("--threads and --index-threads must be ≥ 0")
	}
	if o.MinChainScore < 0 || o.BestN < 0 {
		return errors.New("--min-chain-score and --best-n must be ≥ 0")
	}
	if o.QueueCapacity < 1 || o.WorkCapacity < 1 || o.ResultCapacity < 1 {
		return errors.New("queue capacities must be ≥ 1")
	}
	if o.Method != MethodChannels && o.Method != MethodBatch {
		return fmt.Errorf("invalid --method %q (want channels | batch)", o.Method)
	}
	if !slices.Contains(output.Formats(), o.Output) {
		return fmt.Errorf("invalid --output %q", o.Output)
	}
	if _, err := index.ParseCodec(o.IndexCodec); err != nil {
		return fmt.Errorf("invalid --index-codec: %w", err)
	}
	if _, err := logging.ParseLevel(o.LogLevel); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	if o.LogFormat != "text" && o.LogFormat != "json" {
		return fmt.Errorf("invalid --log-format %q", o.LogFormat)
	}
	if o.NoMatchExitCode < 0 || o.NoMatchExitCode > 255 {
		return errors.New("--no-match-exit-code must be between 0 and 255")
	}
	return nil
}
