package clibase

import (
	"flag"
	"fmt"
	"io"

	"readmap/internal/version"
)

// Usage installs readmap's help text on fs. Defaults are read back from the
// registered flags so the text never drifts from the parser.
func Usage(fs *flag.FlagSet, name string) {
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		fmt.Fprintf(out, "%s – map sequencing reads against a reference\n\n", name)
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)
		fmt.Fprintf(out, "Usage: %s -x TARGET [flags] QUERY...\n", name)

		fmt.Fprintln(out, "\nInput:")
		fmt.Fprintln(out, "  -x, --target uri            Reference FASTA/FASTQ(.gz|.zst), .rmi index, s3://bucket/key or minio://host/bucket/key [*]")
		fmt.Fprintln(out, "  -q, --query file            Query FASTA/FASTQ (repeatable, '-' for STDIN); positionals also accepted")

		fmt.Fprintln(out, "\nIndex:")
		fmt.Fprintf(out, "  -p, --preset string         map-ont | map-pb | sr | asm5 [%s]\n", def("preset"))
		fmt.Fprintln(out, "  -k int                      k-mer length (0 = preset)")
		fmt.Fprintln(out, "  -w int                      minimizer window (0 = preset)")
		fmt.Fprintf(out, "      --max-occ int           mask minimizers seen more often (0 = default, -1 = off) [%s]\n", def("max-occ"))
		fmt.Fprintf(out, "      --index-threads int     index build threads (0 = same as --threads) [%s]\n", def("index-threads"))
		fmt.Fprintln(out, "  -d, --save-index uri        write the index snapshot here before mapping")
		fmt.Fprintf(out, "      --index-codec string    snapshot compression: none | lz4 | zstd [%s]\n", def("index-codec"))

		fmt.Fprintln(out, "\nMapping:")
		fmt.Fprintf(out, "      --min-chain-score int   minimum chaining score (0 = preset) [%s]\n", def("min-chain-score"))
		fmt.Fprintf(out, "  -N, --best-n int            mappings kept per query (0 = preset) [%s]\n", def("best-n"))

		fmt.Fprintln(out, "\nPerformance:")
		fmt.Fprintf(out, "  -t, --threads int           worker threads (0 = CPUs available to this process) [%s]\n", def("threads"))
		fmt.Fprintf(out, "      --method string         channels | batch [%s]\n", def("method"))
		fmt.Fprintf(out, "      --queue-capacity int    capacity of both queues [%s]\n", def("queue-capacity"))
		fmt.Fprintln(out, "      --work-capacity int     work queue capacity (overrides --queue-capacity)")
		fmt.Fprintln(out, "      --result-capacity int   result queue capacity (overrides --queue-capacity)")

		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintf(out, "  -o, --output string         paf | sam | jsonl | summary [%s]\n", def("output"))
		fmt.Fprintf(out, "      --stats                 also print a summary table to STDERR [%s]\n", def("stats"))
		fmt.Fprintf(out, "      --no-match-exit-code int  exit code when nothing mapped [%s]\n", def("no-match-exit-code"))

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintf(out, "      --log-level string      debug | info | warn | error [%s]\n", def("log-level"))
		fmt.Fprintf(out, "      --log-format string     text | json [%s]\n", def("log-format"))
		fmt.Fprintf(out, "      --quiet                 no logging [%s]\n", def("quiet"))
		fmt.Fprintln(out, "      --examples              show usage examples and exit")
		fmt.Fprintln(out, "  -v, --version               print version and exit")
		fmt.Fprintln(out, "  -h, --help                  show this help and exit")
	}
}

// ExamplesBody prints the quickstart commands.
func ExamplesBody(name string) func(io.Writer) {
	return func(out io.Writer) {
		fmt.Fprintf(out, "  # map nanopore reads, PAF to stdout\n  %s -x ref.fa reads.fq.gz > out.paf\n\n", name)
		fmt.Fprintf(out, "  # build once, save a compressed index, reuse it\n  %s -x ref.fa -d ref.rmi --index-codec zstd reads.fq > out.paf\n  %s -x ref.rmi reads.fq > out.paf\n\n", name, name)
		fmt.Fprintf(out, "  # SAM for downstream tools\n  %s -x ref.fa -o sam reads.fq > out.sam\n\n", name)
		fmt.Fprintf(out, "  # short reads, 16 threads, JSON lines\n  %s -p sr -t 16 -o jsonl -x s3://genomes/hg38.rmi r1.fq > out.jsonl\n", name)
	}
}
