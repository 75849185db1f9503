package index

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"golang.org/x/sync/errgroup"

	"readmap/internal/fasta"
)

// Defaults used when Options leaves a field at zero.
const (
	DefaultK      = 15
	DefaultW      = 10
	DefaultMaxOcc = 500
	MaxK          = 28
)

// Options controls index construction.
type Options struct {
	K int // k-mer length, 1..28
	W int // minimizer window, 1..255
	// MaxOcc marks minimizers seen more often than this as repetitive.
	// Negative disables masking; zero selects DefaultMaxOcc.
	MaxOcc  int
	Threads int // sketching parallelism; 0 = GOMAXPROCS
}

func (o Options) withDefaults() Options {
	if o.K == 0 {
		o.K = DefaultK
	}
	if o.W == 0 {
		o.W = DefaultW
	}
	if o.MaxOcc == 0 {
		o.MaxOcc = DefaultMaxOcc
	}
	if o.Threads <= 0 {
		o.Threads = runtime.GOMAXPROCS(0)
	}
	return o
}

func (o Options) validate() error {
	if o.K < 1 || o.K > MaxK {
		return fmt.Errorf("%w: k=%d (want 1..%d)", ErrInvalidOptions, o.K, MaxK)
	}
	if o.W < 1 || o.W > 255 {
		return fmt.Errorf("%w: w=%d (want 1..255)", ErrInvalidOptions, o.W)
	}
	return nil
}

// Target is one reference sequence.
type Target struct {
	Name string
	Len  int
}

// Hit is one occurrence of a minimizer on a target.
type Hit struct {
	Target uint32
	Pos    int32
	Rev    bool
}

// Index maps minimizer hashes to their target occurrences.
// It is never mutated after Build or Load returns, so lookups take no locks.
type Index struct {
	k, w    int
	maxOcc  int
	targets []Target
	table   map[uint64][]Hit
	rep     *roaring64.Bitmap
}

// RecordReader yields target records until io.EOF.
type RecordReader interface {
	Read() (fasta.Record, error)
}

// Build sketches every target record and assembles the index.
// Sketching runs on up to opts.Threads goroutines.
func Build(ctx context.Context, src RecordReader, opts Options) (*Index, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, &BuildError{cause: err}
	}

	var recs []fasta.Record
	for {
		rec, err := src.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &BuildError{cause: err}
		}
		recs = append(recs, rec)
	}

	sketches := make([][]Minimizer, len(recs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Threads)
	for i := range recs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sketches[i] = Sketch(recs[i].Seq, opts.K, opts.W, nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &BuildError{cause: err}
	}

	ix := &Index{
		k:       opts.K,
		w:       opts.W,
		maxOcc:  opts.MaxOcc,
		targets: make([]Target, len(recs)),
		table:   make(map[uint64][]Hit),
		rep:     roaring64.New(),
	}
	usable := false
	for i, rec := range recs {
		ix.targets[i] = Target{Name: string(rec.ID), Len: len(rec.Seq)}
		if len(sketches[i]) > 0 {
			usable = true
		}
		for _, m := range sketches[i] {
			ix.table[m.Hash] = append(ix.table[m.Hash], Hit{Target: uint32(i), Pos: m.Pos, Rev: m.Rev})
		}
	}
	if !usable {
		return nil, &BuildError{cause: ErrEmptySource}
	}
	ix.markRepetitive()
	return ix, nil
}

func (ix *Index) markRepetitive() {
	if ix.maxOcc < 0 {
		return
	}
	for h, hits := range ix.table {
		if len(hits) > ix.maxOcc {
			ix.rep.Add(h)
		}
	}
}

// K returns the k-mer length.
func (ix *Index) K() int { return ix.k }

// W returns the minimizer window.
func (ix *Index) W() int { return ix.w }

// Targets returns the reference sequences; callers must not modify it.
func (ix *Index) Targets() []Target { return ix.targets }

// Target returns target i.
func (ix *Index) Target(i uint32) Target { return ix.targets[i] }

// Lookup returns the occurrences of a minimizer, or nil if it is absent or repetitive.
func (ix *Index) Lookup(hash uint64) []Hit {
	if ix.rep.Contains(hash) {
		return nil
	}
	return ix.table[hash]
}

// Repetitive reports whether hash was masked for occurring too often.
func (ix *Index) Repetitive(hash uint64) bool { return ix.rep.Contains(hash) }

// Stats summarizes the index.
type Stats struct {
	Targets    int
	Minimizers int
	Repetitive uint64
}

// Stats returns the number of targets, distinct minimizers and masked minimizers.
func (ix *Index) Stats() Stats {
	return Stats{Targets: len(ix.targets), Minimizers: len(ix.table), Repetitive: ix.rep.GetCardinality()}
}
