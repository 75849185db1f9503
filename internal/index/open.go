package index

import (
	"bufio"
	"context"
	"io"

	"readmap/internal/fasta"
)

type bufferedCloser struct {
	*bufio.Reader
	io.Closer
}

// FromStream loads a snapshot or builds from FASTA/FASTQ, whichever rc holds,
// and closes rc. Every failure is a *BuildError naming source.
func FromStream(ctx context.Context, rc io.ReadCloser, source string, opts Options) (*Index, error) {
	br := bufio.NewReaderSize(rc, 1<<16)
	head, _ := br.Peek(len(snapshotMagic))
	if IsSnapshot(head) {
		defer rc.Close()
		ix, err := Load(br)
		if err != nil {
			return nil, NewBuildError(source, err)
		}
		return ix, nil
	}

	r, err := fasta.FromReader(bufferedCloser{Reader: br, Closer: rc}, source)
	if err != nil {
		_ = rc.Close()
		return nil, NewBuildError(source, err)
	}
	defer r.Close()
	ix, err := Build(ctx, r, opts)
	if err != nil {
		return nil, NewBuildError(source, err)
	}
	return ix, nil
}
