package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNotFound is returned when an object does not exist.
// It matches os.ErrNotExist so local and remote misses look the same.
var ErrNotFound = os.ErrNotExist

// Store reads and writes whole objects.
type Store interface {
	Open(ctx context.Context, loc Location) (io.ReadCloser, error)
	Put(ctx context.Context, loc Location, r io.Reader) error
}

// Opener picks a Store for each scheme; remote clients are created lazily
// on first use.
type Opener struct {
	Local Store
	S3    func(ctx context.Context) (Store, error)
	Minio func(ctx context.Context, endpoint string) (Store, error)
}

// Default returns an Opener backed by the local filesystem, the default AWS
// configuration and the MINIO_* environment.
func Default() *Opener {
	return &Opener{
		Local: Local{},
		S3:    NewS3FromEnv,
		Minio: NewMinioFromEnv,
	}
}

func (o *Opener) store(ctx context.Context, loc Location) (Store, error) {
	switch loc.Scheme {
	case SchemeFile, SchemeStdin:
		return o.Local, nil
	case SchemeS3:
		if o.S3 == nil {
			return nil, errors.New("s3 support not configured")
		}
		return o.S3(ctx)
	case SchemeMinio:
		if o.Minio == nil {
			return nil, errors.New("minio support not configured")
		}
		return o.Minio(ctx, loc.Endpoint)
	}
	return nil, fmt.Errorf("%w: unknown scheme %q", ErrInvalidLocation, loc.Scheme)
}

// Open parses uri and opens the object for reading.
func (o *Opener) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	loc, err := Parse(uri)
	if err != nil {
		return nil, err
	}
	s, err := o.store(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", loc, err)
	}
	rc, err := s.Open(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", loc, err)
	}
	return rc, nil
}

// Put parses uri and stores everything read from r there.
func (o *Opener) Put(ctx context.Context, uri string, r io.Reader) error {
	loc, err := Parse(uri)
	if err != nil {
		return err
	}
	if loc.Scheme == SchemeStdin {
		return fmt.Errorf("%w: cannot write to stdin", ErrInvalidLocation)
	}
	s, err := o.store(ctx, loc)
	if err != nil {
		return fmt.Errorf("put %s: %w", loc, err)
	}
	if err := s.Put(ctx, loc, r); err != nil {
		return fmt.Errorf("put %s: %w", loc, err)
	}
	return nil
}
