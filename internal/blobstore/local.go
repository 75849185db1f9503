package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// Local is the filesystem Store. SchemeStdin reads os.Stdin.
type Local struct{}

// Open opens the file at loc.Path.
func (Local) Open(_ context.Context, loc Location) (io.ReadCloser, error) {
	if loc.Scheme == SchemeStdin {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(loc.Path)
}

// Put writes r to a temporary file next to loc.Path and renames it into place.
func (Local) Put(_ context.Context, loc Location, r io.Reader) error {
	dir := filepath.Dir(loc.Path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(loc.Path)+".tmp*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, loc.Path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
