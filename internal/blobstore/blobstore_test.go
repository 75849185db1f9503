package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Location
	}{
		{"-", Location{Scheme: SchemeStdin}},
		{"ref.fa", Location{Scheme: SchemeFile, Path: "ref.fa"}},
		{"/data/ref.rmi", Location{Scheme: SchemeFile, Path: "/data/ref.rmi"}},
		{"file:///data/ref.rmi", Location{Scheme: SchemeFile, Path: "/data/ref.rmi"}},
		{"./odd://name", Location{Scheme: SchemeFile, Path: "./odd://name"}},
		{"s3://genomes/hg38/ref.rmi", Location{Scheme: SchemeS3, Bucket: "genomes", Key: "hg38/ref.rmi"}},
		{"minio://localhost:9000/genomes/ref.fa.gz", Location{Scheme: SchemeMinio, Endpoint: "localhost:9000", Bucket: "genomes", Key: "ref.fa.gz"}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got.Scheme == SchemeS3 || got.Scheme == SchemeMinio, got.Remote())
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "s3://bucket", "s3:///key", "minio://host/bucket", "minio:///b/k", "gs://bucket/key"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidLocation, in)
	}
}

func TestLocationString(t *testing.T) {
	for _, uri := range []string{"-", "ref.fa", "s3://b/k/x", "minio://h:9000/b/k"} {
		loc, err := Parse(uri)
		require.NoError(t, err)
		assert.Equal(t, uri, loc.String())
	}
}

func TestLocalPutOpen(t *testing.T) {
	ctx := context.Background()
	p := filepath.Join(t.TempDir(), "ref.rmi")
	o := Default()

	require.NoError(t, o.Put(ctx, p, strings.NewReader("first")))
	require.NoError(t, o.Put(ctx, p, strings.NewReader("second")))

	rc, err := o.Open(ctx, p)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))

	ents, err := os.ReadDir(filepath.Dir(p))
	require.NoError(t, err)
	assert.Len(t, ents, 1, "temporary files must not be left behind")
}

func TestLocalOpenMissing(t *testing.T) {
	_, err := Default().Open(context.Background(), filepath.Join(t.TempDir(), "nope.fa"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, "nope.fa")
}

func TestPutStdinRejected(t *testing.T) {
	err := Default().Put(context.Background(), "-", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidLocation)
}

type memStore map[string][]byte

func (m memStore) Open(_ context.Context, loc Location) (io.ReadCloser, error) {
	b, ok := m[loc.String()]
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m memStore) Put(_ context.Context, loc Location, r io.Reader) error {
	b, err := io.ReadAll(r)
	m[loc.String()] = b
	return err
}

func TestOpenerRoutesRemoteSchemes(t *testing.T) {
	ctx := context.Background()
	s3mem, minioMem := memStore{}, memStore{}
	var endpoints []string
	o := &Opener{
		Local: Local{},
		S3:    func(context.Context) (Store, error) { return s3mem, nil },
		Minio: func(_ context.Context, endpoint string) (Store, error) {
			endpoints = append(endpoints, endpoint)
			return minioMem, nil
		},
	}

	require.NoError(t, o.Put(ctx, "s3://b/ref.rmi", strings.NewReader("s3 body")))
	require.NoError(t, o.Put(ctx, "minio://h:9000/b/ref.rmi", strings.NewReader("minio body")))
	assert.Contains(t, s3mem, "s3://b/ref.rmi")
	assert.Contains(t, minioMem, "minio://h:9000/b/ref.rmi")
	assert.Equal(t, []string{"h:9000"}, endpoints)

	rc, err := o.Open(ctx, "s3://b/ref.rmi")
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	assert.Equal(t, "s3 body", string(b))

	_, err = o.Open(ctx, "minio://h:9000/b/missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenerClientError(t *testing.T) {
	boom := errors.New("no credentials")
	o := &Opener{S3: func(context.Context) (Store, error) { return nil, boom }}
	_, err := o.Open(context.Background(), "s3://b/k")
	assert.ErrorIs(t, err, boom)

	_, err = (&Opener{}).Open(context.Background(), "minio://h/b/k")
	assert.ErrorContains(t, err, "not configured")
}
