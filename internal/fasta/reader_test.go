package fasta

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plain = `>seq1 some description
ACGT
acgt
>seq2
NNnn
`

const fastq = `@r1
ACGTAC
+
IIIIII
@r2 x
GG
+r2
@I
`

func readIDs(t *testing.T, r interface{ Read() (Record, error) }) []string {
	t.Helper()
	var ids []string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return ids
		}
		require.NoError(t, err)
		ids = append(ids, string(rec.ID))
	}
}

func TestReadFASTA(t *testing.T) {
	r := NewReader(strings.NewReader(plain), "plain")

	rec, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, "seq1", string(rec.ID))
	assert.Equal(t, "ACGTacgt", string(rec.Seq))
	assert.Nil(t, rec.Qual)

	rec, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, "seq2", string(rec.ID))
	assert.Equal(t, "NNnn", string(rec.Seq))

	_, err = r.Read()
	assert.ErrorIs(t, err, io.EOF)
	_, err = r.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadFASTQ(t *testing.T) {
	r := NewReader(strings.NewReader(fastq), "fq")

	rec, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, "r1", string(rec.ID))
	assert.Equal(t, "ACGTAC", string(rec.Seq))
	assert.Equal(t, "IIIIII", string(rec.Qual))

	rec, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, "r2", string(rec.ID))
	assert.Equal(t, "@I", string(rec.Qual), "quality may start with '@'")

	_, err = r.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadMalformed(t *testing.T) {
	cases := map[string]string{
		"no header":     "ACGT\n",
		"fastq no plus": "@r\nACGT\n",
		"fastq qual":    "@r\nACGT\n+\nII\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			r := NewReader(strings.NewReader(in), name)
			_, err := r.Read()
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestReadEmpty(t *testing.T) {
	r := NewReader(strings.NewReader("\n\n"), "empty")
	_, err := r.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestOpenCompressed(t *testing.T) {
	dir := t.TempDir()

	var gzBuf bytes.Buffer
	gw := gzip.NewWriter(&gzBuf)
	_, err := gw.Write([]byte(plain))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	// No suffix: detection must come from the magic number.
	gzPath := filepath.Join(dir, "reads")
	require.NoError(t, os.WriteFile(gzPath, gzBuf.Bytes(), 0o644))

	var zBuf bytes.Buffer
	zw, err := zstd.NewWriter(&zBuf)
	require.NoError(t, err)
	_, err = zw.Write([]byte(fastq))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	zPath := filepath.Join(dir, "reads.fq.zst")
	require.NoError(t, os.WriteFile(zPath, zBuf.Bytes(), 0o644))

	r, err := Open(gzPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"seq1", "seq2"}, readIDs(t, r))
	require.NoError(t, r.Close())

	r, err = Open(zPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, readIDs(t, r))
	require.NoError(t, r.Close())
}

func TestOpenStdin(t *testing.T) {
	orig := os.Stdin
	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	os.Stdin = pr
	defer func() { os.Stdin = orig }()
	go func() { _, _ = io.WriteString(pw, plain); _ = pw.Close() }()

	r, err := Open("-")
	require.NoError(t, err)
	defer r.Close()
	assert.Len(t, readIDs(t, r), 2)
}

func TestMultiReader(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.fa")
	b := filepath.Join(dir, "b.fq")
	require.NoError(t, os.WriteFile(a, []byte(plain), 0o644))
	require.NoError(t, os.WriteFile(b, []byte(fastq), 0o644))

	m := NewMultiReader(a, b)
	defer m.Close()
	assert.Equal(t, []string{"seq1", "seq2", "r1", "r2"}, readIDs(t, m))
}

func TestMultiReaderMissingFile(t *testing.T) {
	m := NewMultiReader(filepath.Join(t.TempDir(), "nope.fa"))
	_, err := m.Read()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadAll(t *testing.T) {
	p := filepath.Join(t.TempDir(), "x.fa")
	require.NoError(t, os.WriteFile(p, []byte(plain), 0o644))
	recs, err := ReadAll(p)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "ACGTacgt", string(recs[0].Seq))
}

func TestNextYieldsIDAndSequence(t *testing.T) {
	r := NewReader(strings.NewReader(plain), "plain")
	id, seq, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "seq1", string(id))
	assert.NotEmpty(t, seq)
	_, _, err = r.Next()
	require.NoError(t, err)
	_, _, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}
