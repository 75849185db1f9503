package jsonlutil

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X int `json:"x"`
}

func encodePoint(enc *json.Encoder, p point) error { return enc.Encode(p) }

func TestWriterOneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, encodePoint, nil)
	for i := 0; i < 3; i++ {
		require.NoError(t, w.Write(point{X: i}))
	}
	assert.Zero(t, buf.Len(), "output is buffered until Close")
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	sc := bufio.NewScanner(&buf)
	n := 0
	for sc.Scan() {
		var p point
		require.NoError(t, json.Unmarshal(sc.Bytes(), &p))
		assert.Equal(t, n, p.X)
		n++
	}
	assert.Equal(t, 3, n)
	assert.ErrorIs(t, w.Write(point{}), io.ErrClosedPipe)
}

type failWriter struct{ err error }

func (f failWriter) Write([]byte) (int, error) { return 0, f.err }

func TestWriterCloseSuppressesBrokenPipe(t *testing.T) {
	w := New(failWriter{io.ErrClosedPipe}, encodePoint, func(err error) bool { return errors.Is(err, io.ErrClosedPipe) })
	require.NoError(t, w.Write(point{X: 1}))
	assert.NoError(t, w.Close())

	boom := errors.New("disk full")
	w = New(failWriter{boom}, encodePoint, func(err error) bool { return false })
	require.NoError(t, w.Write(point{X: 1}))
	assert.ErrorIs(t, w.Close(), boom)
}
