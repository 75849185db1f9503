package writers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readmap/internal/align"
	"readmap/internal/index"
	"readmap/internal/pipeline"
	"readmap/pkg/api"
)

func mapping(q, target string, primary bool) align.Mapping {
	return align.Mapping{
		QueryName: q, QueryLen: 100, QueryEnd: 100, Strand: '+',
		TargetName: target, TargetLen: 1000, TargetStart: 10, TargetEnd: 110,
		Matches: 90, BlockLen: 100, MapQ: 60, Primary: primary, Anchors: 9, Score: 95,
	}
}

func results() []pipeline.ResultItem {
	return []pipeline.ResultItem{
		{ID: []byte("r1"), Query: []byte("ACGT"), Mappings: []align.Mapping{mapping("r1", "chrA", true), mapping("r1", "chrB", false)}},
		{ID: []byte("r2")},
		{ID: []byte("r3"), Err: errors.New("empty query")},
		{ID: []byte("r4"), Mappings: []align.Mapping{mapping("r4", "chrA", true)}},
	}
}

func feed(t *testing.T, s Sink) {
	t.Helper()
	for _, r := range results() {
		require.NoError(t, s.Consume(r))
	}
	require.NoError(t, s.Close())
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"jsonl", "paf", "sam", "summary"}, Registered())
	for _, f := range Registered() {
		s, err := New(f, io.Discard, Header{})
		require.NoError(t, err, f)
		assert.NotNil(t, s)
	}
	_, err := New("bam", io.Discard, Header{})
	assert.ErrorContains(t, err, `"bam"`)
}

func TestPAF(t *testing.T) {
	var buf bytes.Buffer
	feed(t, NewPAF(&buf))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "r1\t100\t0\t100\t+\tchrA\t"))
	assert.Contains(t, lines[1], "tp:A:S")
	assert.True(t, strings.HasPrefix(lines[2], "r4\t"))
}

func TestSAM(t *testing.T) {
	var buf bytes.Buffer
	feed(t, NewSAM(&buf, Header{
		Targets: []index.Target{{Name: "chrA", Len: 1000}, {Name: "chrB", Len: 1000}},
		Version: "test",
	}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, []string{
		"@HD\tVN:1.6\tSO:unsorted",
		"@SQ\tSN:chrA\tLN:1000",
		"@SQ\tSN:chrB\tLN:1000",
		"@PG\tID:readmap\tPN:readmap\tVN:test",
	}, lines[:4])
	assert.True(t, strings.HasPrefix(lines[4], "r1\t0\tchrA\t11\t60\t*\t*\t0\t0\tACGT\t*\t"))
	assert.True(t, strings.HasPrefix(lines[5], "r1\t256\tchrB\t11\t"))
	assert.Equal(t, "r2\t4\t*\t0\t0\t*\t*\t0\t0\t*\t*", lines[6])
	assert.True(t, strings.HasPrefix(lines[7], "r3\t4\t"), "failed queries are written unmapped")
	assert.True(t, strings.HasPrefix(lines[8], "r4\t0\tchrA\t"))
}

func TestSAMHeaderOnlyWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	s := NewSAM(&buf, Header{Targets: []index.Target{{Name: "chrA", Len: 7}}})
	require.NoError(t, s.Close())
	assert.Equal(t, "@HD\tVN:1.6\tSO:unsorted\n@SQ\tSN:chrA\tLN:7\n@PG\tID:readmap\tPN:readmap\tVN:\n", buf.String())
}

func TestJSONL(t *testing.T) {
	var buf bytes.Buffer
	feed(t, NewJSONL(&buf))

	var got []api.ResultV1
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var v api.ResultV1
		require.NoError(t, json.Unmarshal(sc.Bytes(), &v))
		got = append(got, v)
	}
	require.Len(t, got, 4)
	assert.Len(t, got[0].Mappings, 2)
	assert.Equal(t, "chrB", got[0].Mappings[1].TargetName)
	assert.Empty(t, got[1].Mappings)
	assert.Equal(t, "empty query", got[2].Error)
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	s := NewSummary(&buf)
	feed(t, s)

	assert.Equal(t, 4, s.Queries)
	assert.Equal(t, 2, s.Mapped)
	assert.Equal(t, 1, s.Unmapped)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 3, s.Mappings)
	assert.Equal(t, map[string]int{"chrA": 2}, s.Primary)

	out := buf.String()
	assert.Regexp(t, `(?m)^queries\s+4$`, out)
	assert.Regexp(t, `(?m)^target\s+chrA\s+2$`, out)
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, syscall.EPIPE }

func TestIsBrokenPipe(t *testing.T) {
	assert.True(t, IsBrokenPipe(syscall.EPIPE))
	assert.True(t, IsBrokenPipe(fmt.Errorf("write stdout: %w", io.ErrClosedPipe)))
	assert.False(t, IsBrokenPipe(nil))
	assert.False(t, IsBrokenPipe(io.EOF))

	// JSONL swallows a broken pipe on flush; PAF reports it for the caller to judge.
	j := NewJSONL(brokenWriter{})
	require.NoError(t, j.Consume(results()[0]))
	assert.NoError(t, j.Close())

	p := NewPAF(brokenWriter{})
	require.NoError(t, p.Consume(results()[0]))
	assert.True(t, IsBrokenPipe(p.Close()))
}

type failingSink struct {
	err   error
	calls int
}

func (f *failingSink) Consume(pipeline.ResultItem) error { f.calls++; return f.err }
func (f *failingSink) Close() error                      { return f.err }

func TestMultiFansOut(t *testing.T) {
	var buf bytes.Buffer
	sum := NewSummary(io.Discard)
	bad := &failingSink{err: errors.New("nope")}
	m := Multi{NewPAF(&buf), sum, bad}

	for _, r := range results() {
		assert.ErrorIs(t, m.Consume(r), bad.err)
	}
	assert.ErrorIs(t, m.Close(), bad.err)
	assert.Equal(t, 4, sum.Queries)
	assert.Equal(t, 4, bad.calls)
	assert.NotZero(t, buf.Len())
}
