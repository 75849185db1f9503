package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func revComp(s []byte) []byte {
	out := make([]byte, len(s))
	for i, c := range s {
		var r byte
		switch c {
		case 'A':
			r = 'T'
		case 'C':
			r = 'G'
		case 'G':
			r = 'C'
		case 'T':
			r = 'A'
		default:
			r = 'N'
		}
		out[len(s)-1-i] = r
	}
	return out
}

func TestSketchShortSequence(t *testing.T) {
	assert.Empty(t, Sketch([]byte("ACGT"), 5, 3, nil))
	assert.Empty(t, Sketch([]byte("ACGTNACGT"), 5, 1, nil), "N breaks every 5-mer")
}

func TestSketchPositionsIncreaseAndUnique(t *testing.T) {
	seq := []byte("ACGTTGCATGCATGCCGTAGCTAGCTAGGATCCGATCGATCGTAGCTAGCTAGCATCGA")
	ms := Sketch(seq, 7, 4, nil)
	require.NotEmpty(t, ms)
	for i := 1; i < len(ms); i++ {
		assert.Greater(t, ms[i].Pos, ms[i-1].Pos)
	}
	for _, m := range ms {
		assert.LessOrEqual(t, int(m.Pos)+7, len(seq))
	}
}

func TestSketchIsStrandSymmetric(t *testing.T) {
	seq := []byte("GATTACAGATTACCAGTCAGTTGACCATGCATGACGATCGTACGTAGCTAGTCGATGCA")
	fwd := Sketch(seq, 9, 5, nil)
	rev := Sketch(revComp(seq), 9, 5, nil)

	hashes := func(ms []Minimizer) map[uint64]bool {
		m := make(map[uint64]bool, len(ms))
		for _, x := range ms {
			m[x.Hash] = true
		}
		return m
	}
	assert.Equal(t, hashes(fwd), hashes(rev))
}

func TestSketchReusesDst(t *testing.T) {
	seq := []byte("ACGTTGCATGCATGCCGTAGCTAGCTAGG")
	buf := make([]Minimizer, 0, 64)
	out := Sketch(seq, 5, 3, buf)
	require.NotEmpty(t, out)
	assert.Same(t, &buf[:1][0], &out[0])
}

func TestHash64Invertible(t *testing.T) {
	mask := uint64(1)<<30 - 1
	seen := make(map[uint64]bool)
	for k := uint64(0); k < 5000; k++ {
		h := hash64(k, mask)
		assert.False(t, seen[h])
		seen[h] = true
	}
}

func TestSketchWindowsDoNotCrossAmbiguousBases(t *testing.T) {
	left := []byte("ACGTTGCATGCATGCCGTAGCTAGCTAGG")
	right := []byte("GATTACAGATTACCAGTCAGTTGACCATGCA")
	joined := append(append(append([]byte(nil), left...), 'N'), right...)

	want := Sketch(left, 7, 5, nil)
	for _, m := range Sketch(right, 7, 5, nil) {
		m.Pos += int32(len(left) + 1)
		want = append(want, m)
	}
	assert.Equal(t, want, Sketch(joined, 7, 5, nil))
}
