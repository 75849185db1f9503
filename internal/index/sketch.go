package index

// Minimizer is the smallest hashed canonical k-mer of a window.
// Pos is the 0-based start of the k-mer; Rev reports that the reverse
// complement was the canonical form.
type Minimizer struct {
	Hash uint64
	Pos  int32
	Rev  bool
}

var seqNT4 = func() (t [256]uint8) {
	for i := range t {
		t[i] = 4
	}
	for _, p := range []struct {
		b byte
		v uint8
	}{{'A', 0}, {'C', 1}, {'G', 2}, {'T', 3}, {'U', 3}} {
		t[p.b] = p.v
		t[p.b|0x20] = p.v
	}
	return t
}()

// hash64 is an invertible integer hash, so distinct k-mers never collide.
func hash64(key, mask uint64) uint64 {
	key = (^key + (key << 21)) & mask
	key ^= key >> 24
	key = ((key + (key << 3)) + (key << 8)) & mask
	key ^= key >> 14
	key = ((key + (key << 2)) + (key << 4)) & mask
	key ^= key >> 28
	key = (key + (key << 31)) & mask
	return key
}

// Sketch appends the (w,k)-minimizers of seq to dst and returns it.
// Ambiguous bases break k-mers. Sequences shorter than k yield nothing.
func Sketch(seq []byte, k, w int, dst []Minimizer) []Minimizer {
	if k <= 0 || w <= 0 || len(seq) < k {
		return dst
	}
	shift := uint(2 * (k - 1))
	mask := uint64(1)<<(2*uint(k)) - 1

	var (
		fwd, rev uint64
		l        int
		win      = make([]Minimizer, 0, w)
		lastPos  = int32(-1)
	)
	emit := func() {
		best := win[0]
		for _, m := range win[1:] {
			if m.Hash < best.Hash {
				best = m
			}
		}
		if best.Pos != lastPos {
			dst = append(dst, best)
			lastPos = best.Pos
		}
	}

	for i := 0; i < len(seq); i++ {
		c := seqNT4[seq[i]]
		if c > 3 {
			if len(win) > 0 && len(win) < w {
				emit()
			}
			win = win[:0]
			l = 0
			fwd, rev = 0, 0
			continue
		}
		fwd = (fwd<<2 | uint64(c)) & mask
		rev = rev>>2 | uint64(3-c)<<shift
		l++
		if l < k || fwd == rev {
			continue
		}
		m := Minimizer{Pos: int32(i - k + 1)}
		if rev < fwd {
			m.Hash, m.Rev = hash64(rev, mask), true
		} else {
			m.Hash = hash64(fwd, mask)
		}
		if len(win) == w {
			copy(win, win[1:])
			win = win[:w-1]
		}
		win = append(win, m)
		if len(win) == w {
			emit()
		}
	}
	if len(win) > 0 && len(win) < w {
		emit()
	}
	return dst
}
