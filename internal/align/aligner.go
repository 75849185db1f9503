package align

import (
	"cmp"
	"math"
	"slices"

	"readmap/internal/index"
)

// Aligner maps queries against an index. It holds only options, so one
// Aligner serves any number of goroutines; per-goroutine state lives in Scratch.
type Aligner struct {
	opts Options
}

// New returns an Aligner; zero option fields take defaults.
func New(opts Options) *Aligner { return &Aligner{opts: opts.withDefaults()} }

// Options returns the effective options.
func (a *Aligner) Options() Options { return a.opts }

type anchor struct {
	target uint32
	rev    bool
	tpos   int32
	qpos   int32 // on the reverse-complemented query when rev
}

type chain struct {
	first, last int32 // anchor indexes
	count       int
	score       int
	matches     int
}

// Scratch is reusable working memory for Map. It is not safe for concurrent use;
// give each goroutine its own.
type Scratch struct {
	mins    []index.Minimizer
	anchors []anchor
	f       []int32
	p       []int32
	order   []int32
	used    []bool
	path    []int32
	chains  []chain
}

// NewScratch allocates an empty Scratch.
func NewScratch() *Scratch { return &Scratch{} }

// Map seeds seq with the index's minimizers, chains colinear anchors per
// target and strand, and returns up to BestN mappings, best first.
// A nil Scratch allocates a temporary one.
func (a *Aligner) Map(h *index.Handle, id, seq []byte, s *Scratch) ([]Mapping, error) {
	if len(seq) == 0 {
		return nil, &Error{Query: string(id), cause: ErrEmptyQuery}
	}
	if s == nil {
		s = NewScratch()
	}
	ix := h.Index()
	k := int32(ix.K())
	qlen := int32(len(seq))

	s.mins = index.Sketch(seq, ix.K(), ix.W(), s.mins[:0])
	s.anchors = s.anchors[:0]
	for _, m := range s.mins {
		for _, hit := range ix.Lookup(m.Hash) {
			an := anchor{target: hit.Target, rev: m.Rev != hit.Rev, tpos: hit.Pos, qpos: m.Pos}
			if an.rev {
				an.qpos = qlen - (m.Pos + k)
			}
			s.anchors = append(s.anchors, an)
		}
	}
	if len(s.anchors) == 0 {
		return nil, nil
	}
	slices.SortFunc(s.anchors, func(x, y anchor) int {
		if c := cmp.Compare(x.target, y.target); c != 0 {
			return c
		}
		if x.rev != y.rev {
			if x.rev {
				return 1
			}
			return -1
		}
		if c := cmp.Compare(x.tpos, y.tpos); c != 0 {
			return c
		}
		return cmp.Compare(x.qpos, y.qpos)
	})

	a.chainDP(s, k)
	a.backtrack(s, k)
	if len(s.chains) == 0 {
		return nil, nil
	}
	return a.toMappings(s, ix, string(id), qlen, k), nil
}

func gapCost(gap, k int32) int32 {
	if gap == 0 {
		return 0
	}
	return int32(0.01*float64(k)*float64(gap) + 0.5*math.Log2(float64(gap)))
}

func (a *Aligner) chainDP(s *Scratch, k int32) {
	n := len(s.anchors)
	s.f = slices.Grow(s.f[:0], n)[:n]
	s.p = slices.Grow(s.p[:0], n)[:n]
	maxGap, bw := int32(a.opts.MaxGap), int32(a.opts.Bandwidth)

	for i := range s.anchors {
		ai := s.anchors[i]
		s.f[i], s.p[i] = k, -1
		for j := i - 1; j >= 0 && j >= i-a.opts.MaxLookback; j-- {
			aj := s.anchors[j]
			if aj.target != ai.target || aj.rev != ai.rev {
				break
			}
			dt := ai.tpos - aj.tpos
			if dt > maxGap {
				break
			}
			dq := ai.qpos - aj.qpos
			if dt <= 0 || dq <= 0 || dq > maxGap {
				continue
			}
			gap := dq - dt
			if gap < 0 {
				gap = -gap
			}
			if gap > bw {
				continue
			}
			sc := s.f[j] + min(dq, dt, k) - gapCost(gap, k)
			if sc > s.f[i] {
				s.f[i], s.p[i] = sc, int32(j)
			}
		}
	}
}

func (a *Aligner) backtrack(s *Scratch, k int32) {
	n := len(s.anchors)
	s.order = s.order[:0]
	for i := 0; i < n; i++ {
		s.order = append(s.order, int32(i))
	}
	slices.SortStableFunc(s.order, func(x, y int32) int { return cmp.Compare(s.f[y], s.f[x]) })
	s.used = slices.Grow(s.used[:0], n)[:n]
	clear(s.used)
	s.chains = s.chains[:0]

	for _, end := range s.order {
		if s.used[end] {
			continue
		}
		s.path = s.path[:0]
		j := end
		for j >= 0 && !s.used[j] {
			s.used[j] = true
			s.path = append(s.path, j)
			j = s.p[j]
		}
		score := s.f[end]
		if j >= 0 {
			score -= s.f[j]
		}
		if len(s.path) < a.opts.MinCount || int(score) < a.opts.MinChainScore {
			continue
		}
		// path runs last anchor to first.
		matches := int32(0)
		prevEnd := int32(-1)
		for i := len(s.path) - 1; i >= 0; i-- {
			q := s.anchors[s.path[i]].qpos
			start := max(q, prevEnd)
			if q+k > start {
				matches += q + k - start
			}
			prevEnd = max(prevEnd, q+k)
		}
		s.chains = append(s.chains, chain{
			first:   s.path[len(s.path)-1],
			last:    end,
			count:   len(s.path),
			score:   int(score),
			matches: int(matches),
		})
	}
}

func (a *Aligner) toMappings(s *Scratch, ix *index.Index, qname string, qlen, k int32) []Mapping {
	slices.SortStableFunc(s.chains, func(x, y chain) int {
		if c := cmp.Compare(y.score, x.score); c != 0 {
			return c
		}
		ax, ay := s.anchors[x.first], s.anchors[y.first]
		if c := cmp.Compare(ax.target, ay.target); c != 0 {
			return c
		}
		return cmp.Compare(ax.tpos, ay.tpos)
	})

	best := s.chains[0].score
	second := 0
	if len(s.chains) > 1 {
		second = s.chains[1].score
	}

	out := make([]Mapping, 0, min(len(s.chains), a.opts.BestN))
	for i, c := range s.chains {
		if len(out) == a.opts.BestN {
			break
		}
		if i > 0 && float64(c.score) < a.opts.PriRatio*float64(best) {
			break
		}
		first, last := s.anchors[c.first], s.anchors[c.last]
		qs, qe := first.qpos, last.qpos+k
		ts, te := first.tpos, last.tpos+k
		t := ix.Target(first.target)

		m := Mapping{
			QueryName:   qname,
			QueryLen:    int(qlen),
			QueryStart:  int(qs),
			QueryEnd:    int(qe),
			Strand:      '+',
			TargetName:  t.Name,
			TargetLen:   t.Len,
			TargetStart: int(ts),
			TargetEnd:   int(te),
			Matches:     c.matches,
			BlockLen:    int(max(qe-qs, te-ts)),
			Primary:     i == 0,
			Anchors:     c.count,
			Score:       c.score,
		}
		if first.rev {
			m.Strand = '-'
			m.QueryStart, m.QueryEnd = int(qlen-qe), int(qlen-qs)
		}
		if m.Primary {
			m.MapQ = mapQ(best, second, c.count)
		}
		out = append(out, m)
	}
	return out
}

// mapQ follows the usual chain-based estimate: confidence grows with the gap
// to the runner-up and with the number of anchors.
func mapQ(best, second, anchors int) uint8 {
	if best <= 0 {
		return 0
	}
	q := 40 * (1 - float64(second)/float64(best)) * math.Min(1, float64(anchors)/10) * math.Log(float64(best))
	switch {
	case q < 0:
		return 0
	case q > 60:
		return 60
	}
	return uint8(q)
}
