package index

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"slices"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec selects the compression of a snapshot body.
type Codec uint8

const (
	CodecNone Codec = iota
	CodecLZ4
	CodecZstd
)

var snapshotMagic = [4]byte{'R', 'M', 'I', '1'}

const snapshotVersion = 1

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecLZ4:
		return "lz4"
	case CodecZstd:
		return "zstd"
	}
	return fmt.Sprintf("codec(%d)", uint8(c))
}

// ParseCodec maps none|lz4|zstd to a Codec.
func ParseCodec(s string) (Codec, error) {
	switch s {
	case "none", "":
		return CodecNone, nil
	case "lz4":
		return CodecLZ4, nil
	case "zstd":
		return CodecZstd, nil
	}
	return 0, fmt.Errorf("unknown index codec %q (want none|lz4|zstd)", s)
}

// IsSnapshot reports whether head starts with the snapshot magic.
func IsSnapshot(head []byte) bool {
	return len(head) >= len(snapshotMagic) && bytes.Equal(head[:len(snapshotMagic)], snapshotMagic[:])
}

// Save writes ix to w as a snapshot whose body is compressed with c.
// Minimizers are written in hash order so equal indexes give equal bytes.
func (ix *Index) Save(w io.Writer, c Codec) error {
	hdr := append(snapshotMagic[:], snapshotVersion, byte(c))
	if _, err := w.Write(hdr); err != nil {
		return err
	}

	var (
		body  io.Writer
		flush func() error
	)
	switch c {
	case CodecNone:
		bw := bufio.NewWriter(w)
		body, flush = bw, bw.Flush
	case CodecLZ4:
		lw := lz4.NewWriter(w)
		body, flush = lw, lw.Close
	case CodecZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return err
		}
		body, flush = zw, zw.Close
	default:
		return fmt.Errorf("unknown codec %d", c)
	}

	if err := ix.encode(body); err != nil {
		return err
	}
	return flush()
}

func (ix *Index) encode(w io.Writer) error {
	bw := &binWriter{w: w}
	bw.u32(uint32(ix.k))
	bw.u32(uint32(ix.w))
	bw.u32(uint32(int32(ix.maxOcc)))
	bw.u32(uint32(len(ix.targets)))
	for _, t := range ix.targets {
		bw.u32(uint32(len(t.Name)))
		bw.bytes([]byte(t.Name))
		bw.u64(uint64(t.Len))
	}

	hashes := make([]uint64, 0, len(ix.table))
	for h := range ix.table {
		hashes = append(hashes, h)
	}
	slices.Sort(hashes)
	bw.u64(uint64(len(hashes)))
	for _, h := range hashes {
		hits := ix.table[h]
		bw.u64(h)
		bw.u32(uint32(len(hits)))
		for _, hit := range hits {
			bw.u32(hit.Target)
			bw.u32(uint32(hit.Pos))
			if hit.Rev {
				bw.u8(1)
			} else {
				bw.u8(0)
			}
		}
	}
	if bw.err != nil {
		return bw.err
	}

	var rep bytes.Buffer
	if _, err := ix.rep.WriteTo(&rep); err != nil {
		return err
	}
	bw.u64(uint64(rep.Len()))
	bw.bytes(rep.Bytes())
	return bw.err
}

// Load reads a snapshot written by Save.
func Load(r io.Reader) (*Index, error) {
	var hdr [6]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, &BuildError{cause: fmt.Errorf("%w: header: %v", ErrBadSnapshot, err)}
	}
	if !IsSnapshot(hdr[:]) {
		return nil, &BuildError{cause: fmt.Errorf("%w: bad magic", ErrBadSnapshot)}
	}
	if hdr[4] != snapshotVersion {
		return nil, &BuildError{cause: fmt.Errorf("%w: version %d", ErrBadSnapshot, hdr[4])}
	}

	var body io.Reader
	switch Codec(hdr[5]) {
	case CodecNone:
		body = bufio.NewReader(r)
	case CodecLZ4:
		body = lz4.NewReader(r)
	case CodecZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, &BuildError{cause: err}
		}
		defer zr.Close()
		body = zr
	default:
		return nil, &BuildError{cause: fmt.Errorf("%w: codec %d", ErrBadSnapshot, hdr[5])}
	}

	ix, err := decode(body)
	if err != nil {
		return nil, &BuildError{cause: fmt.Errorf("%w: %v", ErrBadSnapshot, err)}
	}
	return ix, nil
}

func decode(r io.Reader) (*Index, error) {
	br := &binReader{r: r}
	ix := &Index{
		k:      int(br.u32()),
		w:      int(br.u32()),
		maxOcc: int(int32(br.u32())),
	}
	nt := br.u32()
	if br.err != nil {
		return nil, br.err
	}
	if err := (Options{K: ix.k, W: ix.w}).validate(); err != nil {
		return nil, err
	}
	ix.targets = make([]Target, 0, min(nt, 1<<16))
	for i := uint32(0); i < nt && br.err == nil; i++ {
		name := br.bytes(int(br.u32()))
		ix.targets = append(ix.targets, Target{Name: string(name), Len: int(br.u64())})
	}

	nh := br.u64()
	ix.table = make(map[uint64][]Hit, min(nh, 1<<20))
	for i := uint64(0); i < nh && br.err == nil; i++ {
		h := br.u64()
		n := br.u32()
		hits := make([]Hit, 0, min(n, 1<<16))
		for j := uint32(0); j < n && br.err == nil; j++ {
			hit := Hit{Target: br.u32(), Pos: int32(br.u32()), Rev: br.u8() == 1}
			if int(hit.Target) >= len(ix.targets) {
				return nil, fmt.Errorf("hit references target %d of %d", hit.Target, len(ix.targets))
			}
			hits = append(hits, hit)
		}
		ix.table[h] = hits
	}

	repLen := br.u64()
	if br.err != nil {
		return nil, br.err
	}
	ix.rep = roaring64.New()
	if _, err := ix.rep.ReadFrom(io.LimitReader(r, int64(repLen))); err != nil {
		return nil, err
	}
	return ix, nil
}

type binWriter struct {
	w   io.Writer
	buf [8]byte
	err error
}

func (b *binWriter) bytes(p []byte) {
	if b.err == nil {
		_, b.err = b.w.Write(p)
	}
}

func (b *binWriter) u8(v uint8) { b.bytes([]byte{v}) }

func (b *binWriter) u32(v uint32) {
	binary.LittleEndian.PutUint32(b.buf[:4], v)
	b.bytes(b.buf[:4])
}

func (b *binWriter) u64(v uint64) {
	binary.LittleEndian.PutUint64(b.buf[:8], v)
	b.bytes(b.buf[:8])
}

type binReader struct {
	r   io.Reader
	buf [8]byte
	err error
}

func (b *binReader) read(n int) []byte {
	if b.err != nil {
		return b.buf[:n]
	}
	_, b.err = io.ReadFull(b.r, b.buf[:n])
	return b.buf[:n]
}

func (b *binReader) bytes(n int) []byte {
	if b.err != nil || n < 0 {
		return nil
	}
	p := make([]byte, n)
	_, b.err = io.ReadFull(b.r, p)
	return p
}

func (b *binReader) u8() uint8   { return b.read(1)[0] }
func (b *binReader) u32() uint32 { return binary.LittleEndian.Uint32(b.read(4)) }
func (b *binReader) u64() uint64 { return binary.LittleEndian.Uint64(b.read(8)) }
