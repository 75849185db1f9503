package fasta

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrMalformed is wrapped by every parse error.
var ErrMalformed = errors.New("malformed sequence file")

const maxLine = 256 << 20 // allow very long single-line sequences

// Record is one FASTA or FASTQ entry. Qual is nil for FASTA.
type Record struct {
	ID   []byte
	Seq  []byte
	Qual []byte
}

// Reader pulls records one at a time from FASTA or FASTQ input.
// The format is decided per record by its header byte ('>' or '@').
type Reader struct {
	name string
	sc   *bufio.Scanner
	rc   io.Closer

	line    int
	pending []byte // header line read ahead by the previous FASTA record
	done    bool
}

// Open opens path ("-" for stdin), decompressing gzip/zstd transparently.
func Open(path string) (*Reader, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	r := NewReader(rc, path)
	r.rc = rc
	return r, nil
}

// NewReader reads uncompressed records from r. name is used in errors only.
func NewReader(r io.Reader, name string) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), maxLine)
	return &Reader{name: name, sc: sc}
}

// Close releases the underlying file, if the Reader opened one.
func (r *Reader) Close() error {
	if r.rc == nil {
		return nil
	}
	err := r.rc.Close()
	r.rc = nil
	return err
}

// Read returns the next record, or io.EOF once the input is exhausted.
// Returned slices are owned by the caller.
func (r *Reader) Read() (Record, error) {
	if r.done {
		return Record{}, io.EOF
	}
	hdr, err := r.header()
	if err != nil {
		if err == io.EOF {
			r.done = true
		}
		return Record{}, err
	}
	switch hdr[0] {
	case '>':
		return r.readFASTA(hdr)
	case '@':
		return r.readFASTQ(hdr)
	}
	return Record{}, r.errorf("expected '>' or '@' header, got %q", truncate(hdr))
}

func (r *Reader) header() ([]byte, error) {
	if r.pending != nil {
		h := r.pending
		r.pending = nil
		return h, nil
	}
	for {
		ln, err := r.next()
		if err != nil {
			return nil, err
		}
		if len(ln) > 0 {
			return append([]byte(nil), ln...), nil
		}
	}
}

func (r *Reader) readFASTA(hdr []byte) (Record, error) {
	rec := Record{ID: parseHeaderID(hdr[1:])}
	for {
		ln, err := r.next()
		if err == io.EOF {
			return rec, nil
		}
		if err != nil {
			return Record{}, err
		}
		if len(ln) == 0 {
			continue
		}
		if ln[0] == '>' || ln[0] == '@' {
			r.pending = append([]byte(nil), ln...)
			return rec, nil
		}
		rec.Seq = append(rec.Seq, bytes.TrimSpace(ln)...)
	}
}

func (r *Reader) readFASTQ(hdr []byte) (Record, error) {
	rec := Record{ID: parseHeaderID(hdr[1:])}
	for {
		ln, err := r.next()
		if err == io.EOF {
			return Record{}, r.errorf("record %q: missing '+' separator", rec.ID)
		}
		if err != nil {
			return Record{}, err
		}
		if len(ln) > 0 && ln[0] == '+' {
			break
		}
		rec.Seq = append(rec.Seq, bytes.TrimSpace(ln)...)
	}
	for len(rec.Qual) < len(rec.Seq) {
		ln, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Record{}, err
		}
		rec.Qual = append(rec.Qual, bytes.TrimSpace(ln)...)
	}
	if len(rec.Qual) != len(rec.Seq) {
		return Record{}, r.errorf("record %q: quality length %d != sequence length %d", rec.ID, len(rec.Qual), len(rec.Seq))
	}
	return rec, nil
}

func (r *Reader) next() ([]byte, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", r.name, err)
		}
		return nil, io.EOF
	}
	r.line++
	return r.sc.Bytes(), nil
}

func (r *Reader) errorf(format string, a ...any) error {
	return fmt.Errorf("%s:%d: %w: %s", r.name, r.line, ErrMalformed, fmt.Sprintf(format, a...))
}

func parseHeaderID(hdr []byte) []byte {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		hdr = hdr[:i]
	}
	return append([]byte(nil), hdr...)
}

func truncate(b []byte) []byte {
	if len(b) > 32 {
		return b[:32]
	}
	return b
}

// ReadAll drains path into memory.
func ReadAll(path string) ([]Record, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	var out []Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// Next returns the ID and sequence of the next record.
func (r *Reader) Next() (id, seq []byte, err error) {
	rec, err := r.Read()
	return rec.ID, rec.Seq, err
}
