package output

import (
	"strconv"
	"strings"

	"readmap/internal/align"
	"readmap/internal/index"
)

// SAM FLAG bits written by readmap.
const (
	SAMFlagUnmapped  = 0x4
	SAMFlagReverse   = 0x10
	SAMFlagSecondary = 0x100
)

// SAMColumns is the number of mandatory SAM columns before the optional tags.
const SAMColumns = 11

// FormatSAMHeader renders the @HD, one @SQ per target and the @PG line,
// each terminated by a newline.
func FormatSAMHeader(targets []index.Target, program, version string) string {
	var b strings.Builder
	b.WriteString("@HD\tVN:1.6\tSO:unsorted\n")
	for _, t := range targets {
		b.WriteString("@SQ\tSN:")
		b.WriteString(t.Name)
		b.WriteString("\tLN:")
		b.WriteString(strconv.Itoa(t.Len))
		b.WriteByte('\n')
	}
	b.WriteString("@PG\tID:" + program + "\tPN:" + program + "\tVN:" + version + "\n")
	return b.String()
}

// FormatSAMRecord renders m as one SAM line without the trailing newline.
// The chainer produces no base-level alignment, so CIGAR is "*". seq is the
// query as read; it is reverse-complemented for '-' mappings and omitted on
// secondary lines.
func FormatSAMRecord(m align.Mapping, seq []byte) string {
	flag := 0
	if m.Strand == '-' {
		flag |= SAMFlagReverse
	}
	if !m.Primary {
		flag |= SAMFlagSecondary
		seq = nil
	} else if m.Strand == '-' {
		seq = revComp(seq)
	}

	var b strings.Builder
	b.Grow(128 + len(seq))
	writeSAMFields(&b, m.QueryName, flag, m.TargetName, m.TargetStart+1, int(m.MapQ), seq)

	tp := "S"
	if m.Primary {
		tp = "P"
	}
	b.WriteString("\ttp:A:" + tp)
	b.WriteString("\tcm:i:" + strconv.Itoa(m.Anchors))
	b.WriteString("\ts1:i:" + strconv.Itoa(m.Score))
	return b.String()
}

// FormatSAMUnmapped renders an unmapped (flag 4) line for a query with no
// mappings.
func FormatSAMUnmapped(id, seq []byte) string {
	var b strings.Builder
	b.Grow(64 + len(seq))
	writeSAMFields(&b, string(id), SAMFlagUnmapped, "*", 0, 0, seq)
	return b.String()
}

func writeSAMFields(b *strings.Builder, qname string, flag int, rname string, pos, mapq int, seq []byte) {
	b.WriteString(qname)
	b.WriteByte('\t')
	b.WriteString(strconv.Itoa(flag))
	b.WriteByte('\t')
	b.WriteString(rname)
	b.WriteByte('\t')
	b.WriteString(strconv.Itoa(pos))
	b.WriteByte('\t')
	b.WriteString(strconv.Itoa(mapq))
	b.WriteString("\t*\t*\t0\t0\t")
	if len(seq) == 0 {
		b.WriteByte('*')
	} else {
		b.Write(seq)
	}
	b.WriteString("\t*")
}

func revComp(s []byte) []byte {
	out := make([]byte, len(s))
	for i, c := range s {
		var r byte
		switch c {
		case 'A', 'a':
			r = 'T'
		case 'C', 'c':
			r = 'G'
		case 'G', 'g':
			r = 'C'
		case 'T', 't':
			r = 'A'
		default:
			r = 'N'
		}
		out[len(s)-1-i] = r
	}
	return out
}
