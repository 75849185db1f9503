package output

import (
	"strconv"
	"strings"

	"readmap/internal/align"
)

// PAFColumns is the number of mandatory PAF columns before the SAM-style tags.
const PAFColumns = 12

// FormatPAFRow renders m as one PAF line without the trailing newline.
// Tags: tp (P primary / S secondary), cm (anchors in chain), s1 (chain score).
func FormatPAFRow(m align.Mapping) string {
	var b strings.Builder
	b.Grow(128)
	col := func(s string) {
		if b.Len() > 0 {
			b.WriteByte('\t')
		}
		b.WriteString(s)
	}
	num := func(v int) { col(strconv.Itoa(v)) }

	col(m.QueryName)
	num(m.QueryLen)
	num(m.QueryStart)
	num(m.QueryEnd)
	col(string(m.Strand))
	col(m.TargetName)
	num(m.TargetLen)
	num(m.TargetStart)
	num(m.TargetEnd)
	num(m.Matches)
	num(m.BlockLen)
	num(int(m.MapQ))

	tp := "S"
	if m.Primary {
		tp = "P"
	}
	col("tp:A:" + tp)
	col("cm:i:" + strconv.Itoa(m.Anchors))
	col("s1:i:" + strconv.Itoa(m.Score))
	return b.String()
}
