package clibase

import (
	"bytes"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsageShowsRegisteredDefaults(t *testing.T) {
	fs := flag.NewFlagSet("readmap", flag.ContinueOnError)
	fs.String("preset", "map-ont", "")
	fs.Int("threads", 0, "")
	fs.String("output", "paf", "")
	var buf bytes.Buffer
	fs.SetOutput(&buf)
	Usage(fs, "readmap")
	fs.Usage()

	out := buf.String()
	assert.Contains(t, out, "readmap – map sequencing reads")
	assert.Contains(t, out, "map-ont | map-pb | sr | asm5 [map-ont]")
	assert.Contains(t, out, "paf | sam | jsonl | summary [paf]")
}

func TestPrintExamples(t *testing.T) {
	var buf bytes.Buffer
	PrintExamples(&buf, "readmap", ExamplesBody("readmap"))
	assert.Contains(t, buf.String(), "readmap -x ref.fa reads.fq.gz")
	assert.Contains(t, buf.String(), "--help")
	PrintExamples(nil, "readmap", nil)
}
