// Package fasta reads FASTA and FASTQ records lazily from files, stdin ("-"),
// or any io.Reader. Gzip and zstd input is detected and decompressed.
package fasta
