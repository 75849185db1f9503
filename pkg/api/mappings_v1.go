// Package api holds the stable JSON wire schema of readmap's outputs.
package api

// MappingV1 is the stable JSON/JSONL schema for one mapping.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type MappingV1 struct {
	QueryName   string `json:"query_name"`
	QueryLen    int    `json:"query_len"`
	QueryStart  int    `json:"query_start"`
	QueryEnd    int    `json:"query_end"`
	Strand      string `json:"strand"` // "+" | "-"
	TargetName  string `json:"target_name"`
	TargetLen   int    `json:"target_len"`
	TargetStart int    `json:"target_start"`
	TargetEnd   int    `json:"target_end"`
	Matches     int    `json:"matches"`
	BlockLen    int    `json:"block_len"`
	MapQ        int    `json:"mapq"`
	Primary     bool   `json:"primary"`
	Anchors     int    `json:"anchors,omitempty"`
	Score       int    `json:"score,omitempty"`
}

// ResultV1 is one JSONL line: every mapping of one query, or its error.
type ResultV1 struct {
	Query    string      `json:"query"`
	Mappings []MappingV1 `json:"mappings"`
	Error    string      `json:"error,omitempty"`
}
