// Package output holds the wire formats shared by every writer: format names,
// the PAF and SAM row layouts and the v1 JSON schema conversion.
package output

// Output format names accepted by --output.
const (
	FormatPAF     = "paf"
	FormatJSONL   = "jsonl"
	FormatSAM     = "sam"
	FormatSummary = "summary"
)

// Formats lists the supported output formats in help order.
func Formats() []string { return []string{FormatPAF, FormatSAM, FormatJSONL, FormatSummary} }
