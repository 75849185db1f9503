package align

// Mapping is one chained hit of a query against a target, in PAF terms.
// Coordinates are 0-based, end-exclusive, on the forward strand of each sequence.
type Mapping struct {
	QueryName  string
	QueryLen   int
	QueryStart int
	QueryEnd   int
	Strand     byte // '+' or '-'

	TargetName  string
	TargetLen   int
	TargetStart int
	TargetEnd   int

	Matches  int // query bases covered by anchors
	BlockLen int
	MapQ     uint8
	Primary  bool

	Anchors int
	Score   int
}
