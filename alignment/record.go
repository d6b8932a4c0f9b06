package alignment

// Record is one row of an alignment table.  Target coordinates are 1-based and
// inclusive.
type Record struct {
	QueryID      string
	QueryLength  int
	QueryStart   int
	QueryEnd     int
	Strand       byte
	TargetID     string
	TargetLength int
	TargetStart  int
	TargetEnd    int
	// Matches is the number of residue matches.
	Matches int
	// BlockLength is the alignment block length, including gaps.
	BlockLength int
}

// PercentQueryAligned returns (TargetEnd - TargetStart) / QueryLength * 100.
func (r *Record) PercentQueryAligned() float64 {
	if r.QueryLength <= 0 {
		return 0
	}
	return float64(r.TargetEnd-r.TargetStart) / float64(r.QueryLength) * 100
}
