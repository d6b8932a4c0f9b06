package coverage

import (
	"math"
	"sort"

	"github.com/grailbio/base/log"
	"github.com/grailbio/contigcov/alignment"
)

// Array is the per-base depth of one contig.  Index i holds the depth of
// 1-based position i+1.
type Array []uint32

// BuildOpts controls which alignment records contribute to an Array.
type BuildOpts struct {
	// MinPctAligned is the minimum alignment.Record.PercentQueryAligned() for
	// a record to be counted.
	MinPctAligned float64
}

// DefaultBuildOpts counts records with at least 70% of the query aligned.
var DefaultBuildOpts = BuildOpts{MinPctAligned: 70}

// BuildStats summarizes a Build or FromDepthRows call.
type BuildStats struct {
	// Applied is the number of records (or rows) folded into the array.
	Applied int
	// Filtered is the number of records below MinPctAligned.
	Filtered int
	// Clipped is the number of records (or rows) extending outside the
	// contig.  The in-range part of a clipped record is still applied.
	Clipped int
}

// clip intersects the 0-based inclusive range [start0, end0] with
// [0, length).  It returns false if the intersection is empty.
func clip(start0, end0, length int) (int, int, bool) {
	if start0 < 0 {
		start0 = 0
	}
	if end0 >= length {
		end0 = length - 1
	}
	return start0, end0, start0 <= end0
}

// Build returns the depth array of a contig of the given length.  Every record
// passing opts increments the positions [TargetStart, TargetEnd] (1-based,
// inclusive).  Records are expected to belong to contig; out-of-range
// coordinates are bounds checked and reported, never written.
func Build(contig string, length int, recs []alignment.Record, opts BuildOpts) (Array, BuildStats) {
	var stats BuildStats
	depths := make(Array, length)
	for i := range recs {
		rec := &recs[i]
		if pct := rec.PercentQueryAligned(); pct < opts.MinPctAligned {
			if log.At(log.Debug) {
				log.Debug.Printf("coverage.Build: %s: skipping %s, %.2f%% of query aligned (< %.2f%%)",
					contig, rec.QueryID, pct, opts.MinPctAligned)
			}
			stats.Filtered++
			continue
		}
		start0, end0 := rec.TargetStart-1, rec.TargetEnd-1
		lo, hi, ok := clip(start0, end0, length)
		if !ok || lo != start0 || hi != end0 {
			log.Error.Printf("coverage.Build: %s (length %d): alignment of %s at [%d, %d] is out of range",
				contig, length, rec.QueryID, rec.TargetStart, rec.TargetEnd)
			stats.Clipped++
			if !ok {
				continue
			}
		}
		for pos := lo; pos <= hi; pos++ {
			depths[pos]++
		}
		stats.Applied++
	}
	return depths, stats
}

// FromDepthRows returns the depth array of a contig of the given length from
// per-base depth rows.  Loci missing from rows have depth 0; repeated loci
// accumulate.  Rows outside [1, length] are reported and dropped.
func FromDepthRows(contig string, length int, rows []alignment.DepthRow) (Array, BuildStats) {
	var stats BuildStats
	depths := make(Array, length)
	for _, row := range rows {
		if row.Loc < 1 || row.Loc > int64(length) {
			log.Error.Printf("coverage.FromDepthRows: %s (length %d): locus %d is out of range",
				contig, length, row.Loc)
			stats.Clipped++
			continue
		}
		// Repeated loci add up, saturating at the largest representable depth.
		sum := uint64(depths[row.Loc-1]) + uint64(row.Depth)
		if sum > math.MaxUint32 {
			sum = math.MaxUint32
		}
		depths[row.Loc-1] = uint32(sum)
		stats.Applied++
	}
	return depths, stats
}

// Median returns the median depth of a.  For an even number of positions it
// is the mean of the two middle values.  It returns 0 for an empty array.
func (a Array) Median() float64 {
	n := len(a)
	if n == 0 {
		return 0
	}
	sorted := make([]uint32, n)
	copy(sorted, a)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return (float64(sorted[n/2-1]) + float64(sorted[n/2])) / 2
}
