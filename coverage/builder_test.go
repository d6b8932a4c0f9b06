package coverage_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/grailbio/contigcov/alignment"
	"github.com/grailbio/contigcov/coverage"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
)

func rec(qlen, start, end int) alignment.Record {
	return alignment.Record{
		QueryID:      "q",
		QueryLength:  qlen,
		TargetID:     "c",
		TargetLength: 10,
		TargetStart:  start,
		TargetEnd:    end,
	}
}

func TestBuild(t *testing.T) {
	recs := []alignment.Record{
		rec(2, 3, 5),  // 100%
		rec(2, 4, 6),  // 100%
		rec(10, 1, 2), // 10%, filtered
	}
	depths, stats := coverage.Build("c", 8, recs, coverage.DefaultBuildOpts)
	expect.EQ(t, depths, coverage.Array{0, 0, 1, 2, 2, 1, 0, 0})
	expect.EQ(t, stats, coverage.BuildStats{Applied: 2, Filtered: 1})

	depths, stats = coverage.Build("c", 8, recs, coverage.BuildOpts{})
	expect.EQ(t, depths, coverage.Array{1, 1, 1, 2, 2, 1, 0, 0})
	expect.EQ(t, stats.Applied, 3)
}

func TestBuildOutOfRange(t *testing.T) {
	recs := []alignment.Record{
		rec(1, 0, 2),   // starts before the contig
		rec(1, 4, 9),   // runs past the end
		rec(1, 20, 30), // entirely outside
		rec(1, 5, 5),
	}
	depths, stats := coverage.Build("c", 5, recs, coverage.BuildOpts{})
	expect.EQ(t, depths, coverage.Array{1, 1, 0, 1, 2})
	expect.EQ(t, stats, coverage.BuildStats{Applied: 3, Clipped: 3})

	depths, _ = coverage.Build("c", 0, recs, coverage.BuildOpts{})
	expect.EQ(t, len(depths), 0)
}

func TestBuildBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	const length = 200
	for iter := 0; iter < 50; iter++ {
		var recs []alignment.Record
		nRec := r.Intn(30)
		for i := 0; i < nRec; i++ {
			start := r.Intn(length) + 1
			end := start + r.Intn(length-start+1)
			recs = append(recs, rec(end-start+1, start, end))
		}
		depths, _ := coverage.Build("c", length, recs, coverage.BuildOpts{})
		for pos := 1; pos <= length; pos++ {
			var want uint32
			for _, rec := range recs {
				if rec.TargetStart <= pos && pos <= rec.TargetEnd {
					want++
				}
			}
			assert.Equal(t, want, depths[pos-1], "iter %d pos %d", iter, pos)
		}
		again, _ := coverage.Build("c", length, recs, coverage.BuildOpts{})
		assert.Equal(t, depths, again)
	}
}

func TestFromDepthRows(t *testing.T) {
	rows := []alignment.DepthRow{
		{Sample: "s", Contig: "c", Loc: 2, Depth: 4},
		{Sample: "s", Contig: "c", Loc: 4, Depth: 1},
		{Sample: "s", Contig: "c", Loc: 4, Depth: 2},
		{Sample: "s", Contig: "c", Loc: 7, Depth: 9},
	}
	depths, stats := coverage.FromDepthRows("c", 5, rows)
	expect.EQ(t, depths, coverage.Array{0, 4, 0, 3, 0})
	expect.EQ(t, stats, coverage.BuildStats{Applied: 3, Clipped: 1})

	rows = []alignment.DepthRow{
		{Sample: "s", Contig: "c", Loc: 1, Depth: math.MaxUint32 - 1},
		{Sample: "s", Contig: "c", Loc: 1, Depth: 5},
		{Sample: "s", Contig: "c", Loc: 2, Depth: math.MaxUint32},
	}
	depths, _ = coverage.FromDepthRows("c", 2, rows)
	expect.EQ(t, depths, coverage.Array{math.MaxUint32, math.MaxUint32})
}

func TestMedian(t *testing.T) {
	tests := []struct {
		depths coverage.Array
		want   float64
	}{
		{nil, 0},
		{coverage.Array{7}, 7},
		{coverage.Array{5, 1, 3}, 3},
		{coverage.Array{4, 1, 3, 2}, 2.5},
		{coverage.Array{0, 0, 3, 3, 0, 5, 0, 0, 0}, 0},
	}
	for _, tt := range tests {
		expect.EQ(t, tt.depths.Median(), tt.want, tt.depths)
	}
	// Median must not reorder its receiver.
	a := coverage.Array{3, 1, 2}
	a.Median()
	expect.EQ(t, a, coverage.Array{3, 1, 2})
}
