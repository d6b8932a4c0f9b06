package segment_test

import (
	"math/rand"
	"testing"

	"github.com/grailbio/contigcov/coverage"
	"github.com/grailbio/contigcov/segment"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

// lowBlocks returns an array of the given length with depth high everywhere
// except the listed [start0, start0+length) blocks, which have depth low.
func lowBlocks(length int, high, low uint32, blocks ...[2]int) coverage.Array {
	depths := make(coverage.Array, length)
	for i := range depths {
		depths[i] = high
	}
	for _, b := range blocks {
		for i := b[0]; i < b[0]+b[1]; i++ {
			depths[i] = low
		}
	}
	return depths
}

func TestFindHVRsLongBlock(t *testing.T) {
	// A 601-base block of depth 1 yields 600 windows whose median is 1; a
	// 300-base block yields only 299 and is dropped.
	depths := lowBlocks(4000, 10, 1, [2]int{1500, 601}, [2]int{2800, 300})
	opts := segment.DefaultOpts
	key := segment.Key{Sample: "s1", Contig: "c1"}
	res, sig := segment.FindHVRs(key, depths, &opts)
	assert.NoError(t, res.Err)
	expect.EQ(t, res.State, segment.Emitted)
	require.NotNil(t, sig)
	expect.EQ(t, sig.GlobalMedian, 10.0)
	expect.EQ(t, res.HVRs, []segment.HVRRow{
		{Sample: "s1", Contig: "c1", Start: 1251, End: 1850, Length: 600},
	})
}

func TestFindHVRsBoundary(t *testing.T) {
	// A block at the start of the contig yields windows 0..649, which start
	// before the first full window length and are dropped.
	depths := lowBlocks(4000, 10, 0, [2]int{0, 900})
	opts := segment.DefaultOpts
	res, sig := segment.FindHVRs(segment.Key{Contig: "c1"}, depths, &opts)
	assert.NoError(t, res.Err)
	require.NotNil(t, sig)
	expect.EQ(t, res.State, segment.Dropped)
	expect.EQ(t, len(res.HVRs), 0)
}

func TestFindHVRsFilterProperties(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	for iter := 0; iter < 30; iter++ {
		length := 500 + r.Intn(1500)
		var blocks [][2]int
		for i := r.Intn(5); i > 0; i-- {
			start := r.Intn(length)
			blocks = append(blocks, [2]int{start, r.Intn(length - start)})
		}
		depths := lowBlocks(length, 20, uint32(r.Intn(3)), blocks...)
		opts := segment.DefaultOpts
		opts.WindowLength = 10 + r.Intn(90)
		opts.WindowStep = r.Intn(4)
		opts.HVRMinLength = r.Intn(200)
		res, _ := segment.FindHVRs(segment.Key{Contig: "c"}, depths, &opts)
		assert.NoError(t, res.Err)
		for _, row := range res.HVRs {
			expect.True(t, row.Start >= opts.WindowLength, "iter %d: %+v", iter, row)
			expect.True(t, row.Length >= opts.HVRMinLength, "iter %d: %+v", iter, row)
			expect.EQ(t, row.Length, row.End-row.Start+1)
		}
		if len(res.HVRs) > 0 {
			expect.EQ(t, res.State, segment.Emitted)
		}
	}
}

func TestFindHVRsLowCoverage(t *testing.T) {
	depths := lowBlocks(4000, 3, 0, [2]int{1500, 601})
	opts := segment.DefaultOpts
	res, sig := segment.FindHVRs(segment.Key{Sample: "s", Contig: "c"}, depths, &opts)
	assert.NoError(t, res.Err)
	expect.EQ(t, res.State, segment.Skipped)
	expect.True(t, sig == nil)
	expect.EQ(t, len(res.HVRs), 0)
	expect.True(t, res.Reason != "")
}

func TestFindHVRsShortContig(t *testing.T) {
	depths := lowBlocks(499, 10, 10)
	opts := segment.DefaultOpts
	res, sig := segment.FindHVRs(segment.Key{Contig: "c"}, depths, &opts)
	assert.NoError(t, res.Err)
	expect.EQ(t, res.State, segment.Skipped)
	expect.True(t, sig == nil)
}

func TestFindHVRsRegion(t *testing.T) {
	depths := lowBlocks(4000, 10, 1, [2]int{1500, 601})
	opts := segment.DefaultOpts

	// Windows 1251..1850 span bases 1252..2350 (1-based).
	for _, tt := range []struct {
		region string
		want   int
	}{
		{"c1", 1},
		{"c1:2350-3000", 1},
		{"c1:2351-3000", 0},
		{"c1:1-1252", 1},
		{"c1:1-1251", 0},
	} {
		opts.Region = tt.region
		assert.NoError(t, opts.Validate())
		res, _ := segment.FindHVRs(segment.Key{Contig: "c1"}, depths, &opts)
		expect.EQ(t, len(res.HVRs), tt.want, tt.region)
	}
}
