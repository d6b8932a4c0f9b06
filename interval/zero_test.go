package interval

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestZeroRuns(t *testing.T) {
	tests := []struct {
		name   string
		depths []uint32
		want   []Interval
	}{
		{"empty", nil, nil},
		{"no_zeros", []uint32{1, 2, 3, 10, 1}, nil},
		{"all_zero", []uint32{0, 0, 0, 0, 0, 0, 0}, []Interval{{1, 7}}},
		{"single_zero", []uint32{0}, []Interval{{1, 1}}},
		{
			"mixed",
			[]uint32{0, 0, 3, 3, 0, 5, 0, 0, 0},
			[]Interval{{1, 2}, {5, 5}, {7, 9}},
		},
		{"interior", []uint32{4, 0, 0, 4}, []Interval{{2, 3}}},
	}
	for _, tt := range tests {
		got := ZeroRuns(tt.depths)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestZeroRunsLengths(t *testing.T) {
	runs := ZeroRuns([]uint32{0, 0, 3, 3, 0, 5, 0, 0, 0})
	var lengths []PosType
	for _, r := range runs {
		lengths = append(lengths, r.Len())
	}
	expect.EQ(t, lengths, []PosType{2, 1, 3})
}

func TestZeroRunsAllZeroSpansArray(t *testing.T) {
	for _, n := range []int{1, 2, 17, 1000} {
		runs := ZeroRuns(make([]uint32, n))
		expect.EQ(t, len(runs), 1)
		expect.EQ(t, runs[0].Start, PosType(1))
		expect.EQ(t, runs[0].Len(), PosType(n))
	}
}

// TestZeroRunsRandom compares against a per-position membership check, and
// verifies that the array isn't modified and results are reproducible.
func TestZeroRunsRandom(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for iter := 0; iter < 200; iter++ {
		depths := make([]uint32, 1+r.Intn(300))
		for i := range depths {
			if r.Intn(3) != 0 {
				depths[i] = uint32(r.Intn(4))
			}
		}
		orig := append([]uint32(nil), depths...)
		runs := ZeroRuns(depths)
		expect.EQ(t, depths, orig)
		expect.EQ(t, ZeroRuns(depths), runs)

		inRun := make([]bool, len(depths))
		for i, run := range runs {
			expect.True(t, run.End >= run.Start)
			if i > 0 {
				// Maximality: consecutive runs are separated by a nonzero.
				expect.True(t, run.Start > runs[i-1].End+1)
			}
			for p := run.Start; p <= run.End; p++ {
				inRun[p-1] = true
			}
		}
		for i, d := range depths {
			expect.EQ(t, inRun[i], d == 0)
		}
	}
}
