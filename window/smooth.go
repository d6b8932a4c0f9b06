// Package window smooths per-base depth arrays with a sliding-window median
// and flags windows whose median falls below a fraction of the contig-wide
// median.
package window

import (
	"fmt"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/contigcov/coverage"
)

// ErrWindowTooLarge is the cause of the error returned by Smooth when the
// window is longer than the depth array.  Callers skip such contigs.
var ErrWindowTooLarge = errors.E(errors.Precondition, "window: window length exceeds contig length")

// Signal is a smoothed depth profile.  Window i covers the 0-based half-open
// range [Starts[i], Starts[i]+Window), and Starts[i] == i*Step.
type Signal struct {
	Starts  []int
	Medians []float64
	// Below[i] == Medians[i] < Threshold*GlobalMedian.
	Below        []bool
	GlobalMedian float64
	Threshold    float64
	Window       int
	Step         int
}

// Len returns the number of windows.
func (s *Signal) Len() int { return len(s.Medians) }

// NumWindows returns 1 + (length-w)/step, the number of windows Smooth
// produces for an array of the given length.  It requires 0 < w <= length and
// step > 0.
func NumWindows(length, w, step int) int {
	return 1 + (length-w)/step
}

// Smooth computes the median of every window of length w, advancing by step
// positions, and flags the windows whose median is below
// threshold * median(depths).
//
// A step of 0 means step = w (non-overlapping windows).  A negative step or
// a non-positive w is an errors.Invalid error.  A window longer than depths
// is ErrWindowTooLarge (errors.Precondition).  Trailing positions that do not
// fill a whole window are ignored.
func Smooth(depths coverage.Array, w, step int, threshold float64) (Signal, error) {
	if w <= 0 {
		return Signal{}, errors.E(errors.Invalid, fmt.Sprintf("window: window length %d must be positive", w))
	}
	if step < 0 {
		return Signal{}, errors.E(errors.Invalid, fmt.Sprintf("window: step %d must not be negative", step))
	}
	if step == 0 {
		step = w
	}
	if w > len(depths) {
		return Signal{}, errors.E(ErrWindowTooLarge, fmt.Sprintf("window %d, length %d", w, len(depths)))
	}
	n := NumWindows(len(depths), w, step)
	sig := Signal{
		Starts:       make([]int, n),
		Medians:      make([]float64, n),
		Below:        make([]bool, n),
		GlobalMedian: depths.Median(),
		Threshold:    threshold,
		Window:       w,
		Step:         step,
	}
	for i := range sig.Starts {
		sig.Starts[i] = i * step
	}
	if step >= w {
		disjointMedians(depths, w, sig.Starts, sig.Medians)
	} else {
		slidingMedians(depths, w, step, sig.Medians)
	}
	cutoff := threshold * sig.GlobalMedian
	for i, m := range sig.Medians {
		sig.Below[i] = m < cutoff
	}
	return sig, nil
}

// disjointMedians fills medians for windows that do not overlap, sorting a
// copy of each window.
func disjointMedians(depths coverage.Array, w int, starts []int, medians []float64) {
	buf := make([]uint32, w)
	for i, start := range starts {
		copy(buf, depths[start:start+w])
		sort.Slice(buf, func(a, b int) bool { return buf[a] < buf[b] })
		if w%2 == 1 {
			medians[i] = float64(buf[w/2])
		} else {
			medians[i] = (float64(buf[w/2-1]) + float64(buf[w/2])) / 2
		}
	}
}
