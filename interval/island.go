package interval

// Islands returns the maximal runs of true in flags, in increasing order.
// Coordinates are the 0-based indices of the first and last true flag of each
// run.
//
// Conceptually flags is padded with a false sentinel on both sides, so a run
// touching either end is still closed by a transition; the padding is implicit
// here to avoid copying the signal.
func Islands(flags []bool) []Interval {
	var islands []Interval
	prev := false // left sentinel
	var start int
	for i, f := range flags {
		if f == prev {
			continue
		}
		if f {
			start = i
		} else {
			islands = append(islands, Interval{Start: PosType(start), End: PosType(i - 1)})
		}
		prev = f
	}
	if prev { // right sentinel
		islands = append(islands, Interval{Start: PosType(start), End: PosType(len(flags) - 1)})
	}
	return islands
}
