package interval

// ZeroRuns returns the maximal runs of zero depth in depths, in increasing
// order.  Coordinates are 1-based and inclusive, so a run covering depths[0]
// and depths[1] is reported as {1, 2}.  An array without zeros yields an empty
// (nil) result.
//
// depths is only read, so repeated calls on the same array return identical
// results.
func ZeroRuns(depths []uint32) []Interval {
	var runs []Interval
	inRun := false
	var start int
	for pos, d := range depths {
		if d == 0 {
			if !inRun {
				start = pos
				inRun = true
			}
			continue
		}
		if inRun {
			runs = append(runs, Interval{Start: PosType(start + 1), End: PosType(pos)})
			inRun = false
		}
	}
	if inRun {
		runs = append(runs, Interval{Start: PosType(start + 1), End: PosType(len(depths))})
	}
	return runs
}
