package window

import (
	"github.com/biogo/store/llrb"
	"github.com/grailbio/contigcov/coverage"
)

// sample is one position of the current window.  pos breaks ties between
// equal depths so that every position is a distinct tree key.
type sample struct {
	depth uint32
	pos   int
}

// Compare implements llrb.Comparable.
func (s sample) Compare(c llrb.Comparable) int {
	o := c.(sample)
	switch {
	case s.depth < o.depth:
		return -1
	case s.depth > o.depth:
		return 1
	}
	return s.pos - o.pos
}

// runningMedian tracks the median of a multiset of samples.  lo holds the
// smaller half and hi the larger half, with lo.Len()-hi.Len() in {0, 1}.
type runningMedian struct {
	lo, hi llrb.Tree
}

func (m *runningMedian) add(s sample) {
	if m.lo.Len() == 0 || s.Compare(m.lo.Max()) <= 0 {
		m.lo.Insert(s)
	} else {
		m.hi.Insert(s)
	}
	m.rebalance()
}

func (m *runningMedian) remove(s sample) {
	if s.Compare(m.lo.Max()) <= 0 {
		m.lo.Delete(s)
	} else {
		m.hi.Delete(s)
	}
	m.rebalance()
}

func (m *runningMedian) rebalance() {
	switch {
	case m.lo.Len() > m.hi.Len()+1:
		top := m.lo.Max()
		m.lo.DeleteMax()
		m.hi.Insert(top)
	case m.hi.Len() > m.lo.Len():
		bottom := m.hi.Min()
		m.hi.DeleteMin()
		m.lo.Insert(bottom)
	}
}

func (m *runningMedian) median() float64 {
	lo := float64(m.lo.Max().(sample).depth)
	if m.lo.Len() > m.hi.Len() {
		return lo
	}
	return (lo + float64(m.hi.Min().(sample).depth)) / 2
}

// slidingMedians fills medians for overlapping windows (step < w).  Moving
// from one window to the next removes and inserts step samples.
func slidingMedians(depths coverage.Array, w, step int, medians []float64) {
	var m runningMedian
	for pos := 0; pos < w; pos++ {
		m.add(sample{depths[pos], pos})
	}
	medians[0] = m.median()
	for i := 1; i < len(medians); i++ {
		start := i * step
		for pos := start - step; pos < start; pos++ {
			m.remove(sample{depths[pos], pos})
		}
		for pos := start - step + w; pos < start+w; pos++ {
			m.add(sample{depths[pos], pos})
		}
		medians[i] = m.median()
	}
}
