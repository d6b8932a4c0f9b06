package segment

import (
	"fmt"

	"github.com/grailbio/contigcov/alignment"
	"github.com/grailbio/contigcov/coverage"
)

// State is the progress of one group through an analysis.
//
//   New -> CoverageBuilt -> Skipped
//                        -> Extracted -> Filtered -> Emitted
//                                                 -> Dropped
//
// Skipped, Emitted and Dropped are terminal.
type State int

const (
	New State = iota
	CoverageBuilt
	Skipped
	Extracted
	Filtered
	Emitted
	Dropped
)

var stateNames = [...]string{
	New:           "new",
	CoverageBuilt: "coverage-built",
	Skipped:       "skipped",
	Extracted:     "extracted",
	Filtered:      "filtered",
	Emitted:       "emitted",
	Dropped:       "dropped",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Key identifies a group.
type Key struct {
	Sample string
	Contig string
}

func (k Key) String() string {
	if k.Sample == "" {
		return k.Contig
	}
	return k.Sample + "/" + k.Contig
}

// Group is the unit of work: the alignments (or per-base depth rows) of one
// sample against one contig.  Exactly one of Records and DepthRows is used;
// a group with neither has zero depth everywhere.
type Group struct {
	Key
	// Length is the declared contig length.
	Length    int
	Records   []alignment.Record
	DepthRows []alignment.DepthRow
}

func (g *Group) buildCoverage(opts *Opts) (coverage.Array, coverage.BuildStats) {
	if g.DepthRows != nil {
		return coverage.FromDepthRows(g.Contig, g.Length, g.DepthRows)
	}
	return coverage.Build(g.Contig, g.Length, g.Records, opts.buildOpts())
}

// GroupResult is the outcome of one group.  State is the last state reached.
// Err is set when the group failed (including a recovered panic) or when a
// side effect such as the coverage log or a plot could not be written; rows
// of an Emitted group are kept in the latter case.
type GroupResult struct {
	Key
	State     State
	Breakages []BreakageRow
	HVRs      []HVRRow
	Err       error
	// Reason is a human-readable explanation for Skipped groups.
	Reason string
}
