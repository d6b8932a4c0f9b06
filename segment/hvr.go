package segment

import (
	"context"
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/contigcov/coverage"
	"github.com/grailbio/contigcov/interval"
	"github.com/grailbio/contigcov/window"
)

// HVRRow is one hypervariable region.  Start and End are inclusive window
// indices; window i starts at base i*step (0-based).
type HVRRow struct {
	Sample string
	Contig string
	Start  int
	End    int
	Length int
}

// Plotter renders the coverage profile of a group that produced HVRs.
type Plotter interface {
	PlotHVRs(ctx context.Context, key Key, sig *window.Signal, rows []HVRRow) error
}

// FindHVRs runs the HVR analysis on the depth array of one group.  The
// returned result has State Skipped, Dropped or Emitted.  The smoothed signal
// is returned for groups that reached windowing, and is nil otherwise.
func FindHVRs(key Key, depths coverage.Array, opts *Opts) (GroupResult, *window.Signal) {
	res := GroupResult{Key: key, State: CoverageBuilt}

	if median := depths.Median(); median < opts.MinCoverage {
		res.State = Skipped
		res.Reason = fmt.Sprintf("median depth %v is below minimum coverage %v", median, opts.MinCoverage)
		return res, nil
	}
	sig, err := window.Smooth(depths, opts.WindowLength, opts.WindowStep, opts.HVRThreshold)
	if err != nil {
		if errors.Is(errors.Precondition, err) {
			res.State = Skipped
			res.Reason = fmt.Sprintf("sliding window length %d exceeds contig length %d", opts.WindowLength, len(depths))
		} else {
			res.Err = err
		}
		return res, nil
	}

	islands := interval.Islands(sig.Below)
	res.State = Extracted

	var (
		region = opts.region()
		minLen = interval.PosType(opts.HVRMinLength)
		minPos = interval.PosType(opts.WindowLength)
		maxPos = interval.PosType(len(depths) - opts.WindowLength)
		rows   []HVRRow
	)
	for _, island := range islands {
		if island.Len() < minLen || island.Start < minPos || island.End > maxPos {
			continue
		}
		// Window-index span to the 1-based base range it was computed from.
		start1 := island.Start*interval.PosType(sig.Step) + 1
		end1 := island.End*interval.PosType(sig.Step) + interval.PosType(sig.Window)
		if !region.Overlaps(start1, end1) {
			continue
		}
		rows = append(rows, HVRRow{
			Sample: key.Sample,
			Contig: key.Contig,
			Start:  int(island.Start),
			End:    int(island.End),
			Length: int(island.Len()),
		})
	}
	res.State = Filtered
	if len(rows) == 0 {
		res.State = Dropped
		return res, &sig
	}
	res.HVRs = rows
	res.State = Emitted
	return res, &sig
}

type hvrEnv struct {
	ctx     context.Context
	opts    *Opts
	plotter Plotter
}

func (env *hvrEnv) process(g *Group, res *GroupResult) {
	depths, stats := g.buildCoverage(env.opts)
	res.State = CoverageBuilt
	if stats.Clipped > 0 {
		log.Debug.Printf("segment: %v: %d row(s) clipped", g.Key, stats.Clipped)
	}
	r, sig := FindHVRs(g.Key, depths, env.opts)
	*res = r
	switch res.State {
	case Skipped:
		log.Printf("segment: %v: skipped, %s", g.Key, res.Reason)
	case Emitted:
		if env.plotter != nil {
			if err := env.plotter.PlotHVRs(env.ctx, g.Key, sig, res.HVRs); err != nil {
				res.Err = errors.E(err, "plot", g.Key.String())
			}
		}
	}
}
