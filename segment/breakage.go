package segment

import (
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/contigcov/coverage"
	"github.com/grailbio/contigcov/interval"
)

// BreakageRow is one zero-depth run.  Start and End are 1-based and
// inclusive.
type BreakageRow struct {
	Contig       string
	Start        int
	End          int
	Length       int
	ContigLength int
}

// FindBreakages returns the maximal zero-depth runs of a contig, in position
// order.
func FindBreakages(contig string, depths coverage.Array) []BreakageRow {
	runs := interval.ZeroRuns(depths)
	if len(runs) == 0 {
		return nil
	}
	rows := make([]BreakageRow, len(runs))
	for i, run := range runs {
		rows[i] = BreakageRow{
			Contig:       contig,
			Start:        int(run.Start),
			End:          int(run.End),
			Length:       int(run.Len()),
			ContigLength: len(depths),
		}
	}
	return rows
}

type breakageEnv struct {
	opts   *Opts
	region interval.Region
	// covLog is nil when no coverage log was requested.
	covLog *coverage.Log
}

func (env *breakageEnv) process(g *Group, res *GroupResult) {
	depths, stats := g.buildCoverage(env.opts)
	res.State = CoverageBuilt
	if stats.Filtered > 0 || stats.Clipped > 0 {
		log.Debug.Printf("segment: %v: %d alignment(s) applied, %d below %.1f%% aligned, %d clipped",
			g.Key, stats.Applied, stats.Filtered, env.opts.MinPctAligned, stats.Clipped)
	}
	if env.covLog != nil {
		if err := env.covLog.Append(g.Contig, depths); err != nil {
			res.Err = errors.E(err, g.Key.String())
		}
	}

	rows := FindBreakages(g.Contig, depths)
	res.State = Extracted

	kept := rows[:0]
	for _, row := range rows {
		if env.region.Overlaps(interval.PosType(row.Start), interval.PosType(row.End)) {
			kept = append(kept, row)
		}
	}
	res.State = Filtered
	if len(kept) == 0 {
		res.State = Dropped
		return
	}
	res.Breakages = kept
	res.State = Emitted
}
