package segment

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/contigcov/alignment"
	"github.com/grailbio/contigcov/coverage"
	"github.com/grailbio/contigcov/encoding/fasta"
)

// Breakages reads the alignment table at alignPath, finds the zero-depth runs
// of every target contig and writes them to outPath.  When opts.FastaPath is
// set, contigs without any alignment are reported as a single whole-contig
// breakage.  The table is written only if the input and options are valid.
func Breakages(ctx context.Context, alignPath, outPath string, opts *Opts) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	recs, err := alignment.ReadPAF(ctx, alignPath, alignment.PAFOpts{SkipHeader: opts.SkipHeader})
	if err != nil {
		return err
	}
	targets, err := alignment.GroupByTarget("", recs)
	if err != nil {
		return errors.E(err, alignPath)
	}
	groups := make([]Group, len(targets))
	for i, t := range targets {
		groups[i] = Group{Key: Key{Contig: t.Target}, Length: t.Length, Records: t.Records}
	}
	if opts.FastaPath != "" {
		contigs, err := fasta.ReadContigsFromPath(ctx, opts.FastaPath)
		if err != nil {
			return errors.E(errors.Invalid, err)
		}
		nAligned := len(groups)
		if groups, err = addUnalignedContigs(groups, contigs); err != nil {
			return err
		}
		log.Printf("segment.Breakages: %d of %d FASTA contig(s) have no alignment", len(groups)-nAligned, len(contigs))
	}
	region := opts.region()
	groups = filterGroups(groups, func(g *Group) bool { return region.Matches(g.Contig) })

	env := breakageEnv{opts: opts, region: region}
	if opts.CoverageLog != "" {
		format, _ := coverage.ParseFormat(opts.LogFormat)
		if env.covLog, err = coverage.NewLog(opts.CoverageLog, format); err != nil {
			return err
		}
	}
	results := Dispatch(groups, opts.Parallelism, env.process)
	summarize(results)
	var rows []BreakageRow
	for i := range results {
		rows = append(rows, results[i].Breakages...)
	}
	return WriteBreakages(ctx, outPath, rows)
}

// addUnalignedContigs appends an empty group for every contig that has no
// alignment.  Declared lengths must agree with the FASTA.
func addUnalignedContigs(groups []Group, contigs []fasta.Contig) ([]Group, error) {
	seen := make(map[string]int, len(groups))
	for _, g := range groups {
		seen[g.Contig] = g.Length
	}
	for _, c := range contigs {
		length, ok := seen[c.Name]
		if !ok {
			groups = append(groups, Group{Key: Key{Contig: c.Name}, Length: c.Length})
			continue
		}
		if length != c.Length {
			return nil, errors.E(errors.Invalid,
				fmt.Sprintf("segment: contig %s: alignment length %d disagrees with FASTA length %d", c.Name, length, c.Length))
		}
	}
	return groups, nil
}

func filterGroups(groups []Group, keep func(g *Group) bool) []Group {
	kept := groups[:0]
	for i := range groups {
		if keep(&groups[i]) {
			kept = append(kept, groups[i])
		}
	}
	return kept
}

// HVRsFromDepthTable finds the HVRs of every (sample, contig) group of the
// per-base depth table at depthPath.  Contig lengths come from opts.FastaPath
// when set, and from the largest locus of each group otherwise.
func HVRsFromDepthTable(ctx context.Context, depthPath, outDir string, opts *Opts, plotter Plotter) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	rows, err := alignment.ReadDepthTable(ctx, depthPath)
	if err != nil {
		return err
	}
	var lengths map[string]int
	if opts.FastaPath != "" {
		if lengths, err = contigLengths(ctx, opts.FastaPath); err != nil {
			return err
		}
	}
	var groups []Group
	for _, dg := range alignment.GroupDepthRows(rows) {
		g := Group{Key: Key{Sample: dg.Sample, Contig: dg.Contig}, DepthRows: dg.Rows}
		if length, ok := lengths[dg.Contig]; ok {
			g.Length = length
		} else {
			if lengths != nil {
				return errors.E(errors.Invalid, fmt.Sprintf("segment: contig %s of sample %s is not in %s", dg.Contig, dg.Sample, opts.FastaPath))
			}
			for _, row := range dg.Rows {
				if int(row.Loc) > g.Length {
					g.Length = int(row.Loc)
				}
			}
		}
		groups = append(groups, g)
	}
	return runHVRs(ctx, groups, outDir, opts, plotter)
}

// HVRsFromAlignments finds the HVRs of every target contig of every alignment
// table in alignPaths.  Each table belongs to the sample named by
// alignment.SampleFromPath; tables of the same sample are pooled, so every
// (sample, contig) pair forms a single group.
func HVRsFromAlignments(ctx context.Context, alignPaths []string, outDir string, opts *Opts, plotter Plotter) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	var (
		groups []Group
		index  = map[Key]int{}
	)
	for _, path := range alignPaths {
		recs, err := alignment.ReadPAF(ctx, path, alignment.PAFOpts{SkipHeader: opts.SkipHeader})
		if err != nil {
			return err
		}
		targets, err := alignment.GroupByTarget(alignment.SampleFromPath(path), recs)
		if err != nil {
			return errors.E(err, path)
		}
		for _, t := range targets {
			key := Key{Sample: t.Sample, Contig: t.Target}
			i, ok := index[key]
			if !ok {
				index[key] = len(groups)
				groups = append(groups, Group{Key: key, Length: t.Length, Records: t.Records})
				continue
			}
			if groups[i].Length != t.Length {
				return errors.E(errors.Invalid, fmt.Sprintf("segment: %v: target length %d in %s disagrees with length %d seen earlier",
					key, t.Length, path, groups[i].Length))
			}
			groups[i].Records = append(groups[i].Records, t.Records...)
		}
	}
	return runHVRs(ctx, groups, outDir, opts, plotter)
}

func contigLengths(ctx context.Context, path string) (map[string]int, error) {
	contigs, err := fasta.ReadContigsFromPath(ctx, path)
	if err != nil {
		return nil, errors.E(errors.Invalid, err)
	}
	lengths := make(map[string]int, len(contigs))
	for _, c := range contigs {
		lengths[c.Name] = c.Length
	}
	return lengths, nil
}

// prepareOutDir creates outDir.  An existing non-empty directory is an
// errors.Exists error unless overwrite is set.
func prepareOutDir(outDir string, overwrite bool) error {
	if entries, err := ioutil.ReadDir(outDir); err == nil && len(entries) > 0 && !overwrite {
		return errors.E(errors.Exists, fmt.Sprintf("segment: output directory %s is not empty (use -overwrite)", outDir))
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return errors.E(err, "segment: create output directory", outDir)
	}
	return nil
}

func runHVRs(ctx context.Context, groups []Group, outDir string, opts *Opts, plotter Plotter) error {
	region := opts.region()
	groups = filterGroups(groups, func(g *Group) bool { return region.Matches(g.Contig) })
	if err := prepareOutDir(outDir, opts.Overwrite); err != nil {
		return err
	}
	env := hvrEnv{ctx: ctx, opts: opts, plotter: plotter}
	results := Dispatch(groups, opts.Parallelism, env.process)
	summarize(results)
	var rows []HVRRow
	for i := range results {
		rows = append(rows, results[i].HVRs...)
	}
	_, err := WriteHVRs(ctx, outDir, rows)
	return err
}
