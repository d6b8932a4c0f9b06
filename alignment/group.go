package alignment

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/errors"
)

// TargetGroup holds the alignment records of one sample against one target
// contig.
type TargetGroup struct {
	Sample  string
	Target  string
	Length  int
	Records []Record
}

// GroupByTarget partitions recs by TargetID.  Groups are returned in order of
// first appearance.  Input need not be sorted.  All records of a target must
// agree on TargetLength.
func GroupByTarget(sample string, recs []Record) ([]TargetGroup, error) {
	index := make(map[string]int)
	var groups []TargetGroup
	for _, rec := range recs {
		i, ok := index[rec.TargetID]
		if !ok {
			i = len(groups)
			index[rec.TargetID] = i
			groups = append(groups, TargetGroup{
				Sample: sample,
				Target: rec.TargetID,
				Length: rec.TargetLength,
			})
		}
		g := &groups[i]
		if g.Length != rec.TargetLength {
			return nil, errors.E(errors.Invalid,
				fmt.Sprintf("target %s: conflicting lengths %d and %d", rec.TargetID, g.Length, rec.TargetLength))
		}
		g.Records = append(g.Records, rec)
	}
	return groups, nil
}

// DepthGroup holds the depth rows of one (sample, contig) pair.
type DepthGroup struct {
	Sample string
	Contig string
	Rows   []DepthRow
}

// GroupDepthRows partitions rows by (Sample, Contig), in order of first
// appearance.
func GroupDepthRows(rows []DepthRow) []DepthGroup {
	type key struct{ sample, contig string }
	index := make(map[key]int)
	var groups []DepthGroup
	for _, row := range rows {
		k := key{row.Sample, row.Contig}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, DepthGroup{Sample: row.Sample, Contig: row.Contig})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}
	return groups
}

// SampleFromPath derives a sample name from an alignment file path: the
// basename up to the first '_', or the basename without extensions when it
// contains no '_'.
//
//   SampleFromPath("s3://bucket/ERR1234_vs_refs.paf.gz") == "ERR1234"
//   SampleFromPath("/data/sampleA.paf") == "sampleA"
func SampleFromPath(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '_'); i > 0 {
		return base[:i]
	}
	if i := strings.IndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}
