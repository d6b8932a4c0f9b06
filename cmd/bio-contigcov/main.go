/*
bio-contigcov segments the per-base coverage of reference contigs into
zero-coverage gaps ("breakages") and hypervariable regions (HVRs): stretches
where the sliding-window median depth falls below a fraction of the contig's
overall median.

Sample usage:
bio-contigcov breakages \
    -fasta refs.fa \
    -coverage-log coverage.log \
    reads_vs_refs.paf breakages.tsv

bio-contigcov hvrs -input-format depth out-dir depth.tsv

bio-contigcov hvrs -input-format paf -config params.yaml \
    out-dir S1_vs_refs.paf S2_vs_refs.paf

bio-contigcov faidx refs.fa
*/
package main

import (
	"github.com/grailbio/contigcov/cmd/bio-contigcov/cmd"
)

func main() {
	cmd.Run()
}
