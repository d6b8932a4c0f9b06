// Package coverage builds dense per-base depth arrays for reference contigs.
//
// An Array is built from the alignment records of a single (sample, contig)
// group, or from the rows of a per-base depth table.  Arrays are owned by the
// goroutine that builds them and are read-only afterwards.
//
// The optional coverage Log records one line per contig for external
// inspection.  Several groups may append to it concurrently.
package coverage
