// Package fasta reads contig names and lengths from FASTA files and their
// samtools-style .fai indexes.  See http://www.htslib.org/doc/faidx.html.
// Briefly, FASTA files consist of a number of named sequences that may be
// interrupted by newlines.  For example:
//
// >chr7
// ACGTAC
// GAGGAC
// GCG
// >chr8
// ACGT
//
// Note: Sequence names are defined to be the stretch of characters excluding
// spaces immediately after '>'.  Any text appear after a space are ignored.
// For example, '>chr1 A viral sequence' becomes 'chr1'.
//
// Sequence bytes are never held in memory, so arbitrarily large references can
// be scanned.
package fasta

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
)

// Contig is a named sequence and its length in bases.
type Contig struct {
	Name   string
	Length int
}

// ReadContigs returns the contigs of the FASTA data in r, in order of
// appearance.
func ReadContigs(r io.Reader) ([]Contig, error) {
	var contigs []Contig
	err := scan(r, func(e IndexEntry) {
		contigs = append(contigs, Contig{Name: e.Name, Length: int(e.Length)})
	})
	if err != nil {
		return nil, errors.Wrap(err, "couldn't read FASTA data")
	}
	return contigs, nil
}

// ReadContigsFromPath returns the contigs of the FASTA file at path.  If path
// ends in ".fai" it is read as an index.  Otherwise an index at path+".fai" is
// preferred when it exists, and the FASTA itself (optionally compressed) is
// scanned when it does not.
func ReadContigsFromPath(ctx context.Context, path string) (contigs []Contig, err error) {
	if !strings.HasSuffix(path, ".fai") {
		if idx, e := file.Open(ctx, path+".fai"); e == nil {
			defer file.CloseAndReport(ctx, idx, &err)
			return ReadIndex(idx.Reader(ctx))
		}
	}
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer file.CloseAndReport(ctx, in, &err)
	if strings.HasSuffix(path, ".fai") {
		return ReadIndex(in.Reader(ctx))
	}
	reader, _ := compress.NewReader(in.Reader(ctx))
	defer func() {
		if e := reader.Close(); e != nil && err == nil {
			err = e
		}
	}()
	if contigs, err = ReadContigs(reader); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return contigs, nil
}
