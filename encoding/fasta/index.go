package fasta

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/grailbio/base/tsv"
	"github.com/pkg/errors"
)

// IndexEntry is one line of a .fai index.  The format is defined by "samtools
// faidx" (http://www.htslib.org/doc/faidx.html).
type IndexEntry struct {
	Name string `tsv:"name"`
	// Length is the number of bases.
	Length int64 `tsv:"length"`
	// Offset is the byte offset of the first base.
	Offset int64 `tsv:"offset"`
	// LineBases is the number of bases per line.
	LineBases int64 `tsv:"linebases"`
	// LineWidth is the number of bytes per line, including the newline.
	LineWidth int64 `tsv:"linewidth"`
}

// scan calls fn with the index entry of every sequence of the FASTA data in
// in, in order of appearance.
func scan(in io.Reader, fn func(IndexEntry)) error {
	var (
		r     = bufio.NewReader(in)
		entry IndexEntry
		// Set once the current sequence has at least one line of bases.
		started bool
		cumByte int64
		eof     bool
	)
	for !eof {
		fullLine, err := r.ReadBytes('\n')
		if err == io.EOF { // Process fullLine, then exit the loop
			eof = true
		} else if err != nil {
			return err
		}
		cumByte += int64(len(fullLine))
		line := bytes.TrimRight(fullLine, "\r\n")
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' { // Start a new sequence.
			if started {
				if entry.Name == "" {
					return errors.New("malformed FASTA file")
				}
				fn(entry)
			}
			entry = IndexEntry{
				Name:   strings.Split(string(line[1:]), " ")[0],
				Offset: cumByte,
			}
			started = false
			continue
		}
		if !started {
			entry.LineWidth = int64(len(fullLine))
			entry.LineBases = int64(len(line))
			started = true
		}
		entry.Length += int64(len(line))
	}
	if cumByte == 0 {
		return errors.New("empty FASTA file")
	}
	if entry.Name == "" {
		return errors.New("malformed FASTA file")
	}
	fn(entry)
	return nil
}

// WriteIndex generates an index (*.fai) from the FASTA data in in.
func WriteIndex(out io.Writer, in io.Reader) error {
	tsvOut := tsv.NewWriter(out)
	var werr error
	err := scan(in, func(e IndexEntry) {
		if werr != nil {
			return
		}
		tsvOut.WriteString(e.Name)
		tsvOut.WriteInt64(e.Length)
		tsvOut.WriteInt64(e.Offset)
		tsvOut.WriteInt64(e.LineBases)
		tsvOut.WriteInt64(e.LineWidth)
		werr = tsvOut.EndLine()
	})
	if err != nil {
		return err
	}
	if werr != nil {
		return werr
	}
	return tsvOut.Flush()
}

// ReadIndex returns the contigs listed in a .fai index, in index order.
func ReadIndex(r io.Reader) ([]Contig, error) {
	tsvReader := tsv.NewReader(r)
	var contigs []Contig
	for {
		var entry IndexEntry
		if err := tsvReader.Read(&entry); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(err, "invalid FASTA index")
		}
		contigs = append(contigs, Contig{Name: entry.Name, Length: int(entry.Length)})
	}
	return contigs, nil
}
