package alignment

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
)

// DepthRow is one row of a per-base depth table, in the layout produced by
// `samtools depth` with a leading sample column.  Loc is 1-based.
type DepthRow struct {
	Sample string `tsv:"sample"`
	Contig string `tsv:"contig"`
	Loc    int64  `tsv:"loc"`
	Depth  int64  `tsv:"depth"`
}

// ParseDepthTable reads a headerless, tab-separated depth table from r.  Lines
// starting with '#' are ignored.
func ParseDepthTable(r io.Reader) ([]DepthRow, error) {
	tsvReader := tsv.NewReader(r)
	tsvReader.Comment = '#'

	var rows []DepthRow
	for nRow := 1; ; nRow++ {
		var row DepthRow
		if err := tsvReader.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(errors.Invalid, fmt.Sprintf("row %d", nRow), err)
		}
		if row.Loc < 1 || row.Depth < 0 || row.Depth > math.MaxUint32 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("row %d: invalid locus %d or depth %d", nRow, row.Loc, row.Depth))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadDepthTable is a wrapper for ParseDepthTable that takes a path.
func ReadDepthTable(ctx context.Context, path string) (rows []DepthRow, err error) {
	reader, closer, err := openDecompressed(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if e := closer(); e != nil && err == nil {
			err = e
		}
	}()
	if rows, err = ParseDepthTable(reader); err != nil {
		return nil, errors.E(err, path)
	}
	log.Printf("alignment.ReadDepthTable: %d row(s) loaded from %s", len(rows), path)
	return rows, nil
}
