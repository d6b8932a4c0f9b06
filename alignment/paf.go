package alignment

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
)

// Column positions of the PAF layout.  Columns past colBlockLength (SAM-like
// tags, cigar strings) are ignored.
const (
	colQueryID = iota
	colQueryLength
	colQueryStart
	colQueryEnd
	colStrand
	colTargetID
	colTargetLength
	colTargetStart
	colTargetEnd
	colMatches
	colBlockLength

	nPAFColumn
)

// maxLineLen bounds a single PAF line.  Lines carrying cs/cg tags for long
// contigs can be several megabytes.
const maxLineLen = 256 << 20

// PAFOpts controls alignment-table parsing.
type PAFOpts struct {
	// SkipHeader causes the first nonblank line to be ignored.
	SkipHeader bool
}

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

func parseIntToken(tokens [][]byte, col, lineIdx int) (int, error) {
	v, err := strconv.Atoi(gunsafe.BytesToString(tokens[col]))
	if err != nil {
		return 0, errors.E(errors.Invalid, fmt.Sprintf("line %d: column %d: %v", lineIdx, col+1, err))
	}
	return v, nil
}

// ParsePAF reads every alignment record from r.  Parsing is eager: the first
// malformed row aborts with an errors.Invalid error and no records.
func ParsePAF(r io.Reader, opts PAFOpts) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, maxLineLen)

	var (
		tokens     [nPAFColumn][]byte
		records    []Record
		lineIdx    int
		headerSeen = !opts.SkipHeader
	)
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		nToken := getTokens(tokens[:], curLine)
		if nToken == 0 {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}
		if nToken != nPAFColumn {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("line %d: expected at least %d columns, found %d", lineIdx, nPAFColumn, nToken))
		}
		var (
			rec Record
			err error
		)
		ints := []struct {
			col int
			dst *int
		}{
			{colQueryLength, &rec.QueryLength},
			{colQueryStart, &rec.QueryStart},
			{colQueryEnd, &rec.QueryEnd},
			{colTargetLength, &rec.TargetLength},
			{colTargetStart, &rec.TargetStart},
			{colTargetEnd, &rec.TargetEnd},
			{colMatches, &rec.Matches},
			{colBlockLength, &rec.BlockLength},
		}
		for _, f := range ints {
			if *f.dst, err = parseIntToken(tokens[:], f.col, lineIdx); err != nil {
				return nil, err
			}
		}
		if rec.QueryLength <= 0 || rec.TargetLength <= 0 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("line %d: sequence lengths must be positive", lineIdx))
		}
		if rec.TargetEnd < rec.TargetStart {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("line %d: target end %d precedes target start %d", lineIdx, rec.TargetEnd, rec.TargetStart))
		}
		rec.QueryID = string(tokens[colQueryID])
		rec.TargetID = string(tokens[colTargetID])
		rec.Strand = tokens[colStrand][0]
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ReadPAF is a wrapper for ParsePAF that takes a path instead of an
// io.Reader.  Compressed input is detected automatically.
func ReadPAF(ctx context.Context, path string, opts PAFOpts) (records []Record, err error) {
	reader, closer, err := openDecompressed(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if e := closer(); e != nil && err == nil {
			err = e
		}
	}()
	if records, err = ParsePAF(reader, opts); err != nil {
		return nil, errors.E(err, path)
	}
	log.Printf("alignment.ReadPAF: %d record(s) loaded from %s", len(records), path)
	return records, nil
}
