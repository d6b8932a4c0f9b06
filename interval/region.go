package interval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
)

// Region restricts an analysis to one contig, and optionally to a range of it.
// Start0 and End form a 0-based half-open interval.
type Region struct {
	Contig string
	Start0 PosType
	End    PosType
}

// ParseRegion parses "contig", "contig:pos" or "contig:start-end", where
// positions are 1-based and inclusive.  The contig ID is everything before
// the last colon, so IDs may themselves contain colons.  A bare contig covers
// [0, PosTypeMax-1).
func ParseRegion(s string) (Region, error) {
	colon := strings.LastIndexByte(s, ':')
	switch {
	case s == "":
		return Region{}, errors.E(errors.Invalid, "interval.ParseRegion: empty region")
	case colon < 0:
		return Region{Contig: s, End: PosTypeMax - 1}, nil
	case colon == 0:
		return Region{}, errors.E(errors.Invalid, "interval.ParseRegion: empty contig ID in", s)
	}
	r := Region{Contig: s[:colon]}
	span := s[colon+1:]
	first, last := span, span
	if dash := strings.IndexByte(span, '-'); dash >= 0 {
		first, last = span[:dash], span[dash+1:]
	}
	start1, err := parsePos(first)
	if err != nil {
		return Region{}, errors.E(err, s)
	}
	end1, err := parsePos(last)
	if err != nil {
		return Region{}, errors.E(err, s)
	}
	// End stays below PosTypeMax, like the bound of a bare contig.
	if end1 < start1 || end1 >= PosTypeMax {
		return Region{}, errors.E(errors.Invalid, fmt.Sprintf("interval.ParseRegion: invalid range %q", span))
	}
	r.Start0, r.End = start1-1, end1
	return r, nil
}

// parsePos parses a positive 1-based position.
func parsePos(s string) (PosType, error) {
	pos, err := strconv.ParseInt(s, 10, 32)
	if err != nil || pos < 1 {
		return 0, errors.E(errors.Invalid, fmt.Sprintf("interval.ParseRegion: bad position %q", s))
	}
	return PosType(pos), nil
}

// Matches reports whether contig is the region's contig.  The zero Region
// matches every contig.
func (r Region) Matches(contig string) bool {
	return r.Contig == "" || r.Contig == contig
}

// Overlaps reports whether the 1-based inclusive range [start1, end1] on the
// region's contig intersects the region.  The zero Region overlaps everything.
func (r Region) Overlaps(start1, end1 PosType) bool {
	if r.Contig == "" {
		return true
	}
	return start1-1 < r.End && end1 > r.Start0
}
