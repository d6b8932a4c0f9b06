package interval

import (
	"fmt"
	"math"
)

// PosType is the type used to represent interval coordinates.  int32 should be
// wide enough for some time to come, since that's what BAM is limited to.
type PosType int32

// PosTypeMax is the maximum value that can be represented by a PosType.
const PosTypeMax = math.MaxInt32

// Interval is a maximal run with inclusive endpoints.  End >= Start always
// holds for intervals produced by this package.
type Interval struct {
	Start PosType
	End   PosType
}

// Len returns the number of positions covered by the interval.
func (iv Interval) Len() PosType {
	return iv.End - iv.Start + 1
}

// Overlaps reports whether iv and [start, end] (inclusive) share a position.
func (iv Interval) Overlaps(start, end PosType) bool {
	return iv.Start <= end && start <= iv.End
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%d, %d]", iv.Start, iv.End)
}
