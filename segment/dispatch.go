package segment

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// Dispatch runs process on every group using at most parallelism concurrent
// workers (runtime.NumCPU() if parallelism <= 0).  The i'th result belongs to
// groups[i].  process records its progress in the result it is given; an
// error or panic inside process is captured in that result and does not
// interrupt other groups.
func Dispatch(groups []Group, parallelism int, process func(g *Group, res *GroupResult)) []GroupResult {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	results := make([]GroupResult, len(groups))
	log.Printf("segment.Dispatch: processing %d group(s) with %d worker(s)", len(groups), parallelism)
	// The callback never returns an error, so neither does Each.
	_ = traverse.Limit(parallelism).Each(len(groups), func(i int) error {
		g := &groups[i]
		res := &results[i]
		res.Key = g.Key
		defer func() {
			if r := recover(); r != nil {
				res.Err = errors.E(fmt.Sprintf("%v: panic in state %v: %v", g.Key, res.State, r))
				log.Error.Printf("%v\n%s", res.Err, debug.Stack())
			}
		}()
		process(g, res)
		return nil
	})
	return results
}

// summarize logs per-state counts and failed groups, and returns the number of
// failed groups.
func summarize(results []GroupResult) int {
	var (
		counts  [len(stateNames)]int
		nFailed int
	)
	for i := range results {
		res := &results[i]
		if res.State >= 0 && int(res.State) < len(counts) {
			counts[res.State]++
		}
		if res.Err != nil {
			nFailed++
			log.Error.Printf("segment: %v failed: %v", res.Key, res.Err)
		}
	}
	log.Printf("segment: %d emitted, %d dropped, %d skipped, %d failed",
		counts[Emitted], counts[Dropped], counts[Skipped], nFailed)
	return nFailed
}
