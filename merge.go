package semchunk

import (
	"sort"
	"strings"
)

// defaultTokensPerChar is the initial guess for the merge search, equivalent
// to five characters per token.
const defaultTokensPerChar = 0.2

// mergeSegments finds the largest run of segments starting at start whose
// joined text stays within chunkSize tokens, returning the exclusive end
// index of the run along with the joined text.
//
// Token counting is assumed to dominate the cost of chunking, so instead of
// growing the candidate one segment at a time this performs a bisection over
// the candidate end index. The probe position is chosen by locating, in the
// cumulative character lengths cum (cum[i] is the total length of
// segments[:i]), the index closest to chunkSize divided by the running
// tokens-per-character estimate. The estimate only steers probe selection;
// the integer low/high bounds alone guarantee convergence on the boundary.
//
// The caller must ensure segments[start] fits within chunkSize on its own;
// oversized segments are recursed into rather than merged.
func mergeSegments(segments []string, start int, cum []int, chunkSize int, splitter string, counter TokenCounter) (end int, merged string) {
	n := len(segments) - start
	average := defaultTokensPerChar

	// Local cumulative length of segments[start : start+k], clamped past the
	// end so the search window may extend one slot beyond the last segment.
	local := func(k int) int {
		if k > n {
			k = n
		}
		return cum[start+k] - cum[start]
	}

	low, high := 0, n+1
	for low < high {
		target := float64(chunkSize) / average
		window := min(high+1, n+2) - low
		i := sort.Search(window, func(j int) bool {
			return float64(local(low+j)) >= target
		})
		midpoint := min(i+low, high-1)

		tokens := counter.Count(strings.Join(segments[start:start+midpoint], splitter))
		if chars := local(midpoint); chars > 0 && tokens > 0 {
			average = float64(tokens) / float64(chars)
		}

		if tokens > chunkSize {
			high = midpoint
		} else {
			low = midpoint + 1
		}
	}

	end = start + low - 1
	return end, strings.Join(segments[start:end], splitter)
}
