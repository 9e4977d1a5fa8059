package ranking

import (
	"math"

	"github.com/jonathan/talent-match/internal/types"
)

// DefaultBins is the number of histogram buckets shown for match rates
const DefaultBins = 15

// Histogram buckets the match rates into equal-width bins spanning the
// observed minimum and maximum. The last bin includes the maximum. Results
// without a finite rate are ignored. When all rates are equal a single bin holds
// every value. Returns nil when there is nothing to count.
func Histogram(results []types.MatchResult, bins int) []types.HistogramBin {
	if bins <= 0 {
		bins = DefaultBins
	}

	var (
		lo, hi float64
		count  int
	)
	for _, r := range results {
		if !binnable(r) {
			continue
		}
		if count == 0 || r.MatchRate < lo {
			lo = r.MatchRate
		}
		if count == 0 || r.MatchRate > hi {
			hi = r.MatchRate
		}
		count++
	}
	if count == 0 {
		return nil
	}

	if lo == hi {
		return []types.HistogramBin{{Lower: lo - 0.5, Upper: hi + 0.5, Count: count}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]types.HistogramBin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi

	for _, r := range results {
		if !binnable(r) {
			continue
		}
		idx := int((r.MatchRate - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}

	return out
}

func binnable(r types.MatchResult) bool {
	return r.HasRate && !math.IsNaN(r.MatchRate) && !math.IsInf(r.MatchRate, 0)
}

// MaxCount returns the tallest bin's count
func MaxCount(bins []types.HistogramBin) int {
	peak := 0
	for _, b := range bins {
		if b.Count > peak {
			peak = b.Count
		}
	}
	return peak
}
