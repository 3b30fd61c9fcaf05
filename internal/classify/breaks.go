// Package classify bins two numeric series into a k-by-k bivariate class grid
// and maps each class pair to a palette color.
package classify

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
)

// Breaks computes k-1 quantile break points for a series using linear
// interpolation between order statistics. For k=3 the breaks sit at the
// 33.33rd and 66.67th percentiles, which keeps tertile assignments stable
// for skewed distributions.
func Breaks(values []float64, k int) ([]float64, error) {
	if k < 2 {
		return nil, eris.Errorf("classify: class count must be >= 2, got %d", k)
	}
	if len(values) == 0 {
		return nil, eris.New("classify: cannot compute breaks for an empty series")
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, eris.Errorf("classify: non-finite value at index %d", i)
		}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	breaks := make([]float64, 0, k-1)
	for i := 1; i < k; i++ {
		p := float64(i) / float64(k)
		breaks = append(breaks, percentile(sorted, p))
	}
	return breaks, nil
}

// percentile interpolates the p-quantile (p in [0,1]) of a sorted series.
// Uses the same linear method as numpy.percentile.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := p * float64(n-1)
	lo := int(math.Floor(rank))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Bin assigns a value to a bin index in [0, len(breaks)]. The upper bound of
// each bin is inclusive: a value exactly on a break point goes to the lower
// bin. Every finite value lands in exactly one bin.
func Bin(v float64, breaks []float64) int {
	for i, b := range breaks {
		if v <= b {
			return i
		}
	}
	return len(breaks)
}
