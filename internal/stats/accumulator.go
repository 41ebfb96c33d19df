// Package stats provides the sample accumulator, keyed accumulator and
// histogram primitives shared by every analysis mode.
package stats

import (
	"math"
	"sort"
)

// Accumulator collects raw samples until Finalize is called. Samples are kept
// as-is; all descriptive statistics are computed once, at report time.
type Accumulator struct {
	samples []float64
}

// Add appends one sample.
func (a *Accumulator) Add(v float64) {
	a.samples = append(a.samples, v)
}

// Count returns the number of samples collected so far.
func (a *Accumulator) Count() int {
	return len(a.samples)
}

// Samples returns the raw samples, e.g. for histogram bucketing.
func (a *Accumulator) Samples() []float64 {
	return a.samples
}

// Summary holds the finalized descriptive statistics of one accumulator.
type Summary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	Median float64

	sorted []float64
}

// Finalize computes the summary over all collected samples. An empty
// accumulator finalizes to a zero Summary.
func (a *Accumulator) Finalize() Summary {
	n := len(a.samples)
	if n == 0 {
		return Summary{}
	}

	sorted := make([]float64, n)
	copy(sorted, a.samples)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	var sqDiff float64
	for _, v := range sorted {
		d := v - mean
		sqDiff += d * d
	}

	var median float64
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return Summary{
		Count:  n,
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   mean,
		StdDev: math.Sqrt(sqDiff / float64(n)),
		Median: median,
		sorted: sorted,
	}
}

// Percentile returns the p-th percentile by the nearest-rank method:
// index = ceil(p/100 * n) - 1, clamped to [0, n-1].
func (s Summary) Percentile(p float64) float64 {
	n := len(s.sorted)
	if n == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return s.sorted[idx]
}
