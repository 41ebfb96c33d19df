package stats

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalize(t *testing.T) {
	cases := []struct {
		name    string
		samples []float64
		want    Summary
	}{
		{
			name:    "empty",
			samples: nil,
			want:    Summary{},
		},
		{
			name:    "single sample",
			samples: []float64{42},
			want:    Summary{Count: 1, Min: 42, Max: 42, Mean: 42, StdDev: 0, Median: 42},
		},
		{
			name:    "odd length median is middle element",
			samples: []float64{5, 1, 3},
			want:    Summary{Count: 3, Min: 1, Max: 5, Mean: 3, StdDev: 1.632993161855452, Median: 3},
		},
		{
			name:    "even length median averages middle pair",
			samples: []float64{4, 1, 3, 2},
			want:    Summary{Count: 4, Min: 1, Max: 4, Mean: 2.5, StdDev: 1.118033988749895, Median: 2.5},
		},
		{
			name:    "population stddev",
			samples: []float64{2, 4, 4, 4, 5, 5, 7, 9},
			want:    Summary{Count: 8, Min: 2, Max: 9, Mean: 5, StdDev: 2, Median: 4.5},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var acc Accumulator
			for _, v := range tc.samples {
				acc.Add(v)
			}
			got := acc.Finalize()
			assert.Equal(t, tc.want.Count, got.Count)
			assert.Equal(t, tc.want.Min, got.Min)
			assert.Equal(t, tc.want.Max, got.Max)
			assert.InDelta(t, tc.want.Mean, got.Mean, 1e-9)
			assert.InDelta(t, tc.want.StdDev, got.StdDev, 1e-9)
			assert.InDelta(t, tc.want.Median, got.Median, 1e-9)
		})
	}
}

func TestPercentileNearestRank(t *testing.T) {
	var acc Accumulator
	for i := 1; i <= 10; i++ {
		acc.Add(float64(i))
	}
	s := acc.Finalize()

	// ceil(p/100 * 10) - 1
	assert.Equal(t, 3.0, s.Percentile(25))
	assert.Equal(t, 5.0, s.Percentile(50))
	assert.Equal(t, 8.0, s.Percentile(75))
	assert.Equal(t, 9.0, s.Percentile(90))
	assert.Equal(t, 10.0, s.Percentile(99))
	assert.Equal(t, 1.0, s.Percentile(0))
	assert.Equal(t, 10.0, s.Percentile(100))
}

func TestPercentileMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		var acc Accumulator
		n := 1 + rng.Intn(200)
		for i := 0; i < n; i++ {
			acc.Add(rng.Float64() * 1000)
		}
		s := acc.Finalize()

		ps := []float64{25, 50, 75, 90, 99}
		for i := 1; i < len(ps); i++ {
			assert.LessOrEqual(t, s.Percentile(ps[i-1]), s.Percentile(ps[i]),
				"p%v > p%v with n=%d", ps[i-1], ps[i], n)
		}
	}
}

func TestKeyedMinSampleGating(t *testing.T) {
	k := NewKeyed()
	k.Observe("two", 1)
	k.Observe("two", 2)
	k.Observe("three", 10)
	k.Observe("three", 20)
	k.Observe("three", 30)

	out := k.Finalize(3)
	require.Len(t, out, 1)
	assert.Equal(t, "three", out[0].Key)
	assert.Equal(t, 3, out[0].Summary.Count)
	assert.InDelta(t, 20.0, out[0].Summary.Mean, 1e-9)
	assert.InDelta(t, 20.0, out[0].Summary.Median, 1e-9)
}

func TestKeyedSortedByDescendingMean(t *testing.T) {
	k := NewKeyed()
	for _, v := range []float64{1, 1, 1} {
		k.Observe("slowest", v*100)
		k.Observe("middle", v*10)
		k.Observe("fastest", v)
	}

	out := k.Finalize(1)
	require.Len(t, out, 3)
	assert.Equal(t, "slowest", out[0].Key)
	assert.Equal(t, "middle", out[1].Key)
	assert.Equal(t, "fastest", out[2].Key)
}
