package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHistogram(t *testing.T) {
	t.Run("uniform buckets span min to max", func(t *testing.T) {
		buckets := NewHistogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}, 5)
		require.Len(t, buckets, 5)

		assert.Equal(t, 0.0, buckets[0].Low)
		assert.Equal(t, 2.0, buckets[0].High)
		assert.Equal(t, 10.0, buckets[4].High)

		// width 2: [0,2)=2, [2,4)=2, [4,6)=2, [6,8)=2, [8,10]=2
		total := 0
		for _, b := range buckets {
			assert.Equal(t, 2, b.Count)
			total += b.Count
		}
		assert.Equal(t, 10, total)
	})

	t.Run("max lands in last bucket", func(t *testing.T) {
		buckets := NewHistogram([]float64{0, 10}, 4)
		require.Len(t, buckets, 4)
		assert.Equal(t, 1, buckets[0].Count)
		assert.Equal(t, 1, buckets[3].Count)
	})

	t.Run("degenerate single bucket when all samples equal", func(t *testing.T) {
		buckets := NewHistogram([]float64{7, 7, 7}, 10)
		require.Len(t, buckets, 1)
		assert.Equal(t, Bucket{Low: 7, High: 7, Count: 3}, buckets[0])
	})

	t.Run("empty samples", func(t *testing.T) {
		assert.Nil(t, NewHistogram(nil, 5))
	})

	t.Run("zero bucket count", func(t *testing.T) {
		assert.Nil(t, NewHistogram([]float64{1, 2}, 0))
	})
}
