package stats

// Bucket is one uniform-width histogram bucket. Low is inclusive; High is
// exclusive except for the last bucket, which includes the sample maximum.
type Bucket struct {
	Low   float64
	High  float64
	Count int
}

// NewHistogram buckets samples into bucketCount uniform-width buckets
// spanning [min, max]. When all samples are equal a single degenerate bucket
// is returned. Empty input yields a nil histogram.
func NewHistogram(samples []float64, bucketCount int) []Bucket {
	if len(samples) == 0 || bucketCount <= 0 {
		return nil
	}

	min, max := samples[0], samples[0]
	for _, v := range samples[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if min == max {
		return []Bucket{{Low: min, High: max, Count: len(samples)}}
	}

	width := (max - min) / float64(bucketCount)
	buckets := make([]Bucket, bucketCount)
	for i := range buckets {
		buckets[i].Low = min + float64(i)*width
		buckets[i].High = min + float64(i+1)*width
	}
	buckets[bucketCount-1].High = max

	for _, v := range samples {
		idx := int((v - min) / width)
		if idx >= bucketCount {
			idx = bucketCount - 1
		}
		buckets[idx].Count++
	}
	return buckets
}
