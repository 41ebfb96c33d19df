package fetcher

import (
	"context"

	"github.com/berachain/berastats/internal/models"
)

// Scanner walks the chain backward from a head height, fetching in batches
// through the pool and handing out records one at a time, newest first.
// Consumers stop pulling once their completion predicate holds; the scanner
// never fetches past the last pulled batch.
type Scanner struct {
	fetcher   *Fetcher
	next      uint64 // highest height of the next batch
	floor     uint64
	batchSize uint64
	exhausted bool
	buf       []*models.BlockRecord
}

const defaultBatchSize = 50

// NewScanner returns a backward scanner from head down to floor (inclusive).
func NewScanner(f *Fetcher, head, floor, batchSize uint64) *Scanner {
	if batchSize == 0 {
		batchSize = defaultBatchSize
	}
	if floor == 0 {
		floor = 1
	}
	return &Scanner{fetcher: f, next: head, floor: floor, batchSize: batchSize, exhausted: head < floor}
}

// Next returns the next record going backward, or false once the scan has
// passed the floor or ctx was cancelled. Heights that failed to fetch are
// skipped.
func (s *Scanner) Next(ctx context.Context) (*models.BlockRecord, bool) {
	for len(s.buf) == 0 {
		if s.exhausted || ctx.Err() != nil {
			return nil, false
		}

		remaining := s.next - s.floor + 1
		count := s.batchSize
		if remaining <= count {
			count = remaining
			s.exhausted = true
		}
		result := s.fetcher.FetchRange(ctx, s.next, count, Descending)
		s.next -= count

		// Highest first within the batch.
		heights := result.SortedHeights()
		for i := len(heights) - 1; i >= 0; i-- {
			s.buf = append(s.buf, result.Records[heights[i]])
		}
	}

	rec := s.buf[0]
	s.buf = s.buf[1:]
	return rec, true
}
