// Package fetcher retrieves contiguous ranges of blocks through a bounded
// worker pool and normalizes the outcome into a height-addressable result
// set. A failed height never aborts a run; it is recorded and skipped.
package fetcher

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/berachain/berastats/internal/client"
	"github.com/berachain/berastats/internal/metrics"
	"github.com/berachain/berastats/internal/models"
)

// Direction controls the order heights are handed to the pool. Completion
// order is never guaranteed either way; desc merely biases early progress
// toward recent blocks.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Progress is invoked after every completed height, successful or failed.
// It must not affect control flow; it exists for the caller's display.
type Progress func(completed, total int, height uint64)

// Options tune one fetcher instance.
type Options struct {
	// Concurrency bounds the worker pool; defaults to 10.
	Concurrency int
	// Progress may be nil.
	Progress Progress
	// Metrics may be nil.
	Metrics *metrics.Metrics
}

const defaultConcurrency = 10

// Result is the outcome of one range fetch. Records is keyed by height so
// callers needing chronological adjacency can pair H with H-1 once both are
// present, regardless of completion order.
type Result struct {
	Records       map[uint64]*models.BlockRecord
	FailedHeights []uint64
}

// Requested returns how many heights the run asked for.
func (r *Result) Requested() int {
	return len(r.Records) + len(r.FailedHeights)
}

// SortedHeights returns the successfully fetched heights in ascending order.
func (r *Result) SortedHeights() []uint64 {
	heights := make([]uint64, 0, len(r.Records))
	for h := range r.Records {
		heights = append(heights, h)
	}
	sort.Slice(heights, func(i, j int) bool { return heights[i] < heights[j] })
	return heights
}

// Fetcher pools block fetches over a Source.
type Fetcher struct {
	source client.Source
	opts   Options
}

// New returns a fetcher over source.
func New(source client.Source, opts Options) *Fetcher {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return &Fetcher{source: source, opts: opts}
}

// FetchRange retrieves count blocks starting at start (moving up for
// Ascending, down for Descending). Workers pull heights from a shared queue;
// each height is claimed by exactly one worker, so the results map has a
// single writer per key. Cancellation is cooperative: workers stop pulling
// new heights once ctx is done and in-flight requests are allowed to finish.
func (f *Fetcher) FetchRange(ctx context.Context, start, count uint64, dir Direction) *Result {
	result := &Result{Records: make(map[uint64]*models.BlockRecord, count)}
	if count == 0 {
		return result
	}

	heights := make(chan uint64, count)
	for i := uint64(0); i < count; i++ {
		if dir == Descending {
			if start < i {
				break
			}
			heights <- start - i
		} else {
			heights <- start + i
		}
	}
	close(heights)
	total := len(heights)

	var mu sync.Mutex
	completed := 0

	var eg errgroup.Group
	for w := 0; w < f.opts.Concurrency; w++ {
		eg.Go(func() error {
			for height := range heights {
				if ctx.Err() != nil {
					slog.Info("Fetch cancelled, draining queue", "height", height)
					continue
				}

				record, err := f.source.BlockAt(ctx, height)

				mu.Lock()
				if err != nil {
					slog.Warn("Failed to fetch block", "height", height, "error", err)
					result.FailedHeights = append(result.FailedHeights, height)
					if f.opts.Metrics != nil {
						f.opts.Metrics.HeightsFailed.Inc()
					}
				} else {
					result.Records[height] = record
					if f.opts.Metrics != nil {
						f.opts.Metrics.BlocksFetched.Inc()
					}
				}
				completed++
				done := completed
				mu.Unlock()

				if f.opts.Progress != nil {
					f.opts.Progress(done, total, height)
				}
			}
			return nil
		})
	}
	_ = eg.Wait()

	sort.Slice(result.FailedHeights, func(i, j int) bool {
		return result.FailedHeights[i] < result.FailedHeights[j]
	})
	return result
}
