package analysis

import (
	"github.com/berachain/berastats/internal/fetcher"
	"github.com/berachain/berastats/internal/stats"
)

// DelayOptions tune the delay & signature-impact report.
type DelayOptions struct {
	// MinSamples drops proposers with fewer adjacent pairs; defaults to 3.
	MinSamples int
	// Filter restricts the report to matching proposer addresses; nil
	// accepts everything.
	Filter func(address string) bool
	// Names may be nil.
	Names NameFunc
	// HistogramBuckets for the overall delay distribution; defaults to 10.
	HistogramBuckets int
}

const (
	defaultMinSamples       = 3
	defaultHistogramBuckets = 10
)

// DelayEntry is one proposer's finalized timing statistics.
type DelayEntry struct {
	Proposer string
	Name     string
	Delay    stats.Summary
	SigCount stats.Summary
}

// DelayReport is the delay & signature-impact report, sorted by descending
// mean delay.
type DelayReport struct {
	Entries []DelayEntry
	// Overall distribution across every adjacent pair, filter applied.
	AllDelays stats.Summary
	Histogram []stats.Bucket
	// Pairs counts the chronologically adjacent pairs observed.
	Pairs int
}

// Delays computes, for each chronologically adjacent pair (prev, next) in
// the fetched set, the block delay and the commit-signature count of next,
// attributing both samples to the proposer of prev. Pairs exist only where
// both heights were fetched; fetch order is irrelevant.
func Delays(result *fetcher.Result, opts DelayOptions) *DelayReport {
	if opts.MinSamples <= 0 {
		opts.MinSamples = defaultMinSamples
	}
	if opts.HistogramBuckets <= 0 {
		opts.HistogramBuckets = defaultHistogramBuckets
	}

	delays := stats.NewKeyed()
	sigCounts := stats.NewKeyed()
	var all stats.Accumulator
	pairs := 0

	for _, height := range result.SortedHeights() {
		prev, ok := result.Records[height-1]
		if !ok {
			continue
		}
		next := result.Records[height]
		if opts.Filter != nil && !opts.Filter(prev.ProposerAddress) {
			continue
		}

		delay := float64(next.TimestampMillis - prev.TimestampMillis)
		delays.Observe(prev.ProposerAddress, delay)
		sigCounts.Observe(prev.ProposerAddress, float64(len(next.CommitSignatures)))
		all.Add(delay)
		pairs++
	}

	report := &DelayReport{
		AllDelays: all.Finalize(),
		Histogram: stats.NewHistogram(all.Samples(), opts.HistogramBuckets),
		Pairs:     pairs,
	}
	for _, ks := range delays.Finalize(opts.MinSamples) {
		report.Entries = append(report.Entries, DelayEntry{
			Proposer: ks.Key,
			Name:     resolveName(opts.Names, ks.Key),
			Delay:    ks.Summary,
			SigCount: sigCounts.Get(ks.Key).Finalize(),
		})
	}
	return report
}
