package analysis

import (
	"context"
	"log/slog"
	"sort"

	"github.com/berachain/berastats/internal/fetcher"
	"github.com/berachain/berastats/internal/models"
	"github.com/berachain/berastats/internal/stats"
)

// PowerSource supplies voting-power snapshots for absence attribution.
// *client.Consensus satisfies it.
type PowerSource interface {
	Validators(ctx context.Context, height uint64) ([]models.ValidatorRecord, error)
}

// AbsenceOptions tune the missing-validator report.
type AbsenceOptions struct {
	// MinBlocks drops proposers attributed fewer blocks; defaults to 3.
	MinBlocks int
	// MinOpportunities drops validators with fewer signing opportunities;
	// defaults to 10.
	MinOpportunities int
	// SnapshotEvery refreshes the voting-power snapshot every N processed
	// blocks instead of per block; defaults to 500.
	SnapshotEvery int
	// Names may be nil.
	Names NameFunc
}

const (
	defaultMinOpportunities = 10
	defaultSnapshotEvery    = 500
)

// ProposerAbsence groups absences by the proposer they are attributed to.
type ProposerAbsence struct {
	Proposer string
	Name     string
	// AbsentSignatures and AbsentStake summarize the per-block absent
	// signature count and absent stake sum attributed to this proposer.
	AbsentSignatures stats.Summary
	AbsentStake      stats.Summary
}

// ValidatorAbsence tracks one validator's own absence rate.
type ValidatorAbsence struct {
	Validator     string
	Name          string
	Opportunities int
	Absences      int
	Rate          float64
}

// AbsenceReport holds both groupings of the same commit scan.
type AbsenceReport struct {
	Unlucky   []ProposerAbsence
	Absentees []ValidatorAbsence
	// Blocks counts the blocks whose commits were attributed.
	Blocks int
}

// Absences classifies every commit signature of each fetched block N
// (excluding the earliest) and attributes absences to the proposer of block
// N-1: the commit list in block N attests to block N-1, never to N itself.
// Voting-power snapshots come from powers, refreshed periodically; a nil or
// failing source degrades to counting signatures without stake sums.
func Absences(ctx context.Context, result *fetcher.Result, powers PowerSource, opts AbsenceOptions) *AbsenceReport {
	if opts.MinBlocks <= 0 {
		opts.MinBlocks = defaultMinSamples
	}
	if opts.MinOpportunities <= 0 {
		opts.MinOpportunities = defaultMinOpportunities
	}
	if opts.SnapshotEvery <= 0 {
		opts.SnapshotEvery = defaultSnapshotEvery
	}

	absentCounts := stats.NewKeyed()
	absentStake := stats.NewKeyed()
	type tally struct{ opportunities, absences int }
	tallies := make(map[string]*tally)

	var snapshot []models.ValidatorRecord
	var stakeByAddr map[string]float64
	processed := 0
	blocks := 0

	heights := result.SortedHeights()
	for i, height := range heights {
		if i == 0 {
			continue // earliest block: its commit attests outside the range
		}
		prev, ok := result.Records[height-1]
		if !ok {
			continue
		}
		next := result.Records[height]

		if powers != nil && processed%opts.SnapshotEvery == 0 {
			fresh, err := powers.Validators(ctx, height)
			if err != nil {
				slog.Warn("Failed to refresh voting-power snapshot", "height", height, "error", err)
			} else {
				snapshot = fresh
				stakeByAddr = make(map[string]float64, len(fresh))
				for _, v := range fresh {
					stakeByAddr[v.Address] = v.Stake()
				}
			}
		}
		processed++

		count := 0
		stake := 0.0
		for pos, sig := range next.CommitSignatures {
			addr := sig.ValidatorAddress
			if addr == "" && pos < len(snapshot) {
				// Absent entries omit the address; the list position
				// identifies the validator within the set.
				addr = snapshot[pos].Address
			}
			if addr != "" {
				tl := tallies[addr]
				if tl == nil {
					tl = &tally{}
					tallies[addr] = tl
				}
				tl.opportunities++
				if sig.Absent() {
					tl.absences++
				}
			}
			if sig.Absent() {
				count++
				if s, ok := stakeByAddr[addr]; ok {
					stake += s
				}
			}
		}

		absentCounts.Observe(prev.ProposerAddress, float64(count))
		absentStake.Observe(prev.ProposerAddress, stake)
		blocks++
	}

	report := &AbsenceReport{Blocks: blocks}
	for _, ks := range absentCounts.Finalize(opts.MinBlocks) {
		report.Unlucky = append(report.Unlucky, ProposerAbsence{
			Proposer:         ks.Key,
			Name:             resolveName(opts.Names, ks.Key),
			AbsentSignatures: ks.Summary,
			AbsentStake:      absentStake.Get(ks.Key).Finalize(),
		})
	}
	for addr, tl := range tallies {
		if tl.opportunities < opts.MinOpportunities {
			continue
		}
		report.Absentees = append(report.Absentees, ValidatorAbsence{
			Validator:     addr,
			Name:          resolveName(opts.Names, addr),
			Opportunities: tl.opportunities,
			Absences:      tl.absences,
			Rate:          float64(tl.absences) / float64(tl.opportunities),
		})
	}
	sort.Slice(report.Absentees, func(i, j int) bool {
		if report.Absentees[i].Rate != report.Absentees[j].Rate {
			return report.Absentees[i].Rate > report.Absentees[j].Rate
		}
		return report.Absentees[i].Validator < report.Absentees[j].Validator
	})
	return report
}
