package analysis

import (
	"context"
	"sort"

	"github.com/berachain/berastats/internal/fetcher"
	"github.com/berachain/berastats/internal/models"
	"github.com/berachain/berastats/internal/rlp"
)

// UpgradeOptions tune the client-upgrade scan.
type UpgradeOptions struct {
	// BlockBudget caps the backward scan; defaults to 5000.
	BlockBudget int
	// Names may be nil.
	Names NameFunc
}

// UpgradeReport lists the client switches discovered within the budget.
type UpgradeReport struct {
	// Events sorted by ascending height.
	Events []models.UpgradeEvent
	// Unchanged lists set members with no recorded upgrade, sorted.
	Unchanged     []string
	ScannedBlocks int
}

// observation is the oldest block seen so far running a validator's current
// client string.
type observation struct {
	client    string
	height    uint64
	timestamp int64
}

// TrackUpgrades scans backward like ClassifyClients but does not stop at a
// validator's first classification: when an older block shows the same
// validator proposing with a different client string, an upgrade event is
// recorded from that older client to the newer one, stamped with the oldest
// block already known to run the newer client. The scan ends once every
// validator has at least one upgrade or the budget is exhausted.
func TrackUpgrades(ctx context.Context, scanner *fetcher.Scanner, validators []models.ValidatorRecord, opts UpgradeOptions) *UpgradeReport {
	if opts.BlockBudget <= 0 {
		opts.BlockBudget = defaultBlockBudget
	}

	inSet := make(map[string]bool, len(validators))
	for _, v := range validators {
		inSet[v.Address] = true
	}

	current := make(map[string]*observation)
	upgraded := make(map[string]bool)
	report := &UpgradeReport{}

	for report.ScannedBlocks < opts.BlockBudget && len(upgraded) < len(inSet) {
		rec, ok := scanner.Next(ctx)
		if !ok {
			break
		}
		report.ScannedBlocks++

		proposer := rec.ProposerAddress
		if !inSet[proposer] {
			continue
		}

		identity := rlp.ClientIdentity(rec.RawExtraData)
		obs := current[proposer]
		switch {
		case obs == nil:
			current[proposer] = &observation{client: identity, height: rec.Height, timestamp: rec.TimestampMillis}
		case obs.client == identity:
			// Same client further back: push the known-since point down.
			obs.height = rec.Height
			obs.timestamp = rec.TimestampMillis
		default:
			report.Events = append(report.Events, models.UpgradeEvent{
				ValidatorAddress: proposer,
				FromClient:       identity,
				ToClient:         obs.client,
				Height:           obs.height,
				TimestampMillis:  obs.timestamp,
			})
			upgraded[proposer] = true
			current[proposer] = &observation{client: identity, height: rec.Height, timestamp: rec.TimestampMillis}
		}
	}

	sort.Slice(report.Events, func(i, j int) bool {
		return report.Events[i].Height < report.Events[j].Height
	})
	for _, v := range validators {
		if !upgraded[v.Address] {
			report.Unchanged = append(report.Unchanged, v.Address)
		}
	}
	sort.Strings(report.Unchanged)
	return report
}
