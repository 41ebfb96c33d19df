package analysis

import (
	"context"
	"sort"
	"strings"

	"github.com/berachain/berastats/internal/fetcher"
	"github.com/berachain/berastats/internal/models"
	"github.com/berachain/berastats/internal/rlp"
)

// knownClients are the execution-client families we recognize in decoded
// identity strings; anything else keeps its raw leading token.
var knownClients = []string{"geth", "reth", "nethermind", "erigon", "besu", "ethereumjs"}

// splitIdentity breaks a decoded identity string into a client family and a
// version. "reth v1.2.3" yields ("reth", "1.2.3"); free-form strings like
// "Nethermind/v1.25.4" yield the matched family with no version split unless
// the "name vX" shape is present.
func splitIdentity(identity string) (clientType, version string) {
	clientType = identity
	if idx := strings.LastIndex(identity, " v"); idx > 0 {
		clientType = identity[:idx]
		version = identity[idx+2:]
	}
	lower := strings.ToLower(clientType)
	for _, known := range knownClients {
		if strings.Contains(lower, known) {
			return known, version
		}
	}
	return clientType, version
}

// ClassifyOptions tune the voting-power-by-client scan.
type ClassifyOptions struct {
	// BlockBudget caps how many blocks the backward scan may consume;
	// defaults to 5000.
	BlockBudget int
	// Names may be nil.
	Names NameFunc
}

const defaultBlockBudget = 5000

// ClientPower sums voting power over one client family.
type ClientPower struct {
	Client     string
	Stake      float64
	Validators int
}

// ClientVersionPower sums voting power over one client+version pair.
type ClientVersionPower struct {
	Client  string
	Version string
	Stake   float64
}

// ClassificationReport is the voting-power-by-client report.
type ClassificationReport struct {
	ByClient        []ClientPower
	ByClientVersion []ClientVersionPower
	// Classified maps validator address to its first observed classification.
	Classified map[string]models.ClientClassification
	// Validators never observed as proposer within the budget.
	UnknownValidators []string
	UnknownStake      float64
	ScannedBlocks     int
}

// ClassifyClients scans blocks backward from the head until every validator
// in the set has been observed proposing (and its extra-data decoded) or the
// block budget runs out. Voting power is summed per client family and per
// family+version pair; unclassified validators are reported under "unknown".
func ClassifyClients(ctx context.Context, scanner *fetcher.Scanner, validators []models.ValidatorRecord, opts ClassifyOptions) *ClassificationReport {
	if opts.BlockBudget <= 0 {
		opts.BlockBudget = defaultBlockBudget
	}

	inSet := make(map[string]models.ValidatorRecord, len(validators))
	for _, v := range validators {
		inSet[v.Address] = v
	}

	report := &ClassificationReport{
		Classified: make(map[string]models.ClientClassification),
	}

	for report.ScannedBlocks < opts.BlockBudget && len(report.Classified) < len(inSet) {
		rec, ok := scanner.Next(ctx)
		if !ok {
			break
		}
		report.ScannedBlocks++

		proposer := rec.ProposerAddress
		if _, member := inSet[proposer]; !member {
			continue
		}
		if _, done := report.Classified[proposer]; done {
			continue
		}

		clientType, version := splitIdentity(rlp.ClientIdentity(rec.RawExtraData))
		report.Classified[proposer] = models.ClientClassification{
			ClientType:   clientType,
			Version:      version,
			SampleHeight: rec.Height,
		}
	}

	byClient := make(map[string]*ClientPower)
	byVersion := make(map[string]*ClientVersionPower)
	for _, v := range validators {
		cls, ok := report.Classified[v.Address]
		if !ok {
			report.UnknownValidators = append(report.UnknownValidators, v.Address)
			report.UnknownStake += v.Stake()
			continue
		}
		cp := byClient[cls.ClientType]
		if cp == nil {
			cp = &ClientPower{Client: cls.ClientType}
			byClient[cls.ClientType] = cp
		}
		cp.Stake += v.Stake()
		cp.Validators++

		key := cls.ClientType + "\x00" + cls.Version
		vp := byVersion[key]
		if vp == nil {
			vp = &ClientVersionPower{Client: cls.ClientType, Version: cls.Version}
			byVersion[key] = vp
		}
		vp.Stake += v.Stake()
	}

	for _, cp := range byClient {
		report.ByClient = append(report.ByClient, *cp)
	}
	sort.Slice(report.ByClient, func(i, j int) bool {
		if report.ByClient[i].Stake != report.ByClient[j].Stake {
			return report.ByClient[i].Stake > report.ByClient[j].Stake
		}
		return report.ByClient[i].Client < report.ByClient[j].Client
	})
	for _, vp := range byVersion {
		report.ByClientVersion = append(report.ByClientVersion, *vp)
	}
	sort.Slice(report.ByClientVersion, func(i, j int) bool {
		if report.ByClientVersion[i].Stake != report.ByClientVersion[j].Stake {
			return report.ByClientVersion[i].Stake > report.ByClientVersion[j].Stake
		}
		a, b := report.ByClientVersion[i], report.ByClientVersion[j]
		if a.Client != b.Client {
			return a.Client < b.Client
		}
		return a.Version < b.Version
	})
	sort.Strings(report.UnknownValidators)
	return report
}
