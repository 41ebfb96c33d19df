package models

// Commit-signature flag values, following the CometBFT BlockIDFlag
// enumeration. An entry with FlagAbsent means the validator's signature for
// the previous block never made it into this block's commit.
const (
	FlagUnknown = 0
	FlagAbsent  = 1
	FlagCommit  = 2
	FlagNil     = 3
)

// PowerDivisor converts raw CometBFT voting power into whole stake units
// (power is denominated in gwei on this chain).
const PowerDivisor = 1_000_000_000

// SignatureRecord is one entry of a block's last-commit list. ValidatorAddress
// may be empty for absent entries; the list position then identifies the
// validator within the set in effect at that height.
type SignatureRecord struct {
	ValidatorAddress string
	Flag             int
}

// Absent reports whether this commit entry records a missing signature.
func (s SignatureRecord) Absent() bool {
	return s.Flag == FlagAbsent
}

// BlockRecord is the canonical per-height record both remote layers normalize
// into. Consensus-layer fetches populate the proposer/commit fields,
// execution-layer fetches the extra-data/gas/fee fields; a paired fetch
// populates both. Immutable once built, never persisted.
type BlockRecord struct {
	Height          uint64
	ProposerAddress string
	TimestampMillis int64

	// Consensus layer.
	CommitSignatures []SignatureRecord

	// Execution layer.
	RawExtraData     []byte
	TransactionCount int
	GasUsed          uint64
	BaseFeePerGas    uint64
	Receipts         []ReceiptRecord
}

// ReceiptRecord holds the per-transaction fee detail used by the fee
// histogram mode.
type ReceiptRecord struct {
	GasUsed           uint64
	EffectiveGasPrice uint64
}

// ValidatorRecord is one member of the validator set at some height.
type ValidatorRecord struct {
	Address     string
	VotingPower uint64
	Name        string
}

// Stake returns the voting power in whole stake units.
func (v ValidatorRecord) Stake() float64 {
	return float64(v.VotingPower) / PowerDivisor
}

// ClientClassification records the client software a proposer was first
// observed running, and at which height.
type ClientClassification struct {
	ClientType   string
	Version      string
	SampleHeight uint64
}

// UpgradeEvent records a proposer switching client software. Height and
// TimestampMillis are taken from the earliest block known to run the new
// client.
type UpgradeEvent struct {
	ValidatorAddress string
	FromClient       string
	ToClient         string
	Height           uint64
	TimestampMillis  int64
}
