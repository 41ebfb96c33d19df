package client

import (
	"context"

	"github.com/berachain/berastats/internal/models"
)

// Paired merges a consensus-layer and an execution-layer record for the same
// height into one BlockRecord. The consensus header supplies proposer,
// timestamp and commit signatures; the execution block supplies extra-data,
// gas and fee fields.
type Paired struct {
	Cons *Consensus
	Exec *Execution
}

// NewPaired returns a source fetching both layers per height.
func NewPaired(cons *Consensus, exec *Execution) *Paired {
	return &Paired{Cons: cons, Exec: exec}
}

func (p *Paired) BlockAt(ctx context.Context, height uint64) (*models.BlockRecord, error) {
	cl, err := p.Cons.BlockAt(ctx, height)
	if err != nil {
		return nil, err
	}
	el, err := p.Exec.BlockAt(ctx, height)
	if err != nil {
		return nil, err
	}

	cl.RawExtraData = el.RawExtraData
	cl.TransactionCount = el.TransactionCount
	cl.GasUsed = el.GasUsed
	cl.BaseFeePerGas = el.BaseFeePerGas
	cl.Receipts = el.Receipts
	return cl, nil
}
