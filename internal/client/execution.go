package client

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/berachain/berastats/internal/metrics"
	"github.com/berachain/berastats/internal/models"
)

// Execution talks JSON-RPC to the execution-layer endpoint.
type Execution struct {
	http    *resty.Client
	metrics *metrics.Metrics

	// WithReceipts toggles the per-transaction receipt sub-fetch on BlockAt.
	withReceipts bool
}

// NewExecution returns an execution-layer client. maxAttempts <= 0 selects
// the default retry policy.
func NewExecution(endpoint string, maxAttempts int, m *metrics.Metrics) *Execution {
	return &Execution{
		http:    newHTTP(endpoint, maxAttempts, m),
		metrics: m,
	}
}

// WithReceipts returns a copy of the client whose BlockAt also fetches every
// transaction receipt, with a bounded inner fan-out.
func (e *Execution) WithReceipts() *Execution {
	clone := *e
	clone.withReceipts = true
	return &clone
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (e *Execution) call(ctx context.Context, method string, params []any, out any) error {
	var envelope rpcResponse
	resp, err := e.http.R().
		SetContext(ctx).
		SetBody(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1}).
		SetResult(&envelope).
		Post("/")
	if err != nil {
		return errors.Wrapf(err, "%s request failed", method)
	}
	if resp.IsError() {
		return fmt.Errorf("%s returned HTTP %d", method, resp.StatusCode())
	}
	if envelope.Error != nil {
		return fmt.Errorf("%s: rpc error %d: %s", method, envelope.Error.Code, envelope.Error.Message)
	}
	if string(envelope.Result) == "null" || len(envelope.Result) == 0 {
		return fmt.Errorf("%s: empty result", method)
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return errors.Wrapf(err, "%s: decoding result", method)
	}
	return nil
}

// LatestHeight queries eth_blockNumber.
func (e *Execution) LatestHeight(ctx context.Context) (uint64, error) {
	var raw string
	if err := e.call(ctx, "eth_blockNumber", []any{}, &raw); err != nil {
		return 0, err
	}
	height, err := parseHexUint(raw)
	if err != nil {
		return 0, errors.WithMessage(err, "error parsing block number")
	}
	return height, nil
}

type elBlock struct {
	Number        string   `json:"number"`
	Miner         string   `json:"miner"`
	Timestamp     string   `json:"timestamp"`
	ExtraData     string   `json:"extraData"`
	GasUsed       string   `json:"gasUsed"`
	BaseFeePerGas string   `json:"baseFeePerGas"`
	Transactions  []string `json:"transactions"`
}

// BlockAt fetches one execution-layer block and normalizes it. Receipts are
// included only for clients built via WithReceipts.
func (e *Execution) BlockAt(ctx context.Context, height uint64) (*models.BlockRecord, error) {
	var blk elBlock
	params := []any{fmt.Sprintf("0x%x", height), false}
	if err := e.call(ctx, "eth_getBlockByNumber", params, &blk); err != nil {
		return nil, err
	}

	record := &models.BlockRecord{
		Height:           height,
		ProposerAddress:  blk.Miner,
		TransactionCount: len(blk.Transactions),
	}

	ts, err := parseHexUint(blk.Timestamp)
	if err != nil {
		return nil, errors.WithMessage(err, "error parsing block timestamp")
	}
	record.TimestampMillis = int64(ts) * 1000

	if record.GasUsed, err = parseHexUint(blk.GasUsed); err != nil {
		return nil, errors.WithMessage(err, "error parsing gasUsed")
	}
	if record.BaseFeePerGas, err = parseHexUint(blk.BaseFeePerGas); err != nil {
		return nil, errors.WithMessage(err, "error parsing baseFeePerGas")
	}

	extra := strings.TrimPrefix(blk.ExtraData, "0x")
	if extra != "" {
		if record.RawExtraData, err = hex.DecodeString(extra); err != nil {
			return nil, errors.WithMessage(err, "error decoding extraData")
		}
	}

	if e.withReceipts && len(blk.Transactions) > 0 {
		if record.Receipts, err = e.fetchReceipts(ctx, blk.Transactions); err != nil {
			return nil, err
		}
	}

	return record, nil
}

type elReceipt struct {
	GasUsed           string `json:"gasUsed"`
	EffectiveGasPrice string `json:"effectiveGasPrice"`
}

// TransactionReceipt fetches gas and effective-price detail for one hash.
func (e *Execution) TransactionReceipt(ctx context.Context, hash string) (models.ReceiptRecord, error) {
	var rcpt elReceipt
	if err := e.call(ctx, "eth_getTransactionReceipt", []any{hash}, &rcpt); err != nil {
		return models.ReceiptRecord{}, err
	}

	var out models.ReceiptRecord
	var err error
	if out.GasUsed, err = parseHexUint(rcpt.GasUsed); err != nil {
		return models.ReceiptRecord{}, errors.WithMessage(err, "error parsing receipt gasUsed")
	}
	if out.EffectiveGasPrice, err = parseHexUint(rcpt.EffectiveGasPrice); err != nil {
		return models.ReceiptRecord{}, errors.WithMessage(err, "error parsing effectiveGasPrice")
	}
	if e.metrics != nil {
		e.metrics.ReceiptsFetched.Inc()
	}
	return out, nil
}

// fetchReceipts fans out over the block's transactions with a bounded inner
// concurrency so one large block cannot starve the outer worker pool.
func (e *Execution) fetchReceipts(ctx context.Context, hashes []string) ([]models.ReceiptRecord, error) {
	receipts := make([]models.ReceiptRecord, len(hashes))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(receiptFanout)

	for i, hash := range hashes {
		i, hash := i, hash
		eg.Go(func() error {
			rcpt, err := e.TransactionReceipt(ctx, hash)
			if err != nil {
				return errors.WithMessagef(err, "receipt %s", hash)
			}
			receipts[i] = rcpt
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return receipts, nil
}
