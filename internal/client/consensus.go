package client

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/berachain/berastats/internal/metrics"
	"github.com/berachain/berastats/internal/models"
)

// Consensus talks to the consensus-layer REST endpoint (CometBFT RPC).
type Consensus struct {
	http *resty.Client
}

// NewConsensus returns a consensus-layer client. maxAttempts <= 0 selects
// the default retry policy.
func NewConsensus(endpoint string, maxAttempts int, m *metrics.Metrics) *Consensus {
	return &Consensus{http: newHTTP(endpoint, maxAttempts, m)}
}

type restError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

type restEnvelope struct {
	Result json.RawMessage `json:"result"`
	Error  *restError      `json:"error"`
}

func (c *Consensus) get(ctx context.Context, path string, query map[string]string, out any) error {
	var envelope restEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(&envelope).
		SetError(&envelope).
		Get(path)
	if err != nil {
		return errors.Wrapf(err, "%s request failed", path)
	}
	if envelope.Error != nil {
		return fmt.Errorf("%s: %s: %s", path, envelope.Error.Message, envelope.Error.Data)
	}
	if resp.IsError() {
		return fmt.Errorf("%s returned HTTP %d", path, resp.StatusCode())
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return errors.Wrapf(err, "%s: decoding result", path)
	}
	return nil
}

type statusResult struct {
	SyncInfo struct {
		LatestBlockHeight string `json:"latest_block_height"`
		CatchingUp        bool   `json:"catching_up"`
	} `json:"sync_info"`
}

// NodeStatus is the subset of /status the analyses need.
type NodeStatus struct {
	LatestHeight uint64
	CatchingUp   bool
}

// Status queries the node's sync state.
func (c *Consensus) Status(ctx context.Context) (NodeStatus, error) {
	var res statusResult
	if err := c.get(ctx, "/status", nil, &res); err != nil {
		return NodeStatus{}, err
	}
	height, err := strconv.ParseUint(res.SyncInfo.LatestBlockHeight, 10, 64)
	if err != nil {
		return NodeStatus{}, errors.WithMessage(err, "error parsing height")
	}
	return NodeStatus{LatestHeight: height, CatchingUp: res.SyncInfo.CatchingUp}, nil
}

// LatestHeight is a convenience shorthand over Status.
func (c *Consensus) LatestHeight(ctx context.Context) (uint64, error) {
	status, err := c.Status(ctx)
	if err != nil {
		return 0, err
	}
	return status.LatestHeight, nil
}

type validatorsResult struct {
	Validators []struct {
		Address     string `json:"address"`
		VotingPower string `json:"voting_power"`
	} `json:"validators"`
	Total string `json:"total"`
}

// Validators returns the validator set in effect at height, following the
// endpoint's pagination until the reported total is reached. height 0 means
// the current set.
func (c *Consensus) Validators(ctx context.Context, height uint64) ([]models.ValidatorRecord, error) {
	var out []models.ValidatorRecord
	for page := 1; ; page++ {
		query := map[string]string{
			"page":     strconv.Itoa(page),
			"per_page": strconv.Itoa(validatorPerPage),
		}
		if height > 0 {
			query["height"] = strconv.FormatUint(height, 10)
		}

		var res validatorsResult
		if err := c.get(ctx, "/validators", query, &res); err != nil {
			return nil, err
		}
		for _, v := range res.Validators {
			power, err := strconv.ParseUint(v.VotingPower, 10, 64)
			if err != nil {
				return nil, errors.WithMessagef(err, "error parsing voting power of %s", v.Address)
			}
			out = append(out, models.ValidatorRecord{Address: v.Address, VotingPower: power})
		}

		total, err := strconv.Atoi(res.Total)
		if err != nil || len(out) >= total || len(res.Validators) == 0 {
			return out, nil
		}
	}
}

type blockResult struct {
	Block struct {
		Header struct {
			Height          string    `json:"height"`
			Time            time.Time `json:"time"`
			ProposerAddress string    `json:"proposer_address"`
		} `json:"header"`
		LastCommit struct {
			Signatures []struct {
				BlockIDFlag      int    `json:"block_id_flag"`
				ValidatorAddress string `json:"validator_address"`
			} `json:"signatures"`
		} `json:"last_commit"`
	} `json:"block"`
}

// BlockAt fetches one consensus-layer block and normalizes it.
func (c *Consensus) BlockAt(ctx context.Context, height uint64) (*models.BlockRecord, error) {
	var res blockResult
	query := map[string]string{"height": strconv.FormatUint(height, 10)}
	if err := c.get(ctx, "/block", query, &res); err != nil {
		return nil, err
	}

	record := &models.BlockRecord{
		Height:          height,
		ProposerAddress: res.Block.Header.ProposerAddress,
		TimestampMillis: res.Block.Header.Time.UnixMilli(),
	}
	for _, sig := range res.Block.LastCommit.Signatures {
		record.CommitSignatures = append(record.CommitSignatures, models.SignatureRecord{
			ValidatorAddress: sig.ValidatorAddress,
			Flag:             sig.BlockIDFlag,
		})
	}
	return record, nil
}

var lowestHeightRe = regexp.MustCompile(`lowest height is (\d+)`)

// EarliestHeight determines the earliest block the node still serves:
// 1 for archive nodes, or the lowest height parsed from the pruned-node
// error message.
func (c *Consensus) EarliestHeight(ctx context.Context) (uint64, error) {
	_, err := c.BlockAt(ctx, 1)
	if err == nil {
		return 1, nil
	}

	matches := lowestHeightRe.FindStringSubmatch(strings.ToLower(err.Error()))
	if len(matches) >= 2 {
		if height, perr := strconv.ParseUint(matches[1], 10, 64); perr == nil {
			return height, nil
		}
	}
	return 0, fmt.Errorf("failed to determine earliest block height: %w", err)
}
