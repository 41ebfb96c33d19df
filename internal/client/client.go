// Package client implements the two remote collaborators behind the
// fetcher's normalization boundary: the execution-layer JSON-RPC endpoint
// and the consensus-layer REST endpoint.
package client

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/berachain/berastats/internal/metrics"
	"github.com/berachain/berastats/internal/models"
)

const (
	requestTimeout   = 10 * time.Second
	retryBaseWait    = 250 * time.Millisecond
	retryMaxWait     = 2 * time.Second
	defaultRetries   = 3
	receiptFanout    = 16
	validatorPerPage = 100
)

// Source produces one normalized BlockRecord per height. Both clients and
// their combinations implement it; the fetcher pools over it.
type Source interface {
	BlockAt(ctx context.Context, height uint64) (*models.BlockRecord, error)
}

// newHTTP builds a resty client with the shared retry policy: up to
// maxAttempts total attempts with exponential backoff, retrying timeouts,
// connection errors and 5xx responses.
func newHTTP(endpoint string, maxAttempts int, m *metrics.Metrics) *resty.Client {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetries
	}
	c := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(requestTimeout).
		SetRetryCount(maxAttempts - 1).
		SetRetryWaitTime(retryBaseWait).
		SetRetryMaxWaitTime(retryMaxWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	if m != nil {
		c.AddRetryHook(func(_ *resty.Response, _ error) {
			m.RemoteRetries.Inc()
		})
	}
	return c
}

// parseHexUint parses an 0x-prefixed quantity as used by the execution
// layer. Empty and "0x" parse to zero.
func parseHexUint(s string) (uint64, error) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 16, 64)
}
