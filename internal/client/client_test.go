package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berachain/berastats/internal/models"
)

func execServer(t *testing.T, handler func(method string, params []json.RawMessage) (any, error)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
			ID     int               `json:"id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		result, err := handler(req.Method, req.Params)
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"error":{"code":-32000,"message":%q}}`, req.ID, err.Error())
			return
		}
		raw, merr := json.Marshal(result)
		require.NoError(t, merr)
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":%s}`, req.ID, raw)
	}))
}

func TestExecutionBlockAt(t *testing.T) {
	srv := execServer(t, func(method string, params []json.RawMessage) (any, error) {
		switch method {
		case "eth_blockNumber":
			return "0x64", nil
		case "eth_getBlockByNumber":
			var numberParam string
			require.NoError(t, json.Unmarshal(params[0], &numberParam))
			assert.Equal(t, "0x2a", numberParam)
			return map[string]any{
				"number":        "0x2a",
				"miner":         "0xabc",
				"timestamp":     "0x65000000",
				"extraData":     "0x726574682f76312e322e33", // "reth/v1.2.3"
				"gasUsed":       "0x5208",
				"baseFeePerGas": "0x3b9aca00",
				"transactions":  []string{"0x1", "0x2"},
			}, nil
		case "eth_getTransactionReceipt":
			return map[string]any{"gasUsed": "0x5208", "effectiveGasPrice": "0x77359400"}, nil
		default:
			return nil, fmt.Errorf("unexpected method %s", method)
		}
	})
	defer srv.Close()

	exec := NewExecution(srv.URL, 1, nil)

	height, err := exec.LatestHeight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(100), height)

	rec, err := exec.BlockAt(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), rec.Height)
	assert.Equal(t, "0xabc", rec.ProposerAddress)
	assert.Equal(t, int64(0x65000000)*1000, rec.TimestampMillis)
	assert.Equal(t, []byte("reth/v1.2.3"), rec.RawExtraData)
	assert.Equal(t, uint64(21000), rec.GasUsed)
	assert.Equal(t, uint64(1_000_000_000), rec.BaseFeePerGas)
	assert.Equal(t, 2, rec.TransactionCount)
	assert.Nil(t, rec.Receipts, "receipts not fetched without WithReceipts")

	rec, err = exec.WithReceipts().BlockAt(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, rec.Receipts, 2)
	assert.Equal(t, models.ReceiptRecord{GasUsed: 21000, EffectiveGasPrice: 2_000_000_000}, rec.Receipts[0])
}

func TestExecutionRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":"0x10"}`)
	}))
	defer srv.Close()

	exec := NewExecution(srv.URL, 3, nil)
	height, err := exec.LatestHeight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(16), height)
	assert.Equal(t, int32(2), calls.Load())
}

func TestConsensusStatusAndBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/status":
			fmt.Fprint(w, `{"result":{"sync_info":{"latest_block_height":"500","catching_up":false}}}`)
		case "/block":
			assert.Equal(t, "123", r.URL.Query().Get("height"))
			fmt.Fprint(w, `{"result":{"block":{
				"header":{"height":"123","time":"2024-01-02T03:04:05.678Z","proposer_address":"AAAA"},
				"last_commit":{"signatures":[
					{"block_id_flag":2,"validator_address":"AAAA"},
					{"block_id_flag":1,"validator_address":""},
					{"block_id_flag":3,"validator_address":"CCCC"}
				]}}}}`)
		case "/validators":
			page := r.URL.Query().Get("page")
			if page == "1" {
				fmt.Fprint(w, `{"result":{"validators":[
					{"address":"AAAA","voting_power":"1000000000"},
					{"address":"BBBB","voting_power":"2000000000"}],"total":"3"}}`)
			} else {
				fmt.Fprint(w, `{"result":{"validators":[
					{"address":"CCCC","voting_power":"3000000000"}],"total":"3"}}`)
			}
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cons := NewConsensus(srv.URL, 1, nil)

	status, err := cons.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NodeStatus{LatestHeight: 500, CatchingUp: false}, status)

	rec, err := cons.BlockAt(context.Background(), 123)
	require.NoError(t, err)
	assert.Equal(t, "AAAA", rec.ProposerAddress)
	assert.Equal(t, int64(1704164645678), rec.TimestampMillis)
	require.Len(t, rec.CommitSignatures, 3)
	assert.False(t, rec.CommitSignatures[0].Absent())
	assert.True(t, rec.CommitSignatures[1].Absent())
	assert.False(t, rec.CommitSignatures[2].Absent())

	vals, err := cons.Validators(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, vals, 3)
	assert.Equal(t, models.ValidatorRecord{Address: "CCCC", VotingPower: 3_000_000_000}, vals[2])
	assert.Equal(t, 3.0, vals[2].Stake())
}

func TestConsensusEarliestHeightPrunedNode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"error":{"code":-32603,"message":"Internal error","data":"height 1 is not available, lowest height is 28566001"}}`)
	}))
	defer srv.Close()

	cons := NewConsensus(srv.URL, 1, nil)
	earliest, err := cons.EarliestHeight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(28566001), earliest)
}

func TestParseHexUint(t *testing.T) {
	cases := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: "0x0", want: 0},
		{in: "0x2a", want: 42},
		{in: "2a", want: 42},
		{in: "0x", want: 0},
		{in: "", want: 0},
		{in: "0xzz", wantErr: true},
	}
	for _, tc := range cases {
		got, err := parseHexUint(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}
