package berastats

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"

	"github.com/berachain/berastats/internal/analysis"
	"github.com/berachain/berastats/internal/client"
	"github.com/berachain/berastats/internal/config"
	"github.com/berachain/berastats/internal/fetcher"
	"github.com/berachain/berastats/internal/metrics"
	"github.com/berachain/berastats/internal/resolver"
)

// runtime bundles the clients and helpers every subcommand needs.
type runtime struct {
	cfg     config.Config
	metrics *metrics.Metrics
	cons    *client.Consensus
	exec    *client.Execution
	names   *resolver.Resolver
}

func newRuntime() (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	m := metrics.New(nil)
	exec := client.NewExecution(cfg.ELEndpoint, cfg.MaxRetries, m)
	if cfg.Receipts {
		exec = exec.WithReceipts()
	}

	return &runtime{
		cfg:     cfg,
		metrics: m,
		cons:    client.NewConsensus(cfg.CLEndpoint, cfg.MaxRetries, m),
		exec:    exec,
		names:   resolver.Open(cfg.NameStores...),
	}, nil
}

func (r *runtime) close() {
	r.names.Close()
}

func (r *runtime) filter() func(string) bool {
	return analysis.ProposerFilter(r.cfg.ProposerAddress, r.cfg.ProposerName, r.names.Name)
}

// window resolves the configured block range against the consensus head and
// the node's pruning floor.
func (r *runtime) window(ctx context.Context) (start, count uint64, err error) {
	status, err := r.cons.Status(ctx)
	if err != nil {
		return 0, 0, errors.Wrap(err, "querying node status")
	}
	if status.CatchingUp {
		slog.Warn("Node is catching up, results may lag the chain head")
	}

	count = r.cfg.BlockCount
	if r.cfg.StartHeight > 0 {
		start = r.cfg.StartHeight
	} else {
		if count > status.LatestHeight {
			count = status.LatestHeight
		}
		start = status.LatestHeight - count + 1
	}

	earliest, err := r.cons.EarliestHeight(ctx)
	if err != nil {
		slog.Debug("Earliest-height probe failed, assuming unpruned node", "error", err)
		earliest = 1
	}
	if start < earliest {
		slog.Warn("Range start below node's earliest block, clamping", "start", start, "earliest", earliest)
		if start+count <= earliest {
			return 0, 0, errors.Errorf("requested range [%d, %d] is entirely below the node's earliest block %d",
				start, start+count-1, earliest)
		}
		count -= earliest - start
		start = earliest
	}
	return start, count, nil
}

// fetchWindow fetches the configured range with a progress bar on stderr.
func (r *runtime) fetchWindow(ctx context.Context, source client.Source) (*fetcher.Result, error) {
	start, count, err := r.window(ctx)
	if err != nil {
		return nil, err
	}

	bar := newBar(int64(count))
	f := fetcher.New(source, fetcher.Options{
		Concurrency: r.cfg.Concurrency,
		Metrics:     r.metrics,
		Progress: func(completed, total int, height uint64) {
			_ = bar.Set(completed)
		},
	})

	slog.Info("Fetching blocks", "start", start, "count", count, "concurrency", r.cfg.Concurrency)
	result := f.FetchRange(ctx, start, count, fetcher.Ascending)
	_ = bar.Finish()

	if len(result.FailedHeights) > 0 {
		slog.Warn("Some heights could not be fetched", "failed", len(result.FailedHeights), "requested", result.Requested())
	}
	if err := ctx.Err(); err != nil {
		slog.Warn("Fetch interrupted, reporting on partial data", "fetched", len(result.Records))
	}
	return result, nil
}

// headScanner builds a backward scanner from the consensus head down to the
// node's pruning floor, for the classification and upgrade modes.
func (r *runtime) headScanner(ctx context.Context, source client.Source) (*fetcher.Scanner, uint64, error) {
	status, err := r.cons.Status(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, "querying node status")
	}
	earliest, err := r.cons.EarliestHeight(ctx)
	if err != nil {
		earliest = 1
	}

	f := fetcher.New(source, fetcher.Options{
		Concurrency: r.cfg.Concurrency,
		Metrics:     r.metrics,
	})
	return fetcher.NewScanner(f, status.LatestHeight, earliest, 0), status.LatestHeight, nil
}

func newBar(total int64) *progressbar.ProgressBar {
	bar := progressbar.NewOptions64(
		total,
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription("Fetching blocks..."),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	if err := bar.RenderBlank(); err != nil {
		slog.Debug("Failed to render progress bar", "error", err)
	}
	return bar
}
