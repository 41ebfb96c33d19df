// Package berastats wires the analysis library into a command-line tool.
package berastats

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/berachain/berastats/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "berastats",
	Short: "Consensus and execution layer telemetry reports",
	Long: `berastats fetches ranges of blocks from a consensus/execution endpoint
pair and computes per-validator and per-proposer statistics: block delays,
missing-signature attribution, voting power by client software, client
upgrade history and fee/gas distributions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if err := level.UnmarshalText([]byte(viper.GetString("log-level"))); err != nil {
			return err
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

// Execute runs the CLI with signal-driven cooperative cancellation.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	defaults := config.Defaults()
	flags := rootCmd.PersistentFlags()
	flags.String("el-endpoint", "", "Execution layer JSON-RPC URL")
	flags.String("cl-endpoint", "", "Consensus layer REST URL")
	flags.Uint64("blocks", defaults.BlockCount, "Number of blocks to analyze")
	flags.Uint64("start", 0, "Explicit range start height (0 = latest minus --blocks)")
	flags.Int("concurrency", defaults.Concurrency, "Concurrent block fetches")
	flags.Int("max-retries", defaults.MaxRetries, "Attempts per remote call")
	flags.Bool("receipts", false, "Fetch per-transaction receipts (fees mode)")
	flags.StringSlice("names-db", nil, "Validator name store path (repeatable)")
	flags.String("proposer", "", "Restrict reports to this proposer address")
	flags.String("proposer-name", "", "Restrict reports to proposers whose resolved name contains this substring")
	flags.Int("min-samples", defaults.MinSamples, "Minimum samples for a proposer to be reported")
	flags.String("log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")

	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("BERASTATS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func loadConfig() (config.Config, error) {
	cfg := config.Defaults()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}
