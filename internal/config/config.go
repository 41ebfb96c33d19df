// Package config holds the run configuration shared by every analysis mode.
package config

import (
	"fmt"
	"net/url"

	"github.com/pkg/errors"
)

// Config is validated once, before any fetching begins. Endpoint problems
// are the only fatal error class in a run.
type Config struct {
	// ELEndpoint is the execution-layer JSON-RPC URL.
	ELEndpoint string `mapstructure:"el-endpoint"`
	// CLEndpoint is the consensus-layer REST URL.
	CLEndpoint string `mapstructure:"cl-endpoint"`

	// BlockCount is how many blocks to fetch when no explicit range is
	// given.
	BlockCount uint64 `mapstructure:"blocks"`
	// StartHeight pins the range start; 0 means "latest minus BlockCount".
	StartHeight uint64 `mapstructure:"start"`

	Concurrency int  `mapstructure:"concurrency"`
	MaxRetries  int  `mapstructure:"max-retries"`
	Receipts    bool `mapstructure:"receipts"`

	// NameStores are validators.db paths, tried in order.
	NameStores []string `mapstructure:"names-db"`

	// Proposer filter parameters.
	ProposerAddress string `mapstructure:"proposer"`
	ProposerName    string `mapstructure:"proposer-name"`

	MinSamples int `mapstructure:"min-samples"`

	LogLevel string `mapstructure:"log-level"`
}

// Defaults mirror the flag defaults in cmd.
func Defaults() Config {
	return Config{
		BlockCount:  1000,
		Concurrency: 10,
		MaxRetries:  3,
		MinSamples:  3,
		LogLevel:    "info",
	}
}

// Validate surfaces configuration errors before any remote call is made.
func (c Config) Validate() error {
	if err := validateEndpoint("el-endpoint", c.ELEndpoint); err != nil {
		return err
	}
	if err := validateEndpoint("cl-endpoint", c.CLEndpoint); err != nil {
		return err
	}
	if c.BlockCount == 0 && c.StartHeight == 0 {
		return errors.New("either a block count or an explicit start height is required")
	}
	if c.Concurrency < 1 {
		return errors.New("concurrency must be at least 1")
	}
	return nil
}

func validateEndpoint(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Wrapf(err, "invalid %s", name)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", name, raw)
	}
	return nil
}
