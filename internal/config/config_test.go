package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	c := Defaults()
	c.ELEndpoint = "http://localhost:8545"
	c.CLEndpoint = "http://localhost:26657"
	return c
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing el endpoint",
			mutate:  func(c *Config) { c.ELEndpoint = "" },
			wantErr: "el-endpoint is required",
		},
		{
			name:    "missing cl endpoint",
			mutate:  func(c *Config) { c.CLEndpoint = "" },
			wantErr: "cl-endpoint is required",
		},
		{
			name:    "non http scheme",
			mutate:  func(c *Config) { c.CLEndpoint = "grpc://localhost:9090" },
			wantErr: "must be an http(s) URL",
		},
		{
			name:    "no range at all",
			mutate:  func(c *Config) { c.BlockCount = 0; c.StartHeight = 0 },
			wantErr: "block count or an explicit start height",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Concurrency = 0 },
			wantErr: "concurrency must be at least 1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(&c)
			err := c.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tc.wantErr)
			}
		})
	}
}
