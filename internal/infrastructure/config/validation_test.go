package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:    "negative delay",
			mutate:  func(c *Config) { c.Highlight.ProcessingDelay = -1 },
			wantErr: "highlight.processing_delay must be non-negative",
		},
		{
			name:    "zero page cap",
			mutate:  func(c *Config) { c.Highlight.MaxLinksPerPage = 0 },
			wantErr: "highlight.max_links_per_page must be at least 1",
		},
		{
			name:    "zero history timeout",
			mutate:  func(c *Config) { c.Highlight.HistoryTimeout = 0 },
			wantErr: "highlight.history_timeout must be at least 1",
		},
		{
			name:    "bad scheme",
			mutate:  func(c *Config) { c.Highlight.IncludedProtocols = []string{"ht tp"} },
			wantErr: `"ht tp" is not a URL scheme`,
		},
		{
			name:    "short hex",
			mutate:  func(c *Config) { c.Highlight.Colors.Older = "#abc" },
			wantErr: "",
		},
		{
			name:    "bad color",
			mutate:  func(c *Config) { c.Highlight.Colors.Month = "orange" },
			wantErr: "highlight.colors.month",
		},
		{
			name:    "bad level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: `logging.level "loud"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateConfig_AggregatesErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Highlight.MaxLinksPerBatch = 0
	cfg.Highlight.ThrottleDelay = -5

	err := validateConfig(cfg)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "config validation failed:\n  - ")
		assert.Contains(t, err.Error(), "max_links_per_batch")
		assert.Contains(t, err.Error(), "throttle_delay")
	}
}

func TestValidateThrottleDelay(t *testing.T) {
	assert.NoError(t, ValidateThrottleDelay(50))
	assert.Error(t, ValidateThrottleDelay(49))
}
