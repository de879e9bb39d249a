package config

import (
	"time"

	"github.com/bnema/linkmark/internal/domain/entity"
)

const (
	defaultHistoryTimeoutMs = 3000
	defaultLogLevel         = "info"
	defaultLogFormat        = "console"
	minThrottleDelayMs      = 50
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	h := entity.DefaultHighlightConfig()
	return &Config{
		Highlight: HighlightConfig{
			Enabled:                h.Enabled,
			ProcessingDelay:        int(h.ProcessingDelay / time.Millisecond),
			MaxLinksPerBatch:       h.MaxLinksPerBatch,
			MaxLinksPerPage:        h.MaxLinksPerPage,
			AdaptivePerformance:    h.AdaptivePerformance,
			IncludedProtocols:      append([]string(nil), h.IncludedProtocols...),
			PreserveClassChanges:   h.PreserveClassChanges,
			ThrottleDynamicContent: h.ThrottleDynamicContent,
			ThrottleDelay:          int(h.ThrottleDelay / time.Millisecond),
			HistoryTimeout:         defaultHistoryTimeoutMs,
			Colors: ColorsConfig{
				Today: h.Colors.Today,
				Week:  h.Colors.Week,
				Month: h.Colors.Month,
				Older: h.Colors.Older,
				Never: h.Colors.Never,
			},
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// Entity converts the persisted form into the session snapshot.
func (h HighlightConfig) Entity() entity.HighlightConfig {
	return entity.HighlightConfig{
		Enabled:                h.Enabled,
		ProcessingDelay:        time.Duration(h.ProcessingDelay) * time.Millisecond,
		MaxLinksPerBatch:       h.MaxLinksPerBatch,
		MaxLinksPerPage:        h.MaxLinksPerPage,
		AdaptivePerformance:    h.AdaptivePerformance,
		IncludedProtocols:      append([]string(nil), h.IncludedProtocols...),
		PreserveClassChanges:   h.PreserveClassChanges,
		ThrottleDynamicContent: h.ThrottleDynamicContent,
		ThrottleDelay:          time.Duration(h.ThrottleDelay) * time.Millisecond,
		Colors: entity.CategoryColors{
			Today: h.Colors.Today,
			Week:  h.Colors.Week,
			Month: h.Colors.Month,
			Older: h.Colors.Older,
			Never: h.Colors.Never,
		},
	}
}

// HistoryTimeoutDuration returns HistoryTimeout as a duration.
func (h HighlightConfig) HistoryTimeoutDuration() time.Duration {
	return time.Duration(h.HistoryTimeout) * time.Millisecond
}

// ApplyPerformance copies the live performance knobs back into the
// persisted form.
func (h *HighlightConfig) ApplyPerformance(c entity.HighlightConfig) {
	h.ProcessingDelay = int(c.ProcessingDelay / time.Millisecond)
	h.MaxLinksPerBatch = c.MaxLinksPerBatch
	h.AdaptivePerformance = c.AdaptivePerformance
	h.ThrottleDynamicContent = c.ThrottleDynamicContent
	h.ThrottleDelay = int(c.ThrottleDelay / time.Millisecond)
	h.Enabled = c.Enabled
}

func (c *Config) clone() *Config {
	out := *c
	out.Highlight.IncludedProtocols = append([]string(nil), c.Highlight.IncludedProtocols...)
	return &out
}
