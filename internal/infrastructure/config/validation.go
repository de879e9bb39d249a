package config

import (
	"fmt"
	"strings"

	"github.com/bnema/linkmark/internal/domain/validation"
	"github.com/bnema/linkmark/internal/logging"
)

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateHighlight(config)...)
	validationErrors = append(validationErrors, validateColors(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validateHighlight(config *Config) []string {
	var validationErrors []string
	h := config.Highlight

	if h.ProcessingDelay < 0 {
		validationErrors = append(validationErrors, "highlight.processing_delay must be non-negative")
	}
	if h.MaxLinksPerBatch < 1 {
		validationErrors = append(validationErrors, "highlight.max_links_per_batch must be at least 1")
	}
	if h.MaxLinksPerPage < 1 {
		validationErrors = append(validationErrors, "highlight.max_links_per_page must be at least 1")
	}
	if h.ThrottleDelay < 0 {
		validationErrors = append(validationErrors, "highlight.throttle_delay must be non-negative")
	}
	if h.HistoryTimeout < 1 {
		validationErrors = append(validationErrors, "highlight.history_timeout must be at least 1")
	}
	if len(h.IncludedProtocols) == 0 {
		validationErrors = append(validationErrors, "highlight.included_protocols must not be empty")
	}
	for _, p := range h.IncludedProtocols {
		if !validation.IsURLScheme(p) {
			validationErrors = append(validationErrors, fmt.Sprintf("highlight.included_protocols: %q is not a URL scheme", p))
		}
	}
	return validationErrors
}

func validateColors(config *Config) []string {
	c := config.Highlight.Colors
	return validation.ValidateCategoryColors("highlight.colors",
		[]string{"today", "week", "month", "older", "never"},
		map[string]string{
			"today": c.Today,
			"week":  c.Week,
			"month": c.Month,
			"older": c.Older,
			"never": c.Never,
		})
}

func validateLogging(config *Config) []string {
	if !logging.ValidLevel(config.Logging.Level) {
		return []string{fmt.Sprintf("logging.level %q must be one of trace, debug, info, warn, error", config.Logging.Level)}
	}
	return nil
}

// ValidateThrottleDelay is the check the settings panel applies before
// sending a live update.
func ValidateThrottleDelay(ms int) error {
	if ms < minThrottleDelayMs {
		return fmt.Errorf("throttle delay must be at least %dms", minThrottleDelayMs)
	}
	return nil
}
