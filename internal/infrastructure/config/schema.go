package config

// Config is the complete linkmark configuration.
type Config struct {
	Highlight HighlightConfig `mapstructure:"highlight" toml:"highlight" json:"highlight"`
	Database  DatabaseConfig  `mapstructure:"database" toml:"database" json:"database"`
	Logging   LoggingConfig   `mapstructure:"logging" toml:"logging" json:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics" toml:"metrics" json:"metrics"`
}

// HighlightConfig holds the link highlighter options. Durations are in
// milliseconds.
type HighlightConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled" json:"enabled" jsonschema:"description=Highlight links on page load"`
	// ProcessingDelay is the pause between two batches of links.
	ProcessingDelay  int `mapstructure:"processing_delay" toml:"processing_delay" json:"processing_delay" jsonschema:"minimum=0"`
	MaxLinksPerBatch int `mapstructure:"max_links_per_batch" toml:"max_links_per_batch" json:"max_links_per_batch" jsonschema:"minimum=1"`
	MaxLinksPerPage  int `mapstructure:"max_links_per_page" toml:"max_links_per_page" json:"max_links_per_page" jsonschema:"minimum=1"`
	// AdaptivePerformance derives batch size and delay from the page size.
	AdaptivePerformance bool     `mapstructure:"adaptive_performance" toml:"adaptive_performance" json:"adaptive_performance"`
	IncludedProtocols   []string `mapstructure:"included_protocols" toml:"included_protocols" json:"included_protocols"`
	// PreserveClassChanges keeps classes the page set before highlighting.
	PreserveClassChanges   bool `mapstructure:"preserve_class_changes" toml:"preserve_class_changes" json:"preserve_class_changes"`
	ThrottleDynamicContent bool `mapstructure:"throttle_dynamic_content" toml:"throttle_dynamic_content" json:"throttle_dynamic_content"`
	ThrottleDelay          int  `mapstructure:"throttle_delay" toml:"throttle_delay" json:"throttle_delay" jsonschema:"minimum=0"`
	// HistoryTimeout bounds one history lookup.
	HistoryTimeout int          `mapstructure:"history_timeout" toml:"history_timeout" json:"history_timeout" jsonschema:"minimum=1"`
	Colors         ColorsConfig `mapstructure:"colors" toml:"colors" json:"colors"`
}

// ColorsConfig maps each recency category to a #RRGGBB color.
type ColorsConfig struct {
	Today string `mapstructure:"today" toml:"today" json:"today" jsonschema:"pattern=^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$"`
	Week  string `mapstructure:"week" toml:"week" json:"week" jsonschema:"pattern=^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$"`
	Month string `mapstructure:"month" toml:"month" json:"month" jsonschema:"pattern=^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$"`
	Older string `mapstructure:"older" toml:"older" json:"older" jsonschema:"pattern=^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$"`
	Never string `mapstructure:"never" toml:"never" json:"never" jsonschema:"pattern=^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$"`
}

// DatabaseConfig locates the history database.
type DatabaseConfig struct {
	// Path defaults to $XDG_DATA_HOME/linkmark/history.db.
	Path string `mapstructure:"path" toml:"path" json:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`
}

// MetricsConfig controls the Prometheus endpoint of long-running commands.
type MetricsConfig struct {
	// Addr is the listen address, e.g. "127.0.0.1:9464". Empty disables it.
	Addr string `mapstructure:"addr" toml:"addr" json:"addr"`
}
