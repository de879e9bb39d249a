// Package config loads the linkmark configuration with viper: a TOML file
// under $XDG_CONFIG_HOME/linkmark, LINKMARK_* environment overrides and
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
	configDir string

	skipNextReload bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithConfigDir reads and writes config.toml in dir instead of the XDG
// config directory.
func WithConfigDir(dir string) ManagerOption {
	return func(m *Manager) { m.configDir = dir }
}

// NewManager creates a new configuration manager.
func NewManager(opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		viper:     viper.New(),
		callbacks: make([]func(*Config), 0),
		configDir: GetConfigDir(),
	}
	for _, opt := range opts {
		opt(m)
	}

	v := m.viper
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(m.configDir)

	// LINKMARK_HIGHLIGHT_THROTTLE_DELAY overrides highlight.throttle_delay.
	v.SetEnvPrefix("LINKMARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "LINKMARK_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind LINKMARK_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "LINKMARK_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind LINKMARK_LOG_FORMAT: %w", err)
	}
	if err := v.BindEnv("database.path", "LINKMARK_DB"); err != nil {
		return nil, fmt.Errorf("failed to bind LINKMARK_DB: %w", err)
	}

	return m, nil
}

// Load loads the configuration from file and environment variables. A
// missing config file is created with the defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.configDir, dirPerm); err != nil {
		return fmt.Errorf("failed to ensure config directory: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.unmarshalConfig()
	if err != nil {
		return err
	}
	ensureDatabasePath(config)
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		configFile := m.viper.ConfigFileUsed()
		if configFile == "" {
			configFile = m.ConfigFile()
		}
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
	}

	if err := WriteConfigOrdered(DefaultConfig(), m.ConfigFile()); err != nil {
		return fmt.Errorf("failed to create default config at %s: %w", m.configDir, err)
	}
	if err := m.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read newly created config file: %w", err)
	}
	return nil
}

func (m *Manager) unmarshalConfig() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}
	return config, nil
}

func ensureDatabasePath(config *Config) {
	if config.Database.Path == "" {
		config.Database.Path = GetDatabaseFile()
	}
}

func normalizeConfig(config *Config) {
	protocols := make([]string, 0, len(config.Highlight.IncludedProtocols))
	for _, p := range config.Highlight.IncludedProtocols {
		p = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(p)), ":")
		if p != "" {
			protocols = append(protocols, p)
		}
	}
	config.Highlight.IncludedProtocols = protocols

	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	switch strings.ToLower(config.Logging.Format) {
	case "json":
		config.Logging.Format = "json"
	default:
		config.Logging.Format = defaultLogFormat
	}
}

// Get returns a copy of the current configuration, or nil before Load.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return nil
	}
	return m.config.clone()
}

// Save validates cfg and writes it to the config file.
func (m *Manager) Save(cfg *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg = cfg.clone()
	normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if m.watching {
		m.skipNextReload = true
	}
	if err := WriteConfigOrdered(cfg, m.ConfigFile()); err != nil {
		m.skipNextReload = false
		return err
	}
	m.config = cfg
	return nil
}

// ConfigFile returns the path of the config file.
func (m *Manager) ConfigFile() string {
	if used := m.viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(m.configDir, configFileName)
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.setHighlightDefaults(defaults)
	m.viper.SetDefault("database.path", "")
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("metrics.addr", defaults.Metrics.Addr)
}

func (m *Manager) setHighlightDefaults(defaults *Config) {
	h := defaults.Highlight
	m.viper.SetDefault("highlight.enabled", h.Enabled)
	m.viper.SetDefault("highlight.processing_delay", h.ProcessingDelay)
	m.viper.SetDefault("highlight.max_links_per_batch", h.MaxLinksPerBatch)
	m.viper.SetDefault("highlight.max_links_per_page", h.MaxLinksPerPage)
	m.viper.SetDefault("highlight.adaptive_performance", h.AdaptivePerformance)
	m.viper.SetDefault("highlight.included_protocols", h.IncludedProtocols)
	m.viper.SetDefault("highlight.preserve_class_changes", h.PreserveClassChanges)
	m.viper.SetDefault("highlight.throttle_dynamic_content", h.ThrottleDynamicContent)
	m.viper.SetDefault("highlight.throttle_delay", h.ThrottleDelay)
	m.viper.SetDefault("highlight.history_timeout", h.HistoryTimeout)
	m.viper.SetDefault("highlight.colors.today", h.Colors.Today)
	m.viper.SetDefault("highlight.colors.week", h.Colors.Week)
	m.viper.SetDefault("highlight.colors.month", h.Colors.Month)
	m.viper.SetDefault("highlight.colors.older", h.Colors.Older)
	m.viper.SetDefault("highlight.colors.never", h.Colors.Never)
}
