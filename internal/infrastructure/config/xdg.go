package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName names the XDG subdirectories.
const AppName = "linkmark"

const (
	dirPerm  = 0o755
	filePerm = 0o644

	configFileName   = "config.toml"
	schemaFileName   = "config.schema.json"
	databaseFileName = "history.db"
)

// GetConfigDir returns $XDG_CONFIG_HOME/linkmark.
func GetConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// GetDataDir returns $XDG_DATA_HOME/linkmark.
func GetDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// GetStateDir returns $XDG_STATE_HOME/linkmark, where log files go.
func GetStateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// GetConfigFile returns the default config file path.
func GetConfigFile() string {
	return filepath.Join(GetConfigDir(), configFileName)
}

// GetDatabaseFile returns the default history database path.
func GetDatabaseFile() string {
	return filepath.Join(GetDataDir(), databaseFileName)
}

// EnsureDirectories creates the config and data directories.
func EnsureDirectories() error {
	for _, dir := range []string{GetConfigDir(), GetDataDir()} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}
