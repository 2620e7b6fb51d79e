// Package config loads application settings from Viper.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

const appName = "spice-merchant"

// ExpandPath expands a leading ~ and $VAR references in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}

// ConfigDir returns the directory searched for config.yaml.
func ConfigDir() string {
	return ExpandPath(filepath.Join("~", ".config", appName))
}

// DefaultDatabasePath returns where the SQLite directory lives by default.
func DefaultDatabasePath() string {
	return ExpandPath(filepath.Join("~", ".local", "share", appName, "merchants.db"))
}
