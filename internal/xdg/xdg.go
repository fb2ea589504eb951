// Package xdg resolves XDG Base Directory paths for this application.
package xdg

import (
	"os"
	"path/filepath"
)

const appDir = "judge-cli"

func home() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
		if homeDir == "" {
			homeDir = "/tmp"
		}
	}
	return homeDir
}

// ConfigHome returns the directory for this app's configuration files.
func ConfigHome() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(home(), ".config")
	}
	return filepath.Join(base, appDir)
}

// CacheHome returns the directory for this app's cached data.
func CacheHome() string {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		base = filepath.Join(home(), ".cache")
	}
	return filepath.Join(base, appDir)
}

// StateHome returns the directory for this app's state data, such as the
// saved session cookie.
func StateHome() string {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		base = filepath.Join(home(), ".local", "state")
	}
	return filepath.Join(base, appDir)
}
