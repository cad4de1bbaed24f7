// Package config provides configuration loading, validation, and path resolution.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "goatminify"

// HomeEnvVar is the environment variable name for overriding the data directory.
const HomeEnvVar = "GOATMINIFY_HOME"

// PrefsFileName is the name of the preferences file inside the data directory.
const PrefsFileName = "prefs.toml"

// DataDir returns the path to the per-user data directory.
// The path is determined in the following order of precedence:
//
//  1. GOATMINIFY_HOME environment variable (if set and non-empty)
//  2. Platform-specific default:
//     - macOS/Linux: $XDG_DATA_HOME/goatminify or ~/.local/share/goatminify
//     - Windows: %LOCALAPPDATA%\GoatMinify
//
// The directory may not exist; use EnsureDataDir to create it if needed.
func DataDir() (string, error) {
	if envDir := os.Getenv(HomeEnvVar); envDir != "" {
		return envDir, nil
	}

	if runtime.GOOS == "windows" {
		return windowsDataDir()
	}
	return unixDataDir()
}

// EnsureDataDir returns the data directory path, creating it if it doesn't exist.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	return dir, nil
}

// PrefsPath returns the path of the preferences file.
func PrefsPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, PrefsFileName), nil
}

func unixDataDir() (string, error) {
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".local", "share", appName), nil
}

// windowsDataDir uses %LOCALAPPDATA%\GoatMinify.
func windowsDataDir() (string, error) {
	localAppData := os.Getenv("LOCALAPPDATA")
	if localAppData == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		localAppData = filepath.Join(homeDir, "AppData", "Local")
	}

	return filepath.Join(localAppData, "GoatMinify"), nil
}
