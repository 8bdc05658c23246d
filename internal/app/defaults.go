package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables overriding the default locations.
const (
	EnvConfigPath = "XRAY_CONFIG_PATH"
	EnvHome       = "XRAY_HOME"
)

// Defaults are the locations used when no flag or config says otherwise.
type Defaults struct {
	ConfigPath string
	BaseDir    string
}

// GetDefaults returns the config file path ($XRAY_CONFIG_PATH, or
// ~/.config/xray.toml) and the data directory ($XRAY_HOME, or
// ~/.local/share/xray).
func GetDefaults() (Defaults, error) {
	configPath := os.Getenv(EnvConfigPath)
	baseDir := os.Getenv(EnvHome)
	if configPath != "" && baseDir != "" {
		return Defaults{ConfigPath: configPath, BaseDir: baseDir}, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Defaults{}, fmt.Errorf("cannot determine home directory: %w", err)
	}
	if configPath == "" {
		configPath = filepath.Join(homeDir, ".config", "xray.toml")
	}
	if baseDir == "" {
		baseDir = filepath.Join(homeDir, ".local", "share", "xray")
	}
	return Defaults{ConfigPath: configPath, BaseDir: baseDir}, nil
}
