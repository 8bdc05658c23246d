package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "/custom/config.toml")
		t.Setenv(EnvHome, "/custom/xray")

		d, err := GetDefaults()
		require.NoError(t, err)
		assert.Equal(t, "/custom/config.toml", d.ConfigPath)
		assert.Equal(t, "/custom/xray", d.BaseDir)
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "")
		t.Setenv(EnvHome, "")

		d, err := GetDefaults()
		require.NoError(t, err)

		homeDir, _ := os.UserHomeDir()
		assert.Equal(t, filepath.Join(homeDir, ".config", "xray.toml"), d.ConfigPath)
		assert.Equal(t, filepath.Join(homeDir, ".local", "share", "xray"), d.BaseDir)
	})

	t.Run("mixes env and defaults", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "")
		t.Setenv(EnvHome, "/data/xray")

		d, err := GetDefaults()
		require.NoError(t, err)

		homeDir, _ := os.UserHomeDir()
		assert.Equal(t, filepath.Join(homeDir, ".config", "xray.toml"), d.ConfigPath)
		assert.Equal(t, "/data/xray", d.BaseDir)
	})
}
