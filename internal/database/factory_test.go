package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirxray/internal/config"
)

func TestNewCatalogFromConfig(t *testing.T) {
	t.Run("memory catalog", func(t *testing.T) {
		c, err := NewCatalogFromConfig(config.CatalogConfig{Type: "memory"}, nil)
		require.NoError(t, err)
		defer c.Close()
		assert.NoError(t, c.CheckMigrations())
	})

	t.Run("sqlite catalog creates data dir", func(t *testing.T) {
		dataDir := filepath.Join(t.TempDir(), "nested", "db")
		c, err := NewCatalogFromConfig(config.CatalogConfig{Type: "sqlite", DataDir: dataDir}, nil)
		require.NoError(t, err)
		defer c.Close()

		assert.Equal(t, filepath.Join(dataDir, CatalogFileName), c.Path())
		_, err = os.Stat(c.Path())
		assert.NoError(t, err)
	})

	t.Run("sqlite catalog reopens with existing schema", func(t *testing.T) {
		dataDir := t.TempDir()
		cfg := config.CatalogConfig{Type: "sqlite", DataDir: dataDir}

		c, err := NewCatalogFromConfig(cfg, nil)
		require.NoError(t, err)
		_, err = c.CreateOperation("CreateSnapshot", "/srv")
		require.NoError(t, err)
		require.NoError(t, c.Close())

		c, err = NewCatalogFromConfig(cfg, nil)
		require.NoError(t, err)
		defer c.Close()

		ops, err := c.ListOperations(10)
		require.NoError(t, err)
		assert.Len(t, ops, 1)
	})

	t.Run("sqlite without data dir", func(t *testing.T) {
		_, err := NewCatalogFromConfig(config.CatalogConfig{Type: "sqlite"}, nil)
		assert.Error(t, err)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := NewCatalogFromConfig(config.CatalogConfig{Type: "postgres"}, nil)
		assert.Error(t, err)
	})
}
