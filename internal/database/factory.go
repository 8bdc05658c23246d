package database

import (
	"fmt"
	"os"
	"path/filepath"

	"dirxray/internal/config"
	"dirxray/internal/xray"
)

// CatalogFileName is the SQLite file inside the catalog data dir.
const CatalogFileName = "xray.db"

// NewCatalogFromConfig opens the catalog described by the config type.
func NewCatalogFromConfig(cfg config.CatalogConfig, clock xray.Clock) (*SQLiteCatalog, error) {
	switch cfg.Type {
	case "sqlite", "":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite catalog")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
		return NewSQLiteCatalog(filepath.Join(cfg.DataDir, CatalogFileName), clock)
	case "memory":
		return NewSQLiteCatalog(":memory:", clock)
	default:
		return nil, fmt.Errorf("unknown catalog type: %s", cfg.Type)
	}
}
