package store

import (
	"context"
	"fmt"

	"dirxray/internal/config"
	"dirxray/internal/xray"
)

// NewStoreFromConfig creates a Store implementation based on the store
// config type. The filesystem store saves to cfg.SaveDir.
func NewStoreFromConfig(ctx context.Context, cfg *config.Config, clock xray.Clock) (xray.Store, error) {
	switch cfg.Store.Type {
	case "memory":
		return NewMemoryStore(clock), nil
	case "s3":
		s, err := NewS3Store(ctx, cfg.Store)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "filesystem", "":
		if cfg.SaveDir == "" {
			return nil, fmt.Errorf("filesystem store requires save_dir to be set")
		}
		s, err := NewFileSystemStore(cfg.SaveDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Store.Type)
	}
}
