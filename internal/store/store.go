// Package store persists encoded xray artifacts.
package store

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"dirxray/internal/xray"
)

// validateName rejects names that would escape the store or that are
// not xray artifacts.
func validateName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid artifact name %q", name)
	}
	if !strings.HasSuffix(name, xray.ArtifactExt) {
		return fmt.Errorf("invalid artifact name %q: missing %s extension", name, xray.ArtifactExt)
	}
	return nil
}

func notFound(name string) error {
	return fmt.Errorf("artifact %s: %w", name, fs.ErrNotExist)
}

func alreadyExists(name string) error {
	return fmt.Errorf("artifact %s: %w", name, fs.ErrExist)
}
