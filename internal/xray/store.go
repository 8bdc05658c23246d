package xray

import (
	"io"
	"time"
)

// ArtifactInfo describes a persisted artifact without reading its content.
type ArtifactInfo struct {
	Name string
	Size int64
	// StoredAt is the artifact's creation time as known to the store.
	StoredAt time.Time
}

// Store persists encoded snapshot artifacts by name.
// All operations stream through io.Reader/io.Writer.
type Store interface {
	// Put stores an artifact. size is the number of bytes that will be read from r.
	// Existing artifacts are never overwritten.
	Put(name string, r io.Reader, size int64) error

	// Get writes the named artifact to w and returns its info.
	// A missing artifact yields an error wrapping fs.ErrNotExist.
	Get(name string, w io.Writer) (ArtifactInfo, error)

	// Stat returns the info of an artifact. A missing artifact yields an
	// error wrapping fs.ErrNotExist.
	Stat(name string) (ArtifactInfo, error)

	// List returns every artifact carrying ArtifactExt, sorted by name.
	List() ([]ArtifactInfo, error)

	// ValidateSetup verifies that the store is accessible and properly configured.
	ValidateSetup() error
}
