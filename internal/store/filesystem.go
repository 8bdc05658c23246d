package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"dirxray/internal/xray"
)

// FileSystemStore keeps artifacts as plain files in the save directory:
//
//	<root>/
//	  xray_20240115_103000.xray
//	  xray_20240115_103000_1.xray
//
// StoredAt is the file's modification time; artifacts are written once
// and never rewritten.
type FileSystemStore struct {
	root string
}

// NewFileSystemStore creates a store rooted at the given directory,
// creating it if necessary.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	if root == "" {
		return nil, fmt.Errorf("filesystem store requires a save directory")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}
	return &FileSystemStore{root: root}, nil
}

// Root returns the save directory.
func (s *FileSystemStore) Root() string {
	return s.root
}

// Put stores an artifact. Existing artifacts are never overwritten.
func (s *FileSystemStore) Put(name string, r io.Reader, size int64) error {
	if err := validateName(name); err != nil {
		return err
	}

	destPath := filepath.Join(s.root, name)
	if _, err := os.Lstat(destPath); err == nil {
		return alreadyExists(name)
	}
	return s.writeFile(destPath, r, size)
}

// Get writes the named artifact to w.
func (s *FileSystemStore) Get(name string, w io.Writer) (xray.ArtifactInfo, error) {
	if err := validateName(name); err != nil {
		return xray.ArtifactInfo{}, err
	}

	f, err := os.Open(filepath.Join(s.root, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return xray.ArtifactInfo{}, notFound(name)
		}
		return xray.ArtifactInfo{}, fmt.Errorf("failed to open artifact: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return xray.ArtifactInfo{}, fmt.Errorf("failed to stat artifact: %w", err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return xray.ArtifactInfo{}, fmt.Errorf("failed to read artifact: %w", err)
	}
	return fileInfo(fi), nil
}

// Stat returns the info of an artifact.
func (s *FileSystemStore) Stat(name string) (xray.ArtifactInfo, error) {
	if err := validateName(name); err != nil {
		return xray.ArtifactInfo{}, err
	}

	fi, err := os.Stat(filepath.Join(s.root, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return xray.ArtifactInfo{}, notFound(name)
		}
		return xray.ArtifactInfo{}, fmt.Errorf("failed to stat artifact: %w", err)
	}
	return fileInfo(fi), nil
}

// List returns the regular files in the save directory carrying the
// artifact extension, sorted by name. Subdirectories are not searched.
func (s *FileSystemStore) List() ([]xray.ArtifactInfo, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read save directory: %w", err)
	}

	var infos []xray.ArtifactInfo
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), xray.ArtifactExt) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to stat %s: %w", e.Name(), err)
		}
		infos = append(infos, fileInfo(fi))
	}
	return infos, nil
}

// ValidateSetup verifies that the save directory is accessible.
func (s *FileSystemStore) ValidateSetup() error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("save directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("save directory is not a directory: %s", s.root)
	}
	return nil
}

// writeFile writes data from r to the specified path using atomic write (temp file + rename).
func (s *FileSystemStore) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	tmpFile, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

func fileInfo(fi fs.FileInfo) xray.ArtifactInfo {
	return xray.ArtifactInfo{Name: fi.Name(), Size: fi.Size(), StoredAt: fi.ModTime()}
}

// Compile-time check that FileSystemStore implements xray.Store interface
var _ xray.Store = (*FileSystemStore)(nil)
