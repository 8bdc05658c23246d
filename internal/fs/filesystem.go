package fs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	ignore "github.com/sabhiram/go-gitignore"

	"dirxray/internal/xray"
)

// OSFilesystemManager is the real filesystem implementation of FilesystemManager.
// Symlinks are never followed below the snapshot root.
type OSFilesystemManager struct {
	patterns []string

	mu       sync.Mutex
	matchers map[string]*ignore.GitIgnore // root -> compiled config + ignore file patterns
}

// NewOSFilesystemManager creates a filesystem manager that operates on the
// real filesystem. ignorePatterns use gitignore syntax and apply to every root.
func NewOSFilesystemManager(ignorePatterns []string) *OSFilesystemManager {
	return &OSFilesystemManager{
		patterns: ignorePatterns,
		matchers: make(map[string]*ignore.GitIgnore),
	}
}

// ResolveRoot returns the absolute path of an existing directory.
func (m *OSFilesystemManager) ResolveRoot(rawPath string) (string, error) {
	if rawPath == "" {
		return "", fmt.Errorf("empty path")
	}

	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	// Stat, not Lstat: a root given as a symlink to a directory is captured.
	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("stat path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", absPath)
	}
	return absPath, nil
}

// ReadDir lists a directory sorted by filename.
func (m *OSFilesystemManager) ReadDir(dir string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	return entries, nil
}

// Describe reads the metadata of path without following symlinks.
func (m *OSFilesystemManager) Describe(path string) (xray.Entry, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return xray.Entry{}, &xray.NotFoundError{Path: path, Err: err}
		}
		return xray.Entry{}, fmt.Errorf("stat %s: %w", path, err)
	}

	times := statTimes(path, info)
	return xray.Entry{
		Path:       path,
		Name:       filepath.Base(path),
		Size:       info.Size(),
		CreatedAt:  xray.TimestampOf(times.created),
		ModifiedAt: xray.TimestampOf(info.ModTime()),
		AccessedAt: xray.TimestampOf(times.accessed),
	}, nil
}

// IsIgnored checks path against the configured patterns and the root's
// ignore file. Matchers are compiled once per root.
func (m *OSFilesystemManager) IsIgnored(root string, path string, isDir bool) (bool, error) {
	matcher, err := m.matcherFor(root)
	if err != nil {
		return false, err
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false, fmt.Errorf("calculating relative path: %w", err)
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		rel += "/"
	}
	return matcher.MatchesPath(rel), nil
}

// Canonical resolves symlinks in path, falling back to its absolute form
// when resolution fails.
func (m *OSFilesystemManager) Canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

func (m *OSFilesystemManager) matcherFor(root string) (*ignore.GitIgnore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if matcher, ok := m.matchers[root]; ok {
		return matcher, nil
	}

	fileLines, err := ParseIgnoreFile(filepath.Join(root, IgnoreFileName))
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(defaultIgnorePatterns)+len(m.patterns)+len(fileLines))
	lines = append(lines, defaultIgnorePatterns...)
	lines = append(lines, m.patterns...)
	lines = append(lines, fileLines...)

	matcher := ignore.CompileIgnoreLines(lines...)
	m.matchers[root] = matcher
	return matcher, nil
}

// Compile-time check that OSFilesystemManager implements xray.FilesystemManager interface
var _ xray.FilesystemManager = (*OSFilesystemManager)(nil)
