package testutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"dirxray/internal/xray"
)

// MockNode represents a node in the mock filesystem.
type MockNode struct {
	Size        int64
	IsDirectory bool
	IsSymlink   bool
	CreatedAt   time.Time
	ModTime     time.Time
	AccessedAt  time.Time
}

// MockFilesystemManager is an in-memory filesystem for testing snapshot walks.
// Paths are absolute and slash separated.
type MockFilesystemManager struct {
	mu        sync.Mutex
	nodes     map[string]*MockNode
	ignored   map[string]bool
	vanishing map[string]bool
	readErrs  map[string]error
	links     map[string]string
}

// NewMockFilesystemManager creates a new mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		nodes:     make(map[string]*MockNode),
		ignored:   make(map[string]bool),
		vanishing: make(map[string]bool),
		readErrs:  make(map[string]error),
		links:     make(map[string]string),
	}
}

// AddDirectory adds a directory, creating missing parents.
func (m *MockFilesystemManager) AddDirectory(path string, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addParents(path, modTime)
	m.nodes[path] = &MockNode{
		IsDirectory: true,
		CreatedAt:   modTime,
		ModTime:     modTime,
		AccessedAt:  modTime,
	}
}

// AddFile adds a regular file, creating missing parents.
func (m *MockFilesystemManager) AddFile(path string, size int64, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addParents(path, modTime)
	m.nodes[path] = &MockNode{
		Size:       size,
		CreatedAt:  modTime,
		ModTime:    modTime,
		AccessedAt: modTime,
	}
}

// AddSymlink adds a symbolic link. Its target is irrelevant since links
// are never followed.
func (m *MockFilesystemManager) AddSymlink(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	m.addParents(path, now)
	m.nodes[path] = &MockNode{IsSymlink: true, CreatedAt: now, ModTime: now, AccessedAt: now}
}

// Touch sets the modification time of an existing node.
func (m *MockFilesystemManager) Touch(path string, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.nodes[path]; ok {
		n.ModTime = modTime
	}
}

// Remove deletes a node and everything below it.
func (m *MockFilesystemManager) Remove(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := path + "/"
	for p := range m.nodes {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(m.nodes, p)
		}
	}
}

// Ignore marks a path as matched by ignore rules.
func (m *MockFilesystemManager) Ignore(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ignored[path] = true
}

// Vanish makes a listed node disappear when its metadata is read,
// simulating a concurrent delete during a walk.
func (m *MockFilesystemManager) Vanish(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vanishing[path] = true
}

// FailReadDir makes ReadDir of path return err.
func (m *MockFilesystemManager) FailReadDir(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErrs[path] = err
}

// Link makes path a symlinked alias of target for Canonical. Nodes below
// path are not created; add them under whichever form a test walks.
func (m *MockFilesystemManager) Link(path, target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[path] = target
}

func (m *MockFilesystemManager) addParents(path string, t time.Time) {
	for dir := filepath.Dir(path); dir != "/" && dir != "."; dir = filepath.Dir(dir) {
		if _, ok := m.nodes[dir]; ok {
			continue
		}
		m.nodes[dir] = &MockNode{IsDirectory: true, CreatedAt: t, ModTime: t, AccessedAt: t}
	}
}

func (m *MockFilesystemManager) ResolveRoot(rawPath string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	absPath := filepath.Clean(rawPath)
	n, ok := m.nodes[absPath]
	if !ok {
		return "", fmt.Errorf("stat %s: %w", absPath, fs.ErrNotExist)
	}
	if !n.IsDirectory {
		return "", fmt.Errorf("not a directory: %s", absPath)
	}
	return absPath, nil
}

func (m *MockFilesystemManager) ReadDir(dir string) ([]fs.DirEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.readErrs[dir]; ok {
		return nil, err
	}
	n, ok := m.nodes[dir]
	if !ok {
		return nil, fmt.Errorf("reading %s: %w", dir, fs.ErrNotExist)
	}
	if !n.IsDirectory {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	var names []string
	for p := range m.nodes {
		if filepath.Dir(p) == dir && p != dir {
			names = append(names, filepath.Base(p))
		}
	}
	sort.Strings(names)

	entries := make([]fs.DirEntry, 0, len(names))
	for _, name := range names {
		node := m.nodes[filepath.Join(dir, name)]
		entries = append(entries, fs.FileInfoToDirEntry(&mockFileInfo{name: name, node: node}))
	}
	return entries, nil
}

func (m *MockFilesystemManager) Describe(path string) (xray.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[path]
	if !ok || m.vanishing[path] {
		return xray.Entry{}, &xray.NotFoundError{Path: path, Err: fs.ErrNotExist}
	}
	return xray.Entry{
		Path:       path,
		Name:       filepath.Base(path),
		Size:       n.Size,
		CreatedAt:  xray.TimestampOf(n.CreatedAt),
		ModifiedAt: xray.TimestampOf(n.ModTime),
		AccessedAt: xray.TimestampOf(n.AccessedAt),
	}, nil
}

func (m *MockFilesystemManager) IsIgnored(_ string, path string, _ bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ignored[path], nil
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name string
	node *MockNode
}

func (i *mockFileInfo) Name() string { return i.name }
func (i *mockFileInfo) Size() int64  { return i.node.Size }
func (i *mockFileInfo) Mode() fs.FileMode {
	switch {
	case i.node.IsSymlink:
		return fs.ModeSymlink | 0777
	case i.node.IsDirectory:
		return fs.ModeDir | 0755
	default:
		return 0644
	}
}
func (i *mockFileInfo) ModTime() time.Time { return i.node.ModTime }
func (i *mockFileInfo) IsDir() bool        { return i.node.IsDirectory }
func (i *mockFileInfo) Sys() any           { return i.node }

// Canonical rewrites the longest linked prefix of path to its target.
func (m *MockFilesystemManager) Canonical(path string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	best := ""
	for link := range m.links {
		if (path == link || strings.HasPrefix(path, link+"/")) && len(link) > len(best) {
			best = link
		}
	}
	if best == "" {
		return path
	}
	return m.links[best] + strings.TrimPrefix(path, best)
}

// Compile-time check
var _ xray.FilesystemManager = (*MockFilesystemManager)(nil)
