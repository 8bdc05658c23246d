package store

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"dirxray/internal/xray"
)

type memoryArtifact struct {
	data     []byte
	storedAt time.Time
}

// MemoryStore is an in-memory implementation of the Store interface.
// Storage times come from the injected clock, which makes it useful for
// testing recency ordering. This implementation is safe for concurrent use.
type MemoryStore struct {
	clock     xray.Clock
	artifacts map[string]memoryArtifact
	mu        sync.RWMutex
}

// NewMemoryStore creates a new empty in-memory store.
func NewMemoryStore(clock xray.Clock) *MemoryStore {
	if clock == nil {
		clock = xray.RealClock{}
	}
	return &MemoryStore{
		clock:     clock,
		artifacts: make(map[string]memoryArtifact),
	}
}

// Put stores an artifact. Existing artifacts are never overwritten.
func (m *MemoryStore) Put(name string, r io.Reader, size int64) error {
	if err := validateName(name); err != nil {
		return err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read artifact: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.artifacts[name]; ok {
		return alreadyExists(name)
	}
	m.artifacts[name] = memoryArtifact{data: data, storedAt: m.clock.Now()}
	return nil
}

// Get writes the named artifact to w.
func (m *MemoryStore) Get(name string, w io.Writer) (xray.ArtifactInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.artifacts[name]
	if !ok {
		return xray.ArtifactInfo{}, notFound(name)
	}
	if _, err := io.Copy(w, bytes.NewReader(a.data)); err != nil {
		return xray.ArtifactInfo{}, fmt.Errorf("failed to write artifact: %w", err)
	}
	return a.info(name), nil
}

// Stat returns the info of an artifact.
func (m *MemoryStore) Stat(name string) (xray.ArtifactInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.artifacts[name]
	if !ok {
		return xray.ArtifactInfo{}, notFound(name)
	}
	return a.info(name), nil
}

// List returns all artifacts sorted by name.
func (m *MemoryStore) List() ([]xray.ArtifactInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]xray.ArtifactInfo, 0, len(m.artifacts))
	for name, a := range m.artifacts {
		infos = append(infos, a.info(name))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Delete removes an artifact. Tests use it to simulate a missing xray.
func (m *MemoryStore) Delete(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.artifacts, name)
}

// ValidateSetup always succeeds for the in-memory store.
func (m *MemoryStore) ValidateSetup() error {
	return nil
}

func (a memoryArtifact) info(name string) xray.ArtifactInfo {
	return xray.ArtifactInfo{Name: name, Size: int64(len(a.data)), StoredAt: a.storedAt}
}

// Compile-time check that MemoryStore implements xray.Store interface
var _ xray.Store = (*MemoryStore)(nil)
