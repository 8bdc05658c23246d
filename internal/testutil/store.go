package testutil

import (
	"dirxray/internal/store"
	"dirxray/internal/xray"
)

// NewTestStore creates a new in-memory artifact store whose storage times
// come from clock.
func NewTestStore(clock xray.Clock) *store.MemoryStore {
	return store.NewMemoryStore(clock)
}
