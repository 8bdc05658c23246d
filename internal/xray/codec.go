package xray

import (
	"encoding/json"
	"fmt"
	"io"
)

// EncodeSnapshot writes the persisted form of snap to w.
func EncodeSnapshot(w io.Writer, snap *Snapshot) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a snapshot in persisted form from r.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.Directories == nil {
		snap.Directories = []Entry{}
	}
	if snap.Files == nil {
		snap.Files = []Entry{}
	}
	return &snap, nil
}
