package xray

import "time"

// Snapshot is a frozen record of a directory tree at one point in time.
// Two snapshots are only ever compared pairwise, never merged.
type Snapshot struct {
	// Name is the artifact name the snapshot was saved under.
	// It is empty until the snapshot has been persisted.
	Name string `json:"-"`

	RootPath    string    `json:"root_path"`
	CapturedAt  Timestamp `json:"captured_at"`
	Directories []Entry   `json:"directories"`
	Files       []Entry   `json:"files"`

	// StoredAt is the creation time of the persisted artifact as reported
	// by the store it was loaded from. Zero for snapshots that were never
	// loaded from a store.
	StoredAt time.Time `json:"-"`
}

// SnapshotInfo is a lightweight description of a persisted snapshot,
// used for listing artifacts without decoding their entries.
type SnapshotInfo struct {
	ID         string
	Name       string
	RootPath   string
	CapturedAt time.Time
	StoredAt   time.Time
	Size       int64
	DirCount   int
	FileCount  int
}

// Header returns the identifying fields of the snapshot.
func (s *Snapshot) Header() SnapshotHeader {
	return SnapshotHeader{
		Name:       s.Name,
		RootPath:   s.RootPath,
		CapturedAt: s.CapturedAt.Time(),
	}
}

// SnapshotHeader identifies one side of a comparison in a Report.
type SnapshotHeader struct {
	Name       string
	RootPath   string
	CapturedAt time.Time
}
