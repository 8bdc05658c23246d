package model

import (
	"database/sql"
	"time"
)

// SnapshotRecord is the catalog row for one persisted xray artifact.
type SnapshotRecord struct {
	ID         string    // UUID
	Name       string    // Artifact name, e.g. xray_20240115_103000.xray
	RootPath   string    // Path the snapshot was captured from
	CapturedAt time.Time // Capture time recorded in the snapshot
	DirCount   int64
	FileCount  int64
	Size       int64 // Encoded artifact size in bytes
	CreatedAt  time.Time
}

// ComparisonRecord is the catalog row for one comparison of two artifacts.
type ComparisonRecord struct {
	ID            string // UUID
	PreviousName  string
	CurrentName   string
	DirsAdded     int64
	DirsModified  int64
	DirsRemoved   int64
	FilesAdded    int64
	FilesModified int64
	FilesRemoved  int64
	CreatedAt     time.Time
}

// Operation tracks a CLI command that wrote to the catalog.
type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	StartedAt  time.Time
	FinishedAt sql.NullTime
	Status     string // "running", "success" or "error"
}
