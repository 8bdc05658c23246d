package xray

import "dirxray/internal/model"

// Catalog indexes captured snapshots, comparisons and CLI operations.
// Finder methods return nil with no error when nothing matches.
type Catalog interface {
	// RecordSnapshot stores the metadata of a newly persisted artifact.
	RecordSnapshot(rec *model.SnapshotRecord) error

	// FindSnapshotByName returns the record for an artifact name.
	FindSnapshotByName(name string) (*model.SnapshotRecord, error)

	// ListSnapshots returns all snapshot records ordered by name.
	ListSnapshots() ([]*model.SnapshotRecord, error)

	// RecordComparison stores the summary of a comparison.
	RecordComparison(rec *model.ComparisonRecord) error

	// ListComparisons returns the most recent comparisons, newest first.
	ListComparisons(limit int) ([]*model.ComparisonRecord, error)

	// CreateOperation starts tracking a catalog-mutating command.
	CreateOperation(operation string, parameters string) (*model.Operation, error)

	// FinishOperation marks an operation as finished with the given status.
	FinishOperation(id int64, status string) error

	// ListOperations returns the most recent operations, newest first.
	ListOperations(limit int) ([]*model.Operation, error)

	// Close closes the underlying connection.
	Close() error
}
