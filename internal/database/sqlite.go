package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dirxray/internal/database/migrations"
	"dirxray/internal/model"
	"dirxray/internal/xray"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteCatalog implements the xray.Catalog interface using SQLite.
type SQLiteCatalog struct {
	db    *sql.DB
	path  string
	clock xray.Clock
}

// NewSQLiteCatalog opens the catalog at path, bringing its schema up to
// date. path can be a file path or ":memory:" for an in-memory catalog.
func NewSQLiteCatalog(path string, clock xray.Clock) (*SQLiteCatalog, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating catalog: %w", err)
	}
	return NewSQLiteCatalogFromDB(db, path, clock), nil
}

// NewSQLiteCatalogFromDB wraps an existing, already migrated connection.
func NewSQLiteCatalogFromDB(db *sql.DB, path string, clock xray.Clock) *SQLiteCatalog {
	if clock == nil {
		clock = xray.RealClock{}
	}
	return &SQLiteCatalog{db: db, path: path, clock: clock}
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every pooled connection to ":memory:" would be a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Snapshot operations

const snapshotColumns = `id, name, root_path, captured_at, dir_count, file_count, size, created_at`

func (c *SQLiteCatalog) RecordSnapshot(rec *model.SnapshotRecord) error {
	_, err := c.db.ExecContext(context.Background(),
		`INSERT INTO snapshots (`+snapshotColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.RootPath, rec.CapturedAt, rec.DirCount, rec.FileCount, rec.Size, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording snapshot %s: %w", rec.Name, err)
	}
	return nil
}

func (c *SQLiteCatalog) FindSnapshotByName(name string) (*model.SnapshotRecord, error) {
	row := c.db.QueryRowContext(context.Background(),
		`SELECT `+snapshotColumns+` FROM snapshots WHERE name = ?`, name)

	rec, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding snapshot by name: %w", err)
	}
	return rec, nil
}

func (c *SQLiteCatalog) ListSnapshots() ([]*model.SnapshotRecord, error) {
	rows, err := c.db.QueryContext(context.Background(),
		`SELECT `+snapshotColumns+` FROM snapshots ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var result []*model.SnapshotRecord
	for rows.Next() {
		rec, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	return result, nil
}

// Comparison operations

const comparisonColumns = `id, previous_name, current_name,
	dirs_added, dirs_modified, dirs_removed,
	files_added, files_modified, files_removed, created_at`

func (c *SQLiteCatalog) RecordComparison(rec *model.ComparisonRecord) error {
	_, err := c.db.ExecContext(context.Background(),
		`INSERT INTO comparisons (`+comparisonColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.PreviousName, rec.CurrentName,
		rec.DirsAdded, rec.DirsModified, rec.DirsRemoved,
		rec.FilesAdded, rec.FilesModified, rec.FilesRemoved, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording comparison: %w", err)
	}
	return nil
}

func (c *SQLiteCatalog) ListComparisons(limit int) ([]*model.ComparisonRecord, error) {
	rows, err := c.db.QueryContext(context.Background(),
		`SELECT `+comparisonColumns+` FROM comparisons ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing comparisons: %w", err)
	}
	defer rows.Close()

	var result []*model.ComparisonRecord
	for rows.Next() {
		var rec model.ComparisonRecord
		err := rows.Scan(&rec.ID, &rec.PreviousName, &rec.CurrentName,
			&rec.DirsAdded, &rec.DirsModified, &rec.DirsRemoved,
			&rec.FilesAdded, &rec.FilesModified, &rec.FilesRemoved, &rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning comparison: %w", err)
		}
		result = append(result, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing comparisons: %w", err)
	}
	return result, nil
}

// Operation tracking

func (c *SQLiteCatalog) CreateOperation(operation string, parameters string) (*model.Operation, error) {
	op := &model.Operation{
		Operation:  operation,
		Parameters: parameters,
		StartedAt:  c.clock.Now(),
		Status:     "running",
	}
	res, err := c.db.ExecContext(context.Background(),
		`INSERT INTO operations (operation, parameters, started_at, status) VALUES (?, ?, ?, ?)`,
		op.Operation, op.Parameters, op.StartedAt, op.Status)
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	op.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading operation id: %w", err)
	}
	return op, nil
}

func (c *SQLiteCatalog) FinishOperation(id int64, status string) error {
	res, err := c.db.ExecContext(context.Background(),
		`UPDATE operations SET finished_at = ?, status = ? WHERE id = ?`,
		c.clock.Now(), status, id)
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finishing operation: no operation with id %d", id)
	}
	return nil
}

func (c *SQLiteCatalog) ListOperations(limit int) ([]*model.Operation, error) {
	rows, err := c.db.QueryContext(context.Background(),
		`SELECT id, operation, parameters, started_at, finished_at, status
		 FROM operations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var result []*model.Operation
	for rows.Next() {
		var op model.Operation
		if err := rows.Scan(&op.ID, &op.Operation, &op.Parameters, &op.StartedAt, &op.FinishedAt, &op.Status); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		result = append(result, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return result, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (c *SQLiteCatalog) Path() string {
	return c.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (c *SQLiteCatalog) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(c.db)
}

// Close closes the database connection.
func (c *SQLiteCatalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*model.SnapshotRecord, error) {
	var rec model.SnapshotRecord
	err := row.Scan(&rec.ID, &rec.Name, &rec.RootPath, &rec.CapturedAt,
		&rec.DirCount, &rec.FileCount, &rec.Size, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Compile-time check that SQLiteCatalog implements xray.Catalog interface
var _ xray.Catalog = (*SQLiteCatalog)(nil)
