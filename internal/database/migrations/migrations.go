// Package migrations owns the catalog schema. The SQL files are embedded
// and applied with golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed files/*.sql
var schemaFiles embed.FS

var (
	ErrSchemaMissing = errors.New("catalog has no schema version")
	ErrSchemaDirty   = errors.New("catalog schema is dirty")
	ErrSchemaBehind  = errors.New("catalog schema is behind this binary")
	ErrSchemaAhead   = errors.New("catalog schema is ahead of this binary")
)

// Status describes where a catalog's schema stands relative to the
// embedded migrations.
type Status struct {
	Version     uint
	Latest      uint
	Dirty       bool
	Initialized bool
}

// Err returns nil for an up-to-date schema and otherwise one of the
// ErrSchema sentinels, wrapped with the versions involved.
func (s Status) Err() error {
	switch {
	case !s.Initialized:
		return fmt.Errorf("%w: run migrations first", ErrSchemaMissing)
	case s.Dirty:
		return fmt.Errorf("%w at version %d: a previous migration failed", ErrSchemaDirty, s.Version)
	case s.Version < s.Latest:
		return fmt.Errorf("%w: at %d, latest is %d", ErrSchemaBehind, s.Version, s.Latest)
	case s.Version > s.Latest:
		return fmt.Errorf("%w: at %d, binary knows %d", ErrSchemaAhead, s.Version, s.Latest)
	default:
		return nil
	}
}

// ReadStatus inspects the schema version recorded in db.
func ReadStatus(db *sql.DB) (Status, error) {
	latest, err := LatestVersion()
	if err != nil {
		return Status{}, err
	}

	m, err := newMigrate(db)
	if err != nil {
		return Status{}, err
	}
	// m is not closed: closing it closes db, which the caller owns.

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{Latest: latest}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("reading schema version: %w", err)
	}
	return Status{Version: version, Latest: latest, Dirty: dirty, Initialized: true}, nil
}

// CheckDBMigrationStatus returns nil if the catalog schema is at the
// version this binary expects.
func CheckDBMigrationStatus(db *sql.DB) error {
	st, err := ReadStatus(db)
	if err != nil {
		return err
	}
	return st.Err()
}

// MigrateUp applies every pending migration.
func MigrateUp(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// LatestVersion returns the schema version the embedded migrations produce.
func LatestVersion() (uint, error) {
	src, err := openSchema()
	if err != nil {
		return 0, err
	}
	defer src.Close()
	return lastVersion(src)
}

func openSchema() (source.Driver, error) {
	src, err := iofs.New(schemaFiles, "files")
	if err != nil {
		return nil, fmt.Errorf("opening embedded schema: %w", err)
	}
	return src, nil
}

func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	src, err := openSchema()
	if err != nil {
		return nil, err
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("creating sqlite3 migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return m, nil
}

// lastVersion walks src to its final version. Next reports fs.ErrNotExist
// past the end.
func lastVersion(src source.Driver) (uint, error) {
	v, err := src.First()
	if err != nil {
		return 0, fmt.Errorf("reading first migration: %w", err)
	}
	for {
		next, err := src.Next(v)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return v, nil
		case err != nil:
			return 0, fmt.Errorf("reading migration after %d: %w", v, err)
		}
		v = next
	}
}
