package app

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"dirxray/internal/config"
	"dirxray/internal/database"
	"dirxray/internal/encryption"
	"dirxray/internal/fs"
	"dirxray/internal/model"
	"dirxray/internal/store"
	"dirxray/internal/xray"
)

// XrayApp is the application layer between the CLI and xray.Service.
// It constructs all dependencies from config, exposes the operations the
// commands need, and manages the catalog lifecycle on Close.
type XrayApp struct {
	cfg       *config.Config
	catalog   *database.SQLiteCatalog
	store     xray.Store
	encryptor xray.Encryptor
	service   *xray.Service
	op        *Operation
	logFile   *os.File
}

// NewXrayApp creates a fully wired XrayApp from the given config.
// operation identifies the CLI command being run (e.g. "snapshot", "compare").
// The caller must call Close when done.
func NewXrayApp(ctx context.Context, cfg *config.Config, operation string) (*XrayApp, error) {
	clock := xray.RealClock{}

	orderBy, err := xray.ParseOrderBy(cfg.Compare.OrderBy)
	if err != nil {
		return nil, fmt.Errorf("reading compare settings: %w", err)
	}

	st, err := store.NewStoreFromConfig(ctx, cfg, clock)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}
	if err := st.ValidateSetup(); err != nil {
		return nil, fmt.Errorf("validating store: %w", err)
	}

	catalog, err := database.NewCatalogFromConfig(cfg.Catalog, clock)
	if err != nil {
		return nil, fmt.Errorf("creating catalog: %w", err)
	}
	if err := catalog.CheckMigrations(); err != nil {
		catalog.Close()
		return nil, fmt.Errorf("catalog schema out of date: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		catalog.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		catalog.Close()
		return nil, err
	}
	opID := clock.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID, level)
	if err != nil {
		catalog.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc := xray.NewService(
		fs.NewOSFilesystemManager(cfg.Filesystem.Ignore),
		st,
		catalog,
		enc,
		&slogAdapter{l: logger},
		clock,
		xray.UUIDGenerator{},
		xray.Options{OrderBy: orderBy, Exclude: stateDirs(cfg)},
	)

	return &XrayApp{
		cfg:       cfg,
		catalog:   catalog,
		store:     st,
		encryptor: enc,
		service:   svc,
		op:        NewOperation(operation, ""),
		logFile:   logFile,
	}, nil
}

// stateDirs lists the directories xray writes to. They are never captured,
// so snapshotting a tree that contains them does not report xray's own churn.
func stateDirs(cfg *config.Config) []string {
	var dirs []string
	if cfg.Store.Type == "" || cfg.Store.Type == "filesystem" {
		dirs = append(dirs, cfg.SaveDir)
	}
	if cfg.Catalog.Type == "" || cfg.Catalog.Type == "sqlite" {
		dirs = append(dirs, cfg.Catalog.DataDir)
	}
	return append(dirs, cfg.LogDir)
}

// persistOperation saves the operation to the catalog, giving it an
// auto-increment ID. Only commands that record something call it.
func (a *XrayApp) persistOperation(parameters string) error {
	if a.op.Persisted() {
		return nil
	}
	a.op.Parameters = parameters
	dbOp, err := a.catalog.CreateOperation(a.op.Operation, a.op.Parameters)
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = dbOp.ID
	return nil
}

// CreateSnapshot captures the tree at rawPath and saves it as a new xray.
func (a *XrayApp) CreateSnapshot(rawPath string) (*xray.Snapshot, error) {
	if err := a.persistOperation(rawPath); err != nil {
		return nil, err
	}
	snap, err := a.service.CreateSnapshot(rawPath)
	if err != nil {
		a.op.Fail()
		return nil, err
	}
	return snap, nil
}

// ListSnapshots returns the xrays in the store, sorted by name.
func (a *XrayApp) ListSnapshots() ([]*xray.SnapshotInfo, error) {
	return a.service.ListSnapshots()
}

// Compare compares two xrays. Each reference is either an artifact name
// or a 1-based index into ListSnapshots.
func (a *XrayApp) Compare(refA, refB string, passphrase string) (*xray.Report, error) {
	if err := a.persistOperation(refA + " " + refB); err != nil {
		return nil, err
	}

	report, err := a.compare(refA, refB, passphrase)
	if err != nil {
		a.op.Fail()
		return nil, err
	}
	return report, nil
}

func (a *XrayApp) compare(refA, refB string, passphrase string) (*xray.Report, error) {
	var infos []*xray.SnapshotInfo
	resolve := func(ref string) (string, error) {
		n, err := strconv.Atoi(ref)
		if err != nil || strings.HasSuffix(ref, xray.ArtifactExt) {
			return ref, nil
		}
		if infos == nil {
			if infos, err = a.service.ListSnapshots(); err != nil {
				return "", err
			}
		}
		if n < 1 || n > len(infos) {
			return "", fmt.Errorf("no xray #%d (%d listed)", n, len(infos))
		}
		return infos[n-1].Name, nil
	}

	nameA, err := resolve(refA)
	if err != nil {
		return nil, err
	}
	nameB, err := resolve(refB)
	if err != nil {
		return nil, err
	}
	return a.service.CompareSnapshots(nameA, nameB, passphrase)
}

// GetHistory returns the most recent catalog operations.
func (a *XrayApp) GetHistory(limit int) ([]*model.Operation, error) {
	return a.service.GetHistory(limit)
}

// GetComparisons returns the most recent comparison summaries.
func (a *XrayApp) GetComparisons(limit int) ([]*model.ComparisonRecord, error) {
	return a.service.GetComparisons(limit)
}

// RequiresPassphrase reports whether reading xrays needs a passphrase.
func (a *XrayApp) RequiresPassphrase() bool {
	return a.encryptor.RequiresPassphrase()
}

// SetupEncryption generates the key pair of the configured encryptor.
func (a *XrayApp) SetupEncryption(passphrase string) error {
	if err := a.persistOperation(a.cfg.Encryption.Type); err != nil {
		return err
	}
	if err := a.encryptor.Setup(passphrase); err != nil {
		a.op.Fail()
		return err
	}
	return nil
}

// Close finalizes the operation record and closes all resources.
func (a *XrayApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.catalog.FinishOperation(a.op.ID, a.op.Status); err != nil {
			firstErr = fmt.Errorf("finishing operation: %w", err)
		}
	}

	if err := a.catalog.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing catalog: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
