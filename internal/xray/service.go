package xray

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"

	"dirxray/internal/model"
)

// maxNameAttempts bounds the search for a free artifact name within one second.
const maxNameAttempts = 1000

// Service is the orchestration layer that coordinates the builder, the
// artifact store, the catalog and encryption for the operations the CLI
// needs.
type Service struct {
	fsmgr     FilesystemManager
	store     Store
	catalog   Catalog
	encryptor Encryptor
	logger    Logger
	clock     Clock
	idgen     IDGenerator
	opts      Options
}

// Options holds the policy knobs of a Service.
type Options struct {
	// OrderBy selects how the newer of two snapshots is determined.
	OrderBy OrderBy
	// Exclude lists absolute paths never captured, typically the save directory.
	Exclude []string
}

// NewService creates a new Service with the provided dependencies.
func NewService(fsmgr FilesystemManager, store Store, catalog Catalog, encryptor Encryptor, logger Logger, clock Clock, idgen IDGenerator, opts Options) *Service {
	if opts.OrderBy == "" {
		opts.OrderBy = OrderByStored
	}
	return &Service{
		fsmgr:     fsmgr,
		store:     store,
		catalog:   catalog,
		encryptor: encryptor,
		logger:    orNop(logger),
		clock:     clock,
		idgen:     idgen,
		opts:      opts,
	}
}

// CreateSnapshot captures rootPath, persists the artifact and records it
// in the catalog. The returned snapshot carries its artifact name.
func (s *Service) CreateSnapshot(rootPath string) (*Snapshot, error) {
	builder := NewBuilder(s.fsmgr, s.clock, s.logger, s.opts.Exclude...)
	snap, err := builder.Build(rootPath)
	if err != nil {
		return nil, err
	}

	name, err := s.freeName(snap)
	if err != nil {
		return nil, err
	}

	var plain bytes.Buffer
	if err := EncodeSnapshot(&plain, snap); err != nil {
		return nil, err
	}
	var sealed bytes.Buffer
	if err := s.encryptor.Encrypt(&plain, &sealed); err != nil {
		return nil, fmt.Errorf("encrypting snapshot: %w", err)
	}
	size := int64(sealed.Len())

	if err := s.store.Put(name, &sealed, size); err != nil {
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}
	snap.Name = name

	rec := &model.SnapshotRecord{
		ID:         s.idgen.New(),
		Name:       name,
		RootPath:   snap.RootPath,
		CapturedAt: snap.CapturedAt.Time(),
		DirCount:   int64(len(snap.Directories)),
		FileCount:  int64(len(snap.Files)),
		Size:       size,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.catalog.RecordSnapshot(rec); err != nil {
		// The artifact stays in the store; listing reads it back without a record.
		s.logger.Warn("artifact kept without catalog record", "name", name, "error", err)
		return nil, fmt.Errorf("recording snapshot in catalog: %w", err)
	}

	s.logger.Info("snapshot saved", "name", name, "root", snap.RootPath, "size", size)
	return snap, nil
}

// freeName returns the first artifact name for the snapshot's capture
// time that is not already taken in the store.
func (s *Service) freeName(snap *Snapshot) (string, error) {
	captured := snap.CapturedAt.Time()
	for seq := 0; seq < maxNameAttempts; seq++ {
		name := ArtifactName(captured, seq)
		_, err := s.store.Stat(name)
		if errors.Is(err, fs.ErrNotExist) {
			return name, nil
		}
		if err != nil {
			return "", fmt.Errorf("checking artifact name %s: %w", name, err)
		}
	}
	return "", fmt.Errorf("no free artifact name for capture time %s", captured.Format(artifactTimeLayout))
}

// ListSnapshots enumerates the artifacts in the store. Root path and
// counts come from the catalog; artifacts the catalog does not know are
// read to find their root path, unless that needs a passphrase.
func (s *Service) ListSnapshots() ([]*SnapshotInfo, error) {
	artifacts, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("listing artifacts: %w", err)
	}

	var dec DecryptionContext
	if !s.encryptor.RequiresPassphrase() {
		dec, err = s.encryptor.Unlock("")
		if err != nil {
			return nil, fmt.Errorf("unlocking artifacts: %w", err)
		}
	}

	infos := make([]*SnapshotInfo, 0, len(artifacts))
	for _, a := range artifacts {
		info := &SnapshotInfo{
			Name:     a.Name,
			Size:     a.Size,
			StoredAt: a.StoredAt,
		}
		if t, ok := ParseArtifactName(a.Name); ok {
			info.CapturedAt = t
		}

		rec, err := s.catalog.FindSnapshotByName(a.Name)
		if err != nil {
			return nil, fmt.Errorf("looking up %s in catalog: %w", a.Name, err)
		}
		switch {
		case rec != nil:
			info.ID = rec.ID
			info.RootPath = rec.RootPath
			info.CapturedAt = rec.CapturedAt
			info.DirCount = int(rec.DirCount)
			info.FileCount = int(rec.FileCount)
		case dec != nil:
			snap, err := s.load(a.Name, dec)
			if err != nil {
				// An unreadable artifact is still listed; comparing it reports the failure.
				s.logger.Warn("artifact unreadable", "name", a.Name, "error", err)
				break
			}
			info.RootPath = snap.RootPath
			info.CapturedAt = snap.CapturedAt.Time()
			info.DirCount = len(snap.Directories)
			info.FileCount = len(snap.Files)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// CompareSnapshots loads two artifacts and compares them. The order of
// the names does not matter; the ordering policy decides which is newer.
// passphrase is only used when the encryptor requires one.
func (s *Service) CompareSnapshots(nameA, nameB string, passphrase string) (*Report, error) {
	dec, err := s.encryptor.Unlock(passphrase)
	if err != nil {
		return nil, fmt.Errorf("unlocking artifacts: %w", err)
	}

	a, err := s.load(nameA, dec)
	if err != nil {
		return nil, err
	}
	b, err := s.load(nameB, dec)
	if err != nil {
		return nil, err
	}

	report := CompareWith(s.opts.OrderBy, a, b)

	rec := &model.ComparisonRecord{
		ID:            s.idgen.New(),
		PreviousName:  report.Previous.Name,
		CurrentName:   report.Current.Name,
		DirsAdded:     int64(len(report.Directories.Added)),
		DirsModified:  int64(len(report.Directories.Modified)),
		DirsRemoved:   int64(len(report.Directories.Removed)),
		FilesAdded:    int64(len(report.Files.Added)),
		FilesModified: int64(len(report.Files.Modified)),
		FilesRemoved:  int64(len(report.Files.Removed)),
		CreatedAt:     s.clock.Now(),
	}
	if err := s.catalog.RecordComparison(rec); err != nil {
		return nil, fmt.Errorf("recording comparison in catalog: %w", err)
	}

	s.logger.Info("snapshots compared",
		"previous", report.Previous.Name,
		"current", report.Current.Name,
		"dir_changes", report.Directories.Len(),
		"file_changes", report.Files.Len(),
	)
	return report, nil
}

// load reads, decrypts and decodes one artifact. Every failure is reported
// as a *MissingArtifactError.
func (s *Service) load(name string, dec DecryptionContext) (*Snapshot, error) {
	var sealed bytes.Buffer
	info, err := s.store.Get(name, &sealed)
	if err != nil {
		return nil, &MissingArtifactError{Name: name, Err: err}
	}

	var plain bytes.Buffer
	if err := dec.Decrypt(&sealed, &plain); err != nil {
		return nil, &MissingArtifactError{Name: name, Err: fmt.Errorf("decrypting: %w", err)}
	}

	snap, err := DecodeSnapshot(&plain)
	if err != nil {
		return nil, &MissingArtifactError{Name: name, Err: err}
	}
	snap.Name = name
	snap.StoredAt = info.StoredAt
	return snap, nil
}

// GetHistory returns the most recent catalog operations, newest first.
func (s *Service) GetHistory(limit int) ([]*model.Operation, error) {
	ops, err := s.catalog.ListOperations(limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}

// GetComparisons returns the most recent comparisons, newest first.
func (s *Service) GetComparisons(limit int) ([]*model.ComparisonRecord, error) {
	recs, err := s.catalog.ListComparisons(limit)
	if err != nil {
		return nil, fmt.Errorf("listing comparisons: %w", err)
	}
	return recs, nil
}
