package xray

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

// Builder captures snapshots of directory trees.
//
// The walk is depth-first and visits children in lexicographic order, so
// two builds of an unchanged tree produce identical entry sequences.
// Symlinks are never followed and are not recorded; only directories and
// regular files become entries. The build is all-or-nothing: any error
// aborts it and no partial snapshot is returned.
type Builder struct {
	fsmgr   FilesystemManager
	clock   Clock
	logger  Logger
	exclude []string
}

// NewBuilder creates a Builder. Paths in exclude are skipped together with
// everything below them, which keeps a save directory that lives inside a
// captured tree out of its own snapshots. They match whether the tree is
// reached through the same path or through a symlinked parent.
func NewBuilder(fsmgr FilesystemManager, clock Clock, logger Logger, exclude ...string) *Builder {
	var ex []string
	for _, p := range exclude {
		if p != "" {
			ex = append(ex, p)
		}
	}
	return &Builder{
		fsmgr:   fsmgr,
		clock:   clock,
		logger:  orNop(logger),
		exclude: ex,
	}
}

// exclusion holds the excluded paths of one build, both as given and with
// symlinks resolved, plus the resolved root so walked paths can be
// compared in either form.
type exclusion struct {
	root     string
	realRoot string
	paths    map[string]bool
}

func (b *Builder) newExclusion(root string) *exclusion {
	ex := &exclusion{
		root:     root,
		realRoot: b.fsmgr.Canonical(root),
		paths:    make(map[string]bool, 2*len(b.exclude)),
	}
	for _, p := range b.exclude {
		if abs, err := filepath.Abs(p); err == nil {
			ex.paths[abs] = true
		}
		ex.paths[b.fsmgr.Canonical(p)] = true
	}
	return ex
}

// has reports whether p, a path below the root, is excluded.
// Walks never follow symlinks below the root, so the resolved form of p is
// the resolved root joined with p's path relative to the root.
func (ex *exclusion) has(p string) bool {
	if len(ex.paths) == 0 {
		return false
	}
	if ex.paths[p] {
		return true
	}
	rel, err := filepath.Rel(ex.root, p)
	if err != nil {
		return false
	}
	return ex.paths[filepath.Join(ex.realRoot, rel)]
}

// Build walks rootPath and returns a new snapshot of everything below it.
// The root itself is not included in the directory entries.
func (b *Builder) Build(rootPath string) (*Snapshot, error) {
	root, err := b.fsmgr.ResolveRoot(rootPath)
	if err != nil {
		return nil, &InvalidRootError{Path: rootPath, Err: err}
	}

	children, err := b.fsmgr.ReadDir(root)
	if err != nil {
		return nil, &InvalidRootError{Path: root, Err: err}
	}

	snap := &Snapshot{
		RootPath:    rootPath,
		CapturedAt:  TimestampOf(b.clock.Now()),
		Directories: []Entry{},
		Files:       []Entry{},
	}

	b.logger.Debug("walking tree", "root", root)
	if err := b.walk(root, root, children, b.newExclusion(root), snap); err != nil {
		return nil, err
	}

	b.logger.Info("snapshot built",
		"root", root,
		"directories", len(snap.Directories),
		"files", len(snap.Files),
	)
	return snap, nil
}

// walk records the given children of dir and descends into subdirectories.
func (b *Builder) walk(root, dir string, children []fs.DirEntry, ex *exclusion, snap *Snapshot) error {
	for _, child := range children {
		p := filepath.Join(dir, child.Name())
		mode := child.Type()
		isDir := mode.IsDir()

		if !isDir && !mode.IsRegular() {
			b.logger.Debug("skipping non-regular entry", "path", p, "mode", mode.String())
			continue
		}
		if ex.has(p) {
			b.logger.Debug("skipping excluded path", "path", p)
			continue
		}

		ignored, err := b.fsmgr.IsIgnored(root, p, isDir)
		if err != nil {
			return fmt.Errorf("checking ignore rules for %s: %w", p, err)
		}
		if ignored {
			continue
		}

		entry, err := b.fsmgr.Describe(p)
		if err != nil {
			return err
		}

		if !isDir {
			snap.Files = append(snap.Files, entry)
			continue
		}

		snap.Directories = append(snap.Directories, entry)

		grandchildren, err := b.fsmgr.ReadDir(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return &NotFoundError{Path: p, Err: err}
			}
			return fmt.Errorf("reading directory %s: %w", p, err)
		}
		if err := b.walk(root, p, grandchildren, ex, snap); err != nil {
			return err
		}
	}
	return nil
}
