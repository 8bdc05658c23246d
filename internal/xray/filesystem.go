package xray

import "io/fs"

// FilesystemManager provides an interface for the filesystem reads a
// snapshot walk needs. It abstracts file access to enable testing without
// touching the real filesystem.
type FilesystemManager interface {
	// ResolveRoot turns a raw path into the absolute path of an existing,
	// readable directory. Symlinks in the root path itself are followed.
	ResolveRoot(rawPath string) (string, error)

	// ReadDir lists the children of a directory, sorted by name.
	// Symlinks are reported as symlinks and never followed.
	ReadDir(dir string) ([]fs.DirEntry, error)

	// Describe reads the metadata of a single node without following
	// symlinks. If the node no longer exists it returns a *NotFoundError.
	Describe(path string) (Entry, error)

	// IsIgnored reports whether path, located under root, is excluded by
	// configured ignore patterns or the root's ignore file.
	IsIgnored(root string, path string, isDir bool) (bool, error)

	// Canonical returns the absolute form of path with symlinks resolved.
	// When path cannot be resolved (for example because it does not exist
	// yet) the absolute path is returned unchanged.
	Canonical(path string) string
}
