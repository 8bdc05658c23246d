package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirxray/internal/xray"
)

func TestResolveRoot(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	link := filepath.Join(root, "link")
	require.NoError(t, os.Symlink(root, link))

	m := NewOSFilesystemManager(nil)

	t.Run("directory", func(t *testing.T) {
		got, err := m.ResolveRoot(root)
		require.NoError(t, err)
		assert.Equal(t, root, got)
	})

	t.Run("relative path is made absolute", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(root))
		t.Cleanup(func() { _ = os.Chdir(wd) })
		got, err := m.ResolveRoot(".")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
	})

	t.Run("symlink to directory", func(t *testing.T) {
		got, err := m.ResolveRoot(link)
		require.NoError(t, err)
		assert.Equal(t, link, got)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := m.ResolveRoot(filepath.Join(root, "nope"))
		assert.ErrorIs(t, err, iofs.ErrNotExist)
	})

	t.Run("regular file", func(t *testing.T) {
		_, err := m.ResolveRoot(file)
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := m.ResolveRoot("")
		assert.Error(t, err)
	})
}

func TestReadDir(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"c.txt", "a.txt", "b"} {
		if name == "b" {
			require.NoError(t, os.Mkdir(filepath.Join(root, name), 0o755))
			continue
		}
		require.NoError(t, os.WriteFile(filepath.Join(root, name), nil, 0o644))
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "b"), filepath.Join(root, "d")))

	entries, err := NewOSFilesystemManager(nil).ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	assert.Equal(t, []string{"a.txt", "b", "c.txt", "d"}, names)
	assert.True(t, entries[1].IsDir())
	assert.Equal(t, iofs.ModeSymlink, entries[3].Type()&iofs.ModeSymlink)
}

func TestDescribe(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	mtime := time.Date(2023, 6, 1, 12, 0, 0, 250_000_000, time.UTC)
	atime := time.Date(2023, 6, 2, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, atime, mtime))

	got, err := NewOSFilesystemManager(nil).Describe(path)
	require.NoError(t, err)

	assert.Equal(t, path, got.Path)
	assert.Equal(t, "data.bin", got.Name)
	assert.Equal(t, int64(5), got.Size)
	assert.Equal(t, xray.TimestampOf(mtime), got.ModifiedAt)
	assert.InDelta(t, float64(xray.TimestampOf(atime)), float64(got.AccessedAt), 1e-3)
	assert.NotZero(t, got.CreatedAt)
}

func TestDescribe_Vanished(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone")

	_, err := NewOSFilesystemManager(nil).Describe(path)

	var nf *xray.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, path, nf.Path)
	assert.ErrorIs(t, err, iofs.ErrNotExist)
}

func TestBuild_RealTree(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret"), nil, 0o644))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "pkg"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "build"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "xrays"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "pkg", "main.go"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "build", "out"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "xrays", "xray_20240101_000000.xray"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "debug.log"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, IgnoreFileName), []byte("build/\n"), 0o644))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "escape")))

	m := NewOSFilesystemManager([]string{"*.log"})
	b := xray.NewBuilder(m, xray.RealClock{}, nil, filepath.Join(root, "xrays"))

	got, err := b.Build(root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "src"),
		filepath.Join(root, "src", "pkg"),
	}, xray.Paths(got.Directories))
	assert.Equal(t, []string{
		filepath.Join(root, "src", "pkg", "main.go"),
	}, xray.Paths(got.Files))
}

func TestBuild_NestedIgnoreFileIsCaptured(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", IgnoreFileName), []byte("*.txt\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "a.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, IgnoreFileName), nil, 0o644))

	got, err := xray.NewBuilder(NewOSFilesystemManager(nil), xray.RealClock{}, nil).Build(root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "sub", IgnoreFileName),
		filepath.Join(root, "sub", "a.txt"),
	}, xray.Paths(got.Files))
}

func TestCanonical(t *testing.T) {
	base := t.TempDir()
	realDir := filepath.Join(base, "real")
	require.NoError(t, os.Mkdir(realDir, 0o755))
	link := filepath.Join(base, "link")
	require.NoError(t, os.Symlink(realDir, link))

	m := NewOSFilesystemManager(nil)
	resolvedBase, err := filepath.EvalSymlinks(base)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(resolvedBase, "real"), m.Canonical(link))
	assert.Equal(t, filepath.Join(resolvedBase, "real"), m.Canonical(realDir))

	missing := filepath.Join(link, "not-yet")
	assert.Equal(t, missing, m.Canonical(missing))
}

func TestBuild_ExcludeThroughSymlinkedParent(t *testing.T) {
	base := t.TempDir()
	realRoot := filepath.Join(base, "real")
	linkRoot := filepath.Join(base, "link")
	require.NoError(t, os.MkdirAll(filepath.Join(realRoot, "xrays"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(realRoot, "xrays", "xray_20240101_000000.xray"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(realRoot, "data.bin"), nil, 0o644))
	require.NoError(t, os.Symlink(realRoot, linkRoot))

	tests := []struct {
		name    string
		root    string
		exclude string
	}{
		{name: "walk link, exclude real", root: linkRoot, exclude: filepath.Join(realRoot, "xrays")},
		{name: "walk real, exclude link", root: realRoot, exclude: filepath.Join(linkRoot, "xrays")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := xray.NewBuilder(NewOSFilesystemManager(nil), xray.RealClock{}, nil, tt.exclude)

			got, err := b.Build(tt.root)
			require.NoError(t, err)

			assert.Empty(t, got.Directories)
			assert.Equal(t, []string{filepath.Join(tt.root, "data.bin")}, xray.Paths(got.Files))
		})
	}
}
