package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileSystemStore(t *testing.T) {
	t.Run("creates missing save directory", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "a", "b")

		s, err := NewFileSystemStore(root)
		require.NoError(t, err)

		info, err := os.Stat(root)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, root, s.Root())
	})

	t.Run("empty root", func(t *testing.T) {
		_, err := NewFileSystemStore("")
		assert.Error(t, err)
	})
}

func TestFileSystemStore_ListSkipsForeignEntries(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileSystemStore(root)
	require.NoError(t, err)

	put(t, s, "xray_20240115_103000.xray", "a")
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "hand-named.xray"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "dir.xray"), 0755))
	require.NoError(t, os.Symlink(filepath.Join(root, "xray_20240115_103000.xray"), filepath.Join(root, "link.xray")))

	infos, err := s.List()
	require.NoError(t, err)

	var names []string
	for _, info := range infos {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{"hand-named.xray", "xray_20240115_103000.xray"}, names)
}

func TestFileSystemStore_AtomicWrite(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileSystemStore(root)
	require.NoError(t, err)

	put(t, s, "xray_20240115_103000.xray", "payload")
	require.Error(t, s.Put("xray_20240115_113000.xray", strings.NewReader("short"), 99))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "temp file left behind: %s", e.Name())
	}
	assert.Len(t, entries, 1)
}

func TestFileSystemStore_ValidateSetup(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileSystemStore(root)
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(root))
	assert.Error(t, s.ValidateSetup())

	require.NoError(t, os.WriteFile(root, []byte("x"), 0644))
	assert.Error(t, s.ValidateSetup())
}
