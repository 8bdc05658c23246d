package xray_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dirxray/internal/xray"
)

func TestCompare(t *testing.T) {
	older := snap("xray_20240115_103000.xray", t0, time.Time{})
	older.Directories = []xray.Entry{entry("/a/d1", 100), entry("/a/d2", 100)}
	older.Files = []xray.Entry{entry("/a/f1", 100), entry("/a/f3", 100)}

	newer := snap("xray_20240115_110000.xray", t0.Add(30*time.Minute), time.Time{})
	newer.Directories = []xray.Entry{entry("/a/d1", 100), entry("/a/d2", 150), entry("/a/d4", 100)}
	newer.Files = []xray.Entry{entry("/a/f1", 200), entry("/a/f2", 50)}

	for _, tt := range []struct {
		name string
		a, b *xray.Snapshot
	}{
		{name: "older first", a: older, b: newer},
		{name: "newer first", a: newer, b: older},
	} {
		t.Run(tt.name, func(t *testing.T) {
			r := xray.Compare(tt.a, tt.b)

			assert.Equal(t, older.Name, r.Previous.Name)
			assert.Equal(t, newer.Name, r.Current.Name)
			assert.Equal(t, "/srv", r.Current.RootPath)
			assert.True(t, r.Current.CapturedAt.Equal(t0.Add(30*time.Minute)))

			assert.Equal(t, []string{"/a/d4"}, xray.Paths(r.Directories.Added))
			assert.Equal(t, []string{"/a/d2"}, xray.Paths(r.Directories.Modified))
			assert.Empty(t, r.Directories.Removed)

			assert.Equal(t, []string{"/a/f2"}, xray.Paths(r.Files.Added))
			assert.Equal(t, []string{"/a/f1"}, xray.Paths(r.Files.Modified))
			assert.Equal(t, xray.Timestamp(200), r.Files.Modified[0].ModifiedAt)
			assert.Equal(t, []string{"/a/f3"}, xray.Paths(r.Files.Removed))
			assert.False(t, r.Empty())
		})
	}
}

func TestCompare_Identical(t *testing.T) {
	a := snap("a", t0, time.Time{})
	a.Files = []xray.Entry{entry("/x", 1)}
	b := snap("b", t0.Add(time.Second), time.Time{})
	b.Files = []xray.Entry{entry("/x", 1)}

	assert.True(t, xray.Compare(a, b).Empty())
}

func TestCompare_KindsAreIndependent(t *testing.T) {
	// A directory and a file sharing a path are diffed in separate namespaces.
	a := snap("a", t0, time.Time{})
	a.Directories = []xray.Entry{entry("/x", 1)}
	b := snap("b", t0.Add(time.Second), time.Time{})
	b.Files = []xray.Entry{entry("/x", 1)}

	r := xray.Compare(a, b)
	assert.Equal(t, []string{"/x"}, xray.Paths(r.Directories.Removed))
	assert.Equal(t, []string{"/x"}, xray.Paths(r.Files.Added))
}

func TestCompareWith_Captured(t *testing.T) {
	a := snap("a", t0, t0.Add(time.Hour))
	a.Files = []xray.Entry{entry("/only-in-a", 1)}
	b := snap("b", t0.Add(time.Minute), t0)

	r := xray.CompareWith(xray.OrderByCaptured, a, b)
	assert.Equal(t, "a", r.Previous.Name)
	assert.Equal(t, []string{"/only-in-a"}, xray.Paths(r.Files.Removed))

	r = xray.CompareWith(xray.OrderByStored, a, b)
	assert.Equal(t, "b", r.Previous.Name)
	assert.Equal(t, []string{"/only-in-a"}, xray.Paths(r.Files.Added))
}
