//go:build linux

package fs

import (
	"io/fs"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// nodeTimes holds the timestamps fs.FileInfo does not expose portably.
type nodeTimes struct {
	created  time.Time
	accessed time.Time
}

// statTimes reads birth and access time with statx. Filesystems without
// birth time support fall back to the status change time.
func statTimes(path string, info fs.FileInfo) nodeTimes {
	var stx unix.Statx_t
	mask := unix.STATX_BTIME | unix.STATX_ATIME | unix.STATX_CTIME
	if err := unix.Statx(unix.AT_FDCWD, path, unix.AT_SYMLINK_NOFOLLOW, mask, &stx); err == nil {
		t := nodeTimes{
			accessed: time.Unix(stx.Atime.Sec, int64(stx.Atime.Nsec)),
			created:  time.Unix(stx.Ctime.Sec, int64(stx.Ctime.Nsec)),
		}
		if stx.Mask&unix.STATX_BTIME != 0 {
			t.created = time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
		}
		return t
	}

	// statx unavailable (old kernel or the node vanished): use the Lstat result.
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return nodeTimes{
			accessed: time.Unix(st.Atim.Sec, st.Atim.Nsec),
			created:  time.Unix(st.Ctim.Sec, st.Ctim.Nsec),
		}
	}
	return nodeTimes{created: info.ModTime(), accessed: info.ModTime()}
}
