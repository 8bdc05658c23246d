//go:build !linux

package fs

import (
	"io/fs"
	"time"
)

// nodeTimes holds the timestamps fs.FileInfo does not expose portably.
type nodeTimes struct {
	created  time.Time
	accessed time.Time
}

// statTimes falls back to the modification time on platforms where
// creation and access times are not read.
func statTimes(_ string, info fs.FileInfo) nodeTimes {
	return nodeTimes{created: info.ModTime(), accessed: info.ModTime()}
}
