package xray

import (
	"math"
	"time"
)

// Timestamp is a point in time expressed as seconds since the Unix epoch,
// with sub-second precision in the fractional part. It is the unit stored
// in xray artifacts, so entries compare identically before and after a
// save/load round trip.
type Timestamp float64

// TimestampOf converts t to a Timestamp.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp(float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second))
}

// Time converts the timestamp back to a time.Time in the local zone.
func (ts Timestamp) Time() time.Time {
	sec, frac := math.Modf(float64(ts))
	return time.Unix(int64(sec), int64(math.Round(frac*float64(time.Second))))
}

// Entry describes one directory or regular file as it was at capture time.
// Entries are never mutated after a walk produces them.
type Entry struct {
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	CreatedAt  Timestamp `json:"created_at"`
	ModifiedAt Timestamp `json:"modified_at"`
	AccessedAt Timestamp `json:"accessed_at"`
}

// Paths returns the paths of entries in their original order.
func Paths(entries []Entry) []string {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}
