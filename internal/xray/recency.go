package xray

import (
	"fmt"
	"time"
)

// OrderBy selects the primary timestamp used to decide which of two
// snapshots is newer.
type OrderBy string

const (
	// OrderByStored prefers the persisted artifact's creation time and falls
	// back to the capture time when either snapshot lacks one.
	OrderByStored OrderBy = "stored"

	// OrderByCaptured uses only the capture time recorded in the snapshot.
	OrderByCaptured OrderBy = "captured"
)

// ParseOrderBy validates a configured ordering policy. Empty means OrderByStored.
func ParseOrderBy(s string) (OrderBy, error) {
	switch OrderBy(s) {
	case "", OrderByStored:
		return OrderByStored, nil
	case OrderByCaptured:
		return OrderByCaptured, nil
	default:
		return "", fmt.Errorf("unknown snapshot ordering %q (want %q or %q)", s, OrderByStored, OrderByCaptured)
	}
}

// Order decides which of a and b is the previous and which the current
// state, using OrderByStored.
func Order(a, b *Snapshot) (previous, current *Snapshot) {
	return OrderWith(OrderByStored, a, b)
}

// OrderWith decides which of a and b is the previous and which the current
// state. Keys are compared in turn until one differs:
//
//  1. StoredAt (only under OrderByStored and only if both are set)
//  2. CapturedAt
//  3. Name: embedded capture time, then the numeric sequence suffix,
//     then plain string order for names outside the artifact convention
//
// The greater key is the current state. When every key is equal the inputs
// are indistinguishable and b is treated as current.
func OrderWith(policy OrderBy, a, b *Snapshot) (previous, current *Snapshot) {
	if policy != OrderByCaptured && !a.StoredAt.IsZero() && !b.StoredAt.IsZero() {
		if c := compareTime(a.StoredAt, b.StoredAt); c != 0 {
			return pick(c, a, b)
		}
	}
	if a.CapturedAt != b.CapturedAt {
		if a.CapturedAt > b.CapturedAt {
			return b, a
		}
		return a, b
	}
	if c := compareNames(a.Name, b.Name); c != 0 {
		return pick(c, a, b)
	}
	return a, b
}

func compareTime(x, y time.Time) int {
	switch {
	case x.Before(y):
		return -1
	case x.After(y):
		return 1
	default:
		return 0
	}
}

// pick returns (previous, current) given the sign of compare(a, b).
func pick(c int, a, b *Snapshot) (*Snapshot, *Snapshot) {
	if c > 0 {
		return b, a
	}
	return a, b
}
