package xray

// ChangeSet partitions the entries of one kind (directories or files) that
// differ between two snapshots. A path lands in at most one of the sets.
type ChangeSet struct {
	// Added holds entries present only in the current snapshot.
	Added []Entry
	// Modified holds the current version of entries whose modification
	// time differs between the snapshots.
	Modified []Entry
	// Removed holds entries present only in the previous snapshot.
	Removed []Entry
}

// Empty reports whether nothing changed.
func (c ChangeSet) Empty() bool {
	return len(c.Added) == 0 && len(c.Modified) == 0 && len(c.Removed) == 0
}

// Len returns the total number of changed entries.
func (c ChangeSet) Len() int {
	return len(c.Added) + len(c.Modified) + len(c.Removed)
}

// Diff reconciles two entry collections of the same kind, previous and
// current, taken from two snapshots already ordered by Order.
//
// Both collections are indexed by path first, so the cost is linear in
// their combined size. Added and Modified follow the order of current;
// Removed follows the order of previous.
func Diff(previous, current []Entry) ChangeSet {
	prevByPath := indexByPath(previous)
	curByPath := indexByPath(current)

	cs := ChangeSet{
		Added:    []Entry{},
		Modified: []Entry{},
		Removed:  []Entry{},
	}

	for _, cur := range current {
		prev, ok := prevByPath[cur.Path]
		switch {
		case !ok:
			cs.Added = append(cs.Added, cur)
		case prev.ModifiedAt != cur.ModifiedAt:
			cs.Modified = append(cs.Modified, cur)
		}
	}

	for _, prev := range previous {
		if _, ok := curByPath[prev.Path]; !ok {
			cs.Removed = append(cs.Removed, prev)
		}
	}

	return cs
}

func indexByPath(entries []Entry) map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Path] = e
	}
	return m
}
