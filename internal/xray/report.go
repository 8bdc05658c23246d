package xray

// Report is the outcome of comparing two snapshots.
type Report struct {
	Previous    SnapshotHeader
	Current     SnapshotHeader
	Directories ChangeSet
	Files       ChangeSet
}

// Empty reports whether the two snapshots were equivalent.
func (r *Report) Empty() bool {
	return r.Directories.Empty() && r.Files.Empty()
}

// Assemble combines the directory and file change sets of a comparison
// into a Report. The change sets are stored as given.
func Assemble(previous, current *Snapshot, dirs, files ChangeSet) *Report {
	return &Report{
		Previous:    previous.Header(),
		Current:     current.Header(),
		Directories: dirs,
		Files:       files,
	}
}

// Compare orders a and b and diffs both entry kinds.
func Compare(a, b *Snapshot) *Report {
	return CompareWith(OrderByStored, a, b)
}

// CompareWith is Compare with an explicit ordering policy.
func CompareWith(policy OrderBy, a, b *Snapshot) *Report {
	previous, current := OrderWith(policy, a, b)
	dirs := Diff(previous.Directories, current.Directories)
	files := Diff(previous.Files, current.Files)
	return Assemble(previous, current, dirs, files)
}
