// Package render formats snapshot listings, comparison reports and catalog
// history for the terminal. Colors follow fatih/color, which disables them
// when stdout is not a TTY or NO_COLOR is set.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"dirxray/internal/model"
	"dirxray/internal/xray"
)

// TimeLayout is used for every timestamp shown to the user.
const TimeLayout = "2006-01-02 15:04:05"

// Separator underlines section titles.
var Separator = strings.Repeat("=", 30)

var (
	titleColor    = color.New(color.FgBlue, color.Bold)
	addedColor    = color.New(color.FgGreen)
	modifiedColor = color.New(color.FgYellow)
	removedColor  = color.New(color.FgRed)
	dimColor      = color.New(color.FgHiBlack)
	errorColor    = color.New(color.FgRed, color.Bold)
)

// Title prints a section title followed by the separator line.
func Title(w io.Writer, title string) {
	_, _ = titleColor.Fprintln(w, title)
	fmt.Fprintln(w, Separator)
}

// Error prints an error message.
func Error(w io.Writer, err error) {
	_, _ = errorColor.Fprintf(w, "Error: %v\n", err)
}

// Created prints the outcome of a capture.
func Created(w io.Writer, snap *xray.Snapshot) {
	fmt.Fprintf(w, "Captured %d folder(s) and %d file(s) under %s\n",
		len(snap.Directories), len(snap.Files), snap.RootPath)
	_, _ = addedColor.Fprintf(w, "Saved as %s\n", snap.Name)
}

// SnapshotList prints artifacts as a numbered table. The numbers are the
// 1-based indexes accepted by the compare command.
func SnapshotList(w io.Writer, infos []*xray.SnapshotInfo) {
	if len(infos) == 0 {
		fmt.Fprintln(w, "No files found.")
		return
	}

	nameWidth := len("File Name")
	for _, info := range infos {
		nameWidth = max(nameWidth, len(info.Name))
	}

	fmt.Fprintf(w, "%d file(s) found.\n", len(infos))
	_, _ = titleColor.Fprintf(w, "%-4s | %-*s | %s\n", "#", nameWidth, "File Name", "Xray Path")
	for i, info := range infos {
		root := info.RootPath
		if root == "" {
			root = dimColor.Sprint("?")
		}
		fmt.Fprintf(w, "%-4d | %-*s | %s\n", i+1, nameWidth, info.Name, root)
	}
}

// Report prints a comparison: folders first, then files, each with its
// added, modified and removed sections. Empty sections are omitted.
func Report(w io.Writer, r *xray.Report) {
	fmt.Fprintf(w, "Previous: %s (%s)\n", r.Previous.Name, r.Previous.CapturedAt.Format(TimeLayout))
	fmt.Fprintf(w, "Current:  %s (%s)\n", r.Current.Name, r.Current.CapturedAt.Format(TimeLayout))
	if r.Previous.RootPath != r.Current.RootPath {
		_, _ = modifiedColor.Fprintf(w, "Roots differ: %s vs %s\n", r.Previous.RootPath, r.Current.RootPath)
	}
	fmt.Fprintln(w)

	if r.Empty() {
		fmt.Fprintln(w, "No changes.")
		return
	}

	changeSet(w, "Folders", r.Directories)
	changeSet(w, "Files", r.Files)
}

func changeSet(w io.Writer, kind string, cs xray.ChangeSet) {
	if len(cs.Added) > 0 {
		Title(w, "Added "+kind)
		for i, e := range cs.Added {
			_, _ = addedColor.Fprintf(w, "%d %s\n", i+1, e.Path)
		}
	}
	if len(cs.Modified) > 0 {
		Title(w, "Modified "+kind)
		for i, e := range cs.Modified {
			_, _ = modifiedColor.Fprintf(w, "%d %s %s\n", i+1, e.Path, e.ModifiedAt.Time().Format(TimeLayout))
		}
	}
	if len(cs.Removed) > 0 {
		Title(w, "Removed "+kind)
		for i, e := range cs.Removed {
			_, _ = removedColor.Fprintf(w, "%d %s\n", i+1, e.Path)
		}
	}
}

// Operations prints catalog operations, newest first.
func Operations(w io.Writer, ops []*model.Operation) {
	if len(ops) == 0 {
		fmt.Fprintln(w, "No operations recorded.")
		return
	}

	for _, op := range ops {
		duration := ""
		if op.FinishedAt.Valid {
			duration = op.FinishedAt.Time.Sub(op.StartedAt).Truncate(time.Millisecond).String()
		}
		fmt.Fprintf(w, "#%d  %-10s  %s  %-8s  %-8s  %s\n",
			op.ID,
			op.Operation,
			op.StartedAt.Local().Format(TimeLayout),
			statusColor(op.Status).Sprint(op.Status),
			duration,
			op.Parameters,
		)
	}
}

// Comparisons prints comparison summaries as +added ~modified -removed
// counts for folders and files.
func Comparisons(w io.Writer, recs []*model.ComparisonRecord) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No comparisons recorded.")
		return
	}

	for _, rec := range recs {
		fmt.Fprintf(w, "%s  %s -> %s  folders %s  files %s\n",
			rec.CreatedAt.Local().Format(TimeLayout),
			rec.PreviousName,
			rec.CurrentName,
			counts(rec.DirsAdded, rec.DirsModified, rec.DirsRemoved),
			counts(rec.FilesAdded, rec.FilesModified, rec.FilesRemoved),
		)
	}
}

func counts(added, modified, removed int64) string {
	return addedColor.Sprintf("+%d", added) + " " +
		modifiedColor.Sprintf("~%d", modified) + " " +
		removedColor.Sprintf("-%d", removed)
}

func statusColor(status string) *color.Color {
	switch status {
	case "success":
		return addedColor
	case "error":
		return removedColor
	default:
		return modifiedColor
	}
}
