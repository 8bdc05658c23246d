package xray

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRoot indicates the requested snapshot root cannot be walked.
	ErrInvalidRoot = errors.New("invalid snapshot root")

	// ErrNotFound indicates an entry vanished between discovery and its metadata read.
	ErrNotFound = errors.New("entry not found")

	// ErrMissingArtifact indicates a persisted snapshot could not be loaded.
	ErrMissingArtifact = errors.New("snapshot artifact missing")
)

// InvalidRootError is returned when the root of a snapshot does not exist,
// is not a directory, or cannot be read. No partial snapshot accompanies it.
type InvalidRootError struct {
	Path string
	Err  error
}

func (e *InvalidRootError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid snapshot root %s", e.Path)
	}
	return fmt.Sprintf("invalid snapshot root %s: %v", e.Path, e.Err)
}

func (e *InvalidRootError) Unwrap() error { return e.Err }

func (e *InvalidRootError) Is(target error) bool { return target == ErrInvalidRoot }

// NotFoundError is returned when an entry disappears mid-walk.
// The whole walk fails; entries are never silently dropped.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("entry vanished during walk: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// MissingArtifactError is returned when a selected snapshot artifact cannot
// be loaded. The diff engine is never invoked in this case.
type MissingArtifactError struct {
	Name string
	Err  error
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("snapshot artifact %q could not be loaded: %v", e.Name, e.Err)
}

func (e *MissingArtifactError) Unwrap() error { return e.Err }

func (e *MissingArtifactError) Is(target error) bool { return target == ErrMissingArtifact }
