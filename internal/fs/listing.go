package fs

import (
	"os"
	"path/filepath"
)

// readDirFn is os.ReadDir, overridable in tests.
var readDirFn = os.ReadDir

// shouldHideFromListingFn mirrors ShouldHideFromListing for test overrides.
var shouldHideFromListingFn = ShouldHideFromListing

// ListOptions controls which children List reports.
type ListOptions struct {
	HideHidden bool
}

// Listing is a snapshot of a directory's immediate children.
type Listing struct {
	Path    string
	Entries []Entry
	Skipped []Skipped
}

// ReadDir enumerates the immediate children of path and classifies each one.
// Children whose metadata cannot be read are returned as Skipped. The error is
// non-nil only when path itself cannot be enumerated.
func ReadDir(path string, opts ListOptions) ([]Entry, []Skipped, error) {
	dirEntries, err := readDirFn(path)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	var skipped []Skipped
	for _, de := range dirEntries {
		rawName := de.Name()
		fullPath := filepath.Join(path, rawName)

		if shouldHideFromListingFn(fullPath, rawName) {
			continue
		}
		if opts.HideHidden && IsHidden(fullPath, rawName) {
			continue
		}

		info, err := de.Info()
		if err != nil {
			skipped = append(skipped, Skipped{Path: fullPath, Err: err})
			continue
		}
		entries = append(entries, entryFromInfo(fullPath, rawName, info))
	}

	return entries, skipped, nil
}

// List returns the immediate children of path. An unreadable path yields an
// empty listing with a single Skipped diagnostic instead of an error.
func List(path string, opts ListOptions) Listing {
	path = filepath.Clean(path)
	entries, skipped, err := ReadDir(path, opts)
	if err != nil {
		return Listing{
			Path:    path,
			Entries: []Entry{},
			Skipped: []Skipped{{Path: path, Err: err}},
		}
	}
	return Listing{Path: path, Entries: entries, Skipped: skipped}
}
