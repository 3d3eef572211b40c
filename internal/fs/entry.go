package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Entry represents a single file or directory on disk as seen when it was
// listed. The classification can go stale if the filesystem changes.
type Entry struct {
	Name      string
	FullPath  string
	IsDir     bool
	IsSymlink bool
	Size      int64
	Modified  time.Time
	Mode      os.FileMode
}

// IsHidden reports whether the entry should be treated as hidden.
func (e Entry) IsHidden() bool {
	return IsHidden(e.FullPath, e.Name)
}

// Skipped records a filesystem node that could not be read.
type Skipped struct {
	Path string
	Err  error
}

func (s Skipped) Error() string {
	return fmt.Sprintf("%s: %v", s.Path, s.Err)
}

func (s Skipped) Unwrap() error {
	return s.Err
}

// Classify stats path and builds an Entry for it. Symlinks are classified by
// their target; a dangling link is reported as a file.
func Classify(path string) (Entry, error) {
	path = filepath.Clean(path)
	info, err := os.Lstat(path)
	if err != nil {
		return Entry{}, err
	}
	return entryFromInfo(path, info.Name(), info), nil
}

func entryFromInfo(fullPath, rawName string, info os.FileInfo) Entry {
	isDir := info.IsDir()
	isSymlink := info.Mode()&os.ModeSymlink != 0
	if isSymlink {
		if target, err := os.Stat(fullPath); err == nil {
			isDir = target.IsDir()
		}
	}

	return Entry{
		Name:      norm.NFC.String(rawName),
		FullPath:  fullPath,
		IsDir:     isDir,
		IsSymlink: isSymlink,
		Size:      info.Size(),
		Modified:  info.ModTime(),
		Mode:      info.Mode(),
	}
}

// SortEntries orders directories first, then by name.
func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})
}
