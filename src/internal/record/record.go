package record

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-billy/v5"
)

// Returned when a file's size or modification time cannot be read.
// Callers must propagate it; records are never zero-filled.
var ErrMetadataUnavailable = errors.New("file metadata unavailable")

// FileRecord is the immutable metadata snapshot of one gallery file.
type FileRecord struct {
	Path       string
	Size       int64
	ModifiedAt time.Time
}

// ScanDir lists the regular files directly inside dir and builds a record
// for each. Subdirectories are skipped, not descended into - previously
// organized subfolders live next to the files they were split from.
func ScanDir(fsys billy.Filesystem, dir string) ([]FileRecord, error) {
	info, err := fsys.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %q: not a directory", dir)
	}

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %q: %w", dir, err)
	}

	records := make([]FileRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if entry.Size() < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMetadataUnavailable, fsys.Join(dir, entry.Name()))
		}
		records = append(records, FileRecord{
			Path:       fsys.Join(dir, entry.Name()),
			Size:       entry.Size(),
			ModifiedAt: entry.ModTime(),
		})
	}
	return records, nil
}

// Stat builds a single record from an explicit path.
func Stat(fsys billy.Filesystem, path string) (FileRecord, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return FileRecord{}, fmt.Errorf("%w: %q: %v", ErrMetadataUnavailable, path, err)
	}
	return FileRecord{
		Path:       path,
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
	}, nil
}

// FilterAfter keeps records modified at or after cutoff. Used to skip files
// already handled by a previous run; the boundary is inclusive because
// modification times collide at whole-second resolution and files moved by
// an earlier run are no longer present in the source folder anyway.
func FilterAfter(records []FileRecord, cutoff time.Time) []FileRecord {
	if cutoff.IsZero() {
		return records
	}
	kept := make([]FileRecord, 0, len(records))
	for _, r := range records {
		if !r.ModifiedAt.Before(cutoff) {
			kept = append(kept, r)
		}
	}
	return kept
}
