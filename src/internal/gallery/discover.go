package gallery

import (
	"github.com/go-git/go-billy/v5"
)

// Typical camera folder locations, most common first. Manufacturers differ
// on where the default camera app writes.
var commonCameraPaths = []string{
	"/storage/emulated/0/DCIM/Camera",
	"/storage/emulated/0/DCIM",
	"/storage/emulated/0/Pictures",
	"/storage/emulated/0/Pictures/Camera",
	"/storage/emulated/0/Camera",
}

// Discover probes the known camera folder locations and returns the first
// one that can be listed. The second return is false when none exists.
func Discover(fsys billy.Filesystem) (string, bool) {
	for _, path := range commonCameraPaths {
		if Listable(fsys, path) {
			return path, true
		}
	}
	return "", false
}

// Listable reports whether path is an existing directory. Used to validate
// manually entered gallery paths.
func Listable(fsys billy.Filesystem, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}

// CandidatePaths returns the probe order for display in error messages.
func CandidatePaths() []string {
	paths := make([]string, len(commonCameraPaths))
	copy(paths, commonCameraPaths)
	return paths
}
