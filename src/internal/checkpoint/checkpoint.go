package checkpoint

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Store persists the modification time of the most recently organized file
// as unix seconds on a single line, so later runs can skip records an
// earlier run already handled. Read once at start, written once at end.
type Store struct {
	fsys billy.Filesystem
	path string
}

func NewStore(fsys billy.Filesystem, path string) *Store {
	return &Store{fsys: fsys, path: path}
}

// DefaultPath resolves the checkpoint file location under the XDG state
// directory, creating parent directories as needed.
func DefaultPath() (string, error) {
	path, err := xdg.StateFile("gso/last_run")
	if err != nil {
		return "", fmt.Errorf("resolve checkpoint path: %w", err)
	}
	return path, nil
}

// Load reads the checkpoint. The second return is false when no checkpoint
// has been written yet.
func (s *Store) Load() (time.Time, bool, error) {
	data, err := util.ReadFile(s.fsys, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("read checkpoint %q: %w", s.path, err)
	}

	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return time.Time{}, false, nil
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse checkpoint %q: %w", s.path, err)
	}
	return time.Unix(sec, 0), true, nil
}

// Save overwrites the checkpoint with t.
func (s *Store) Save(t time.Time) error {
	data := []byte(strconv.FormatInt(t.Unix(), 10) + "\n")
	if err := util.WriteFile(s.fsys, s.path, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint %q: %w", s.path, err)
	}
	return nil
}
