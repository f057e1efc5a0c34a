package organizer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gso/src/internal/checkpoint"
	"gso/src/internal/config"
	"gso/src/internal/partition"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

// seedGallery writes n files of equal size into /gallery. Equal sizes keep
// the partition shape independent of directory listing order.
func seedGallery(t *testing.T, fsys billy.Filesystem, n int, size int) {
	t.Helper()
	data := make([]byte, size)
	for i := 0; i < n; i++ {
		path := fmt.Sprintf("/gallery/IMG_%04d.jpg", i)
		require.NoError(t, util.WriteFile(fsys, path, data, 0o644))
	}
}

func countFiles(t *testing.T, fsys billy.Filesystem, dir string) (files, dirs int) {
	t.Helper()
	entries, err := fsys.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		if e.IsDir() {
			dirs++
		} else {
			files++
		}
	}
	return files, dirs
}

func baseConfig() config.OrganizerConfig {
	return config.OrganizerConfig{
		Source:          "/gallery",
		MaxFolderSizeGB: 15,
		Mode:            "move",
	}
}

// capacityGB converts a byte count to the fractional GB value the config
// carries, so tests can use tiny files.
func capacityGB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024 * 1024)
}

func TestRunSplitsAndMoves(t *testing.T) {
	fsys := memfs.New()
	seedGallery(t, fsys, 4, 4)

	cfg := baseConfig()
	cfg.MaxFolderSizeGB = capacityGB(8)

	o := New(fsys, cfg, nil, newTestLogger())
	result, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, result.FilesTransferred)
	assert.Equal(t, 0, result.FilesUnchanged)
	require.Len(t, result.PartitionsCreated, 2)
	assert.Equal(t, []int64{8, 8}, result.PartitionSizes)

	// All loose files moved into subfolders of the source.
	files, dirs := countFiles(t, fsys, "/gallery")
	assert.Equal(t, 0, files)
	assert.GreaterOrEqual(t, dirs, 1)
}

func TestRunNoOpUnderThreshold(t *testing.T) {
	fsys := memfs.New()
	seedGallery(t, fsys, 3, 4)

	o := New(fsys, baseConfig(), nil, newTestLogger())
	result, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.FilesTransferred)
	assert.Equal(t, 3, result.FilesUnchanged)
	assert.Empty(t, result.PartitionsCreated)

	// No subfolders were created, no files touched.
	files, dirs := countFiles(t, fsys, "/gallery")
	assert.Equal(t, 3, files)
	assert.Equal(t, 0, dirs)
}

func TestRunInvalidCapacity(t *testing.T) {
	fsys := memfs.New()
	seedGallery(t, fsys, 2, 4)

	cfg := baseConfig()
	cfg.MaxFolderSizeGB = 0

	o := New(fsys, cfg, nil, newTestLogger())
	_, err := o.Run(context.Background())
	require.ErrorIs(t, err, partition.ErrInvalidCapacity)

	// Partitioning errors gate the run before any filesystem mutation.
	files, dirs := countFiles(t, fsys, "/gallery")
	assert.Equal(t, 2, files)
	assert.Equal(t, 0, dirs)
}

func TestRunMissingSource(t *testing.T) {
	o := New(memfs.New(), baseConfig(), nil, newTestLogger())
	_, err := o.Run(context.Background())
	assert.Error(t, err)
}

func TestRunSeparateDestination(t *testing.T) {
	fsys := memfs.New()
	seedGallery(t, fsys, 4, 4)

	cfg := baseConfig()
	cfg.Mode = "copy"
	cfg.Destination = "/backup"
	cfg.MaxFolderSizeGB = capacityGB(8)

	o := New(fsys, cfg, nil, newTestLogger())
	result, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, result.FilesTransferred)

	// Copy keeps the gallery untouched, partitions land under /backup.
	files, _ := countFiles(t, fsys, "/gallery")
	assert.Equal(t, 4, files)
	_, dirs := countFiles(t, fsys, "/backup")
	assert.GreaterOrEqual(t, dirs, 1)
}

// faultFS fails every read of one path, so a single transfer inside an
// otherwise healthy run errors out.
type faultFS struct {
	billy.Filesystem
	failPath string
}

func (f *faultFS) Open(name string) (billy.File, error) {
	if name == f.failPath {
		return nil, fmt.Errorf("open %s: simulated I/O error", name)
	}
	return f.Filesystem.Open(name)
}

func (f *faultFS) Rename(from, to string) error {
	if from == f.failPath {
		return fmt.Errorf("rename %s: simulated I/O error", from)
	}
	return f.Filesystem.Rename(from, to)
}

func TestRunCheckpoint(t *testing.T) {
	t.Run("FilterSkipsProcessed", func(t *testing.T) {
		fsys := memfs.New()
		seedGallery(t, fsys, 4, 4)

		ckpt := checkpoint.NewStore(fsys, "/state/last_run")
		require.NoError(t, ckpt.Save(time.Now().Add(24*time.Hour)))

		cfg := baseConfig()
		cfg.MaxFolderSizeGB = capacityGB(8)
		cfg.Checkpoint = true

		o := New(fsys, cfg, ckpt, newTestLogger())
		result, err := o.Run(context.Background())
		require.NoError(t, err)

		// Everything predates the checkpoint, so nothing is eligible.
		assert.Equal(t, 0, result.FilesTransferred)
		assert.Equal(t, 4, result.FilesUnchanged)
	})

	t.Run("NotSavedAfterFailedTransfer", func(t *testing.T) {
		base := memfs.New()
		seedGallery(t, base, 4, 4)
		fsys := &faultFS{Filesystem: base, failPath: "/gallery/IMG_0000.jpg"}

		ckpt := checkpoint.NewStore(base, "/state/last_run")

		cfg := baseConfig()
		cfg.MaxFolderSizeGB = capacityGB(8)
		cfg.Checkpoint = true
		cfg.ContinueOnError = true

		o := New(fsys, cfg, ckpt, newTestLogger())
		result, err := o.Run(context.Background())
		require.Error(t, err)
		assert.Equal(t, 3, result.FilesTransferred)
		assert.Equal(t, 1, result.FilesUnchanged)

		// The failed file is still in place; advancing the checkpoint would
		// put it behind the cutoff and exclude it from every resume run.
		_, ok, lerr := ckpt.Load()
		require.NoError(t, lerr)
		assert.False(t, ok)
	})

	t.Run("SavedAfterRun", func(t *testing.T) {
		fsys := memfs.New()
		seedGallery(t, fsys, 4, 4)

		ckpt := checkpoint.NewStore(fsys, "/state/last_run")

		cfg := baseConfig()
		cfg.MaxFolderSizeGB = capacityGB(8)
		cfg.Checkpoint = true

		o := New(fsys, cfg, ckpt, newTestLogger())
		result, err := o.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, 4, result.FilesTransferred)

		_, ok, err := ckpt.Load()
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
