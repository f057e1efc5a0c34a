package materialize

import (
	"context"
	"testing"
	"time"

	"gso/src/internal/partition"
	"gso/src/internal/record"

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

// seedGallery writes one file per record path and returns the matching
// records with fixed modification times a day apart.
func seedGallery(t *testing.T, fsys billy.Filesystem, contents ...string) []record.FileRecord {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := make([]record.FileRecord, len(contents))
	for i, data := range contents {
		path := fsys.Join("/gallery", "IMG_"+string(rune('a'+i))+".jpg")
		require.NoError(t, util.WriteFile(fsys, path, []byte(data), 0o644))
		records[i] = record.FileRecord{
			Path:       path,
			Size:       int64(len(data)),
			ModifiedAt: base.AddDate(0, 0, i),
		}
	}
	return records
}

func fileContent(t *testing.T, fsys billy.Filesystem, path string) string {
	t.Helper()
	data, err := util.ReadFile(fsys, path)
	require.NoError(t, err)
	return string(data)
}

func TestApplyMove(t *testing.T) {
	fsys := memfs.New()
	records := seedGallery(t, fsys, "aaaa", "bb", "cccccc")
	rng := partition.Range{Start: 0, End: 2}

	m := New(fsys, Options{Mode: ModeMove}, newTestLogger())
	stats, err := m.Apply(context.Background(), rng, records, "/gallery")
	require.NoError(t, err)

	assert.Equal(t, "01.01.2024-03.01.2024", stats.Name)
	assert.Equal(t, int64(12), stats.TotalBytes)
	assert.Equal(t, 3, stats.FileCount)

	// Sources are gone, destinations carry the content.
	_, err = fsys.Stat("/gallery/IMG_a.jpg")
	assert.Error(t, err)
	assert.Equal(t, "aaaa", fileContent(t, fsys, "/gallery/01.01.2024-03.01.2024/IMG_a.jpg"))
	assert.Equal(t, "cccccc", fileContent(t, fsys, "/gallery/01.01.2024-03.01.2024/IMG_c.jpg"))
}

func TestApplyCopy(t *testing.T) {
	fsys := memfs.New()
	records := seedGallery(t, fsys, "hello", "world")
	rng := partition.Range{Start: 0, End: 1}

	m := New(fsys, Options{Mode: ModeCopy, Verify: true}, newTestLogger())
	stats, err := m.Apply(context.Background(), rng, records, "/backup")
	require.NoError(t, err)

	assert.Equal(t, int64(10), stats.TotalBytes)
	assert.Equal(t, 2, stats.FileCount)

	// Copy keeps the source in place.
	assert.Equal(t, "hello", fileContent(t, fsys, "/gallery/IMG_a.jpg"))
	assert.Equal(t, "hello", fileContent(t, fsys, "/backup/01.01.2024-02.01.2024/IMG_a.jpg"))
	assert.Equal(t, "world", fileContent(t, fsys, "/backup/01.01.2024-02.01.2024/IMG_b.jpg"))
}

func TestApplySubrange(t *testing.T) {
	fsys := memfs.New()
	records := seedGallery(t, fsys, "one", "two", "three", "four")

	m := New(fsys, Options{Mode: ModeMove}, newTestLogger())
	stats, err := m.Apply(context.Background(), partition.Range{Start: 1, End: 2}, records, "/gallery")
	require.NoError(t, err)

	assert.Equal(t, "02.01.2024-03.01.2024", stats.Name)
	assert.Equal(t, 2, stats.FileCount)

	// Records outside the range stay untouched.
	assert.Equal(t, "one", fileContent(t, fsys, "/gallery/IMG_a.jpg"))
	assert.Equal(t, "four", fileContent(t, fsys, "/gallery/IMG_d.jpg"))
}

func TestApplyExistingDestination(t *testing.T) {
	fsys := memfs.New()
	records := seedGallery(t, fsys, "x")
	require.NoError(t, fsys.MkdirAll("/gallery/01.01.2024-01.01.2024", 0o755))

	m := New(fsys, Options{Mode: ModeMove}, newTestLogger())
	_, err := m.Apply(context.Background(), partition.Range{Start: 0, End: 0}, records, "/gallery")
	assert.NoError(t, err)
}

func TestApplyTransferFailure(t *testing.T) {
	fsys := memfs.New()
	records := seedGallery(t, fsys, "aa", "bb")
	// Remove one source so its transfer fails.
	require.NoError(t, fsys.Remove("/gallery/IMG_a.jpg"))

	t.Run("AbortsRange", func(t *testing.T) {
		m := New(fsys, Options{Mode: ModeMove}, newTestLogger())
		stats, err := m.Apply(context.Background(), partition.Range{Start: 0, End: 1}, records, "/gallery")

		var terr *TransferError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, "/gallery/IMG_a.jpg", terr.Source)
		assert.Contains(t, terr.Dest, "IMG_a.jpg")
		assert.NotNil(t, terr.Err)

		// Nothing after the failed record was transferred.
		assert.Equal(t, 0, stats.FileCount)
		assert.Equal(t, "bb", fileContent(t, fsys, "/gallery/IMG_b.jpg"))
	})

	t.Run("ContinueOnError", func(t *testing.T) {
		m := New(fsys, Options{Mode: ModeMove, ContinueOnError: true}, newTestLogger())
		stats, err := m.Apply(context.Background(), partition.Range{Start: 0, End: 1}, records, "/gallery")

		var terr *TransferError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, 1, stats.FileCount)
		assert.Equal(t, int64(2), stats.TotalBytes)
	})
}

func TestApplyThrottled(t *testing.T) {
	fsys := memfs.New()
	records := seedGallery(t, fsys, "0123456789")

	// Generous limit: throttle path is exercised without slowing the test.
	m := New(fsys, Options{Mode: ModeCopy, ThrottleBps: 1 << 30}, newTestLogger())
	stats, err := m.Apply(context.Background(), partition.Range{Start: 0, End: 0}, records, "/backup")
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalBytes)
	assert.Equal(t, "0123456789", fileContent(t, fsys, "/backup/01.01.2024-01.01.2024/IMG_a.jpg"))
}

func TestApplyCancelledContext(t *testing.T) {
	fsys := memfs.New()
	records := seedGallery(t, fsys, "aa", "bb")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := New(fsys, Options{Mode: ModeMove}, newTestLogger())
	stats, err := m.Apply(ctx, partition.Range{Start: 0, End: 1}, records, "/gallery")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, stats.FileCount)

	// Sources untouched.
	assert.Equal(t, "aa", fileContent(t, fsys, "/gallery/IMG_a.jpg"))
}
