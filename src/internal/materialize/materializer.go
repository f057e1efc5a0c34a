package materialize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gso/src/internal/partition"
	"gso/src/internal/record"

	"github.com/go-git/go-billy/v5"
	"github.com/lixenwraith/log"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/time/rate"
)

// Transfer mode for materializing a range.
type Mode string

const (
	ModeMove Mode = "move"
	ModeCopy Mode = "copy"
)

// Chunk size for copy loops; also the throttle burst.
const copyChunkSize = 256 * 1024

// Returned (wrapped) when a partition subfolder cannot be created.
var ErrDestinationUnwritable = errors.New("destination unwritable")

var errVerifyMismatch = errors.New("verification hash mismatch")

// TransferError reports a failed move or copy of one file with enough
// context for the caller to decide retry, skip, or abort.
type TransferError struct {
	Source string
	Dest   string
	Err    error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer %q -> %q: %v", e.Source, e.Dest, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// Stats describes one materialized partition.
type Stats struct {
	Name       string
	TotalBytes int64
	FileCount  int
}

type Options struct {
	Mode Mode

	// Re-read and hash the written file after a copy and compare against
	// the source hash. Applies to copy mode and to move's copy fallback.
	Verify bool

	// Throughput cap in bytes per second; 0 disables throttling.
	ThrottleBps int64

	// Keep transferring the remaining records of a range after a per-file
	// failure instead of aborting the range.
	ContinueOnError bool
}

// Materializer executes partition ranges against a filesystem, one file at
// a time.
type Materializer struct {
	fsys    billy.Filesystem
	opts    Options
	limiter *rate.Limiter
	logger  *log.Logger
}

func New(fsys billy.Filesystem, opts Options, logger *log.Logger) *Materializer {
	m := &Materializer{
		fsys:   fsys,
		opts:   opts,
		logger: logger,
	}
	if opts.ThrottleBps > 0 {
		burst := copyChunkSize
		if opts.ThrottleBps > int64(burst) {
			burst = int(opts.ThrottleBps)
		}
		m.limiter = rate.NewLimiter(rate.Limit(opts.ThrottleBps), burst)
	}
	return m
}

// Apply transfers every record covered by rng into a subfolder of destRoot
// named after the range's boundary dates, creating the subfolder if absent.
// Records must be the time-sorted sequence the range was computed over.
//
// A per-file failure aborts the remaining transfers of this range unless
// ContinueOnError is set; stats count only completed transfers either way.
func (m *Materializer) Apply(ctx context.Context, rng partition.Range, records []record.FileRecord, destRoot string) (Stats, error) {
	name := partition.RangeName(records[rng.Start], records[rng.End])
	destDir := m.fsys.Join(destRoot, name)

	// Idempotent: MkdirAll succeeds when the subfolder already exists.
	if err := m.fsys.MkdirAll(destDir, 0o755); err != nil {
		return Stats{Name: name}, fmt.Errorf("%w: %q: %v", ErrDestinationUnwritable, destDir, err)
	}

	stats := Stats{Name: name}
	var failures []error
	for i := rng.Start; i <= rng.End; i++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		rec := records[i]
		dest := m.fsys.Join(destDir, filepath.Base(rec.Path))
		if err := m.transfer(ctx, rec.Path, dest); err != nil {
			terr := &TransferError{Source: rec.Path, Dest: dest, Err: err}
			if !m.opts.ContinueOnError {
				return stats, terr
			}
			m.logger.Warn("msg", "Transfer failed, continuing",
				"source", rec.Path,
				"dest", dest,
				"error", err)
			failures = append(failures, terr)
			continue
		}

		stats.TotalBytes += rec.Size
		stats.FileCount++
	}

	m.logger.Info("msg", "Partition materialized",
		"name", name,
		"files", stats.FileCount,
		"bytes", stats.TotalBytes,
		"failed", len(failures))

	return stats, errors.Join(failures...)
}

func (m *Materializer) transfer(ctx context.Context, src, dest string) error {
	if m.opts.Mode == ModeMove {
		// Rename is the cheap path; fall back to copy+remove when the
		// destination is on another filesystem.
		if err := m.fsys.Rename(src, dest); err == nil {
			return nil
		}
		if err := m.copyFile(ctx, src, dest); err != nil {
			return err
		}
		return m.fsys.Remove(src)
	}
	return m.copyFile(ctx, src, dest)
}

func (m *Materializer) copyFile(ctx context.Context, src, dest string) error {
	in, err := m.fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := m.fsys.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	hasher, err := blake2b.New256(nil)
	if err != nil {
		out.Close()
		return err
	}

	buf := make([]byte, copyChunkSize)
	for {
		n, rerr := in.Read(buf)
		if n > 0 {
			if m.limiter != nil {
				if werr := m.limiter.WaitN(ctx, n); werr != nil {
					out.Close()
					return werr
				}
			}
			if _, werr := out.Write(buf[:n]); werr != nil {
				out.Close()
				return werr
			}
			hasher.Write(buf[:n])
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			out.Close()
			return rerr
		}
	}
	if err := out.Close(); err != nil {
		return err
	}

	if m.opts.Verify {
		return m.verify(dest, hasher.Sum(nil))
	}
	return nil
}

// verify re-reads the written file and compares its hash to the source
// hash accumulated during the copy.
func (m *Materializer) verify(dest string, want []byte) error {
	f, err := m.fsys.Open(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	hasher, err := blake2b.New256(nil)
	if err != nil {
		return err
	}
	if _, err := io.Copy(hasher, f); err != nil {
		return err
	}
	if !bytes.Equal(hasher.Sum(nil), want) {
		return fmt.Errorf("%w: %q", errVerifyMismatch, dest)
	}
	return nil
}
