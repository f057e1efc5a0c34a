package organizer

import (
	"context"
	"errors"
	"fmt"

	"gso/src/internal/checkpoint"
	"gso/src/internal/config"
	"gso/src/internal/materialize"
	"gso/src/internal/partition"
	"gso/src/internal/record"
	"gso/src/internal/report"

	"github.com/go-git/go-billy/v5"
	"github.com/lixenwraith/log"
)

// Organizer runs the split pipeline: scan the gallery, partition the files
// by modification time under the capacity threshold, then move or copy each
// partition into its dated subfolder.
type Organizer struct {
	fsys   billy.Filesystem
	cfg    config.OrganizerConfig
	ckpt   *checkpoint.Store
	logger *log.Logger
}

// New creates an organizer. ckpt may be nil to disable resume support.
func New(fsys billy.Filesystem, cfg config.OrganizerConfig, ckpt *checkpoint.Store, logger *log.Logger) *Organizer {
	return &Organizer{
		fsys:   fsys,
		cfg:    cfg,
		ckpt:   ckpt,
		logger: logger,
	}
}

// Run executes one organizing pass. The partition is computed in full
// before any file is touched; partitioning errors therefore never leave the
// gallery half-moved. When the total size of the eligible files does not
// exceed the threshold the run is a reported no-op.
func (o *Organizer) Run(ctx context.Context) (report.Result, error) {
	var result report.Result

	records, err := record.ScanDir(o.fsys, o.cfg.Source)
	if err != nil {
		return result, err
	}
	scanned := len(records)

	if o.ckpt != nil {
		cutoff, ok, err := o.ckpt.Load()
		if err != nil {
			return result, err
		}
		if ok {
			records = record.FilterAfter(records, cutoff)
			o.logger.Info("msg", "Resuming from checkpoint",
				"cutoff", cutoff,
				"eligible", len(records),
				"skipped", scanned-len(records))
		}
	}

	plan, err := partition.Split(records, o.cfg.CapacityBytes())
	if err != nil {
		return result, err
	}

	var grandTotal int64
	for _, r := range plan.Records {
		grandTotal += r.Size
	}
	if grandTotal <= o.cfg.CapacityBytes() {
		// Nothing exceeds the quota, so there is nothing to split.
		result.FilesUnchanged = scanned
		o.logger.Info("msg", "Total size within threshold, nothing to do",
			"files", scanned,
			"total_bytes", grandTotal)
		return result, nil
	}

	destRoot := o.cfg.Destination
	if destRoot == "" {
		destRoot = o.cfg.Source
	}

	o.logger.Info("msg", "Partition computed",
		"files", len(plan.Records),
		"partitions", len(plan.Ranges),
		"total_bytes", grandTotal,
		"dest", destRoot,
		"mode", o.cfg.Mode)

	m := materialize.New(o.fsys, materialize.Options{
		Mode:            materialize.Mode(o.cfg.Mode),
		Verify:          o.cfg.Verify,
		ThrottleBps:     o.cfg.ThrottleBps,
		ContinueOnError: o.cfg.ContinueOnError,
	}, o.logger)

	var failures []error
	for _, rng := range plan.Ranges {
		stats, err := m.Apply(ctx, rng, plan.Records, destRoot)
		if stats.FileCount > 0 || err == nil {
			result.PartitionsCreated = append(result.PartitionsCreated, stats.Name)
			result.PartitionSizes = append(result.PartitionSizes, stats.TotalBytes)
			result.FilesTransferred += stats.FileCount
		}
		if err != nil {
			// Completed partitions stay as they are; without
			// continue_on_error the remaining ranges are not attempted.
			if !o.cfg.ContinueOnError {
				result.FilesUnchanged = scanned - result.FilesTransferred
				return result, fmt.Errorf("materialize partition %q: %w", stats.Name, err)
			}
			failures = append(failures, err)
		}
	}

	result.FilesUnchanged = scanned - result.FilesTransferred

	// Only a fully clean run advances the checkpoint: a failed file is
	// still in place, and a cutoff past its modification time would
	// exclude it from every later resume run.
	if o.ckpt != nil && result.FilesTransferred > 0 && len(failures) == 0 {
		newest := plan.Records[len(plan.Records)-1].ModifiedAt
		if err := o.ckpt.Save(newest); err != nil {
			o.logger.Warn("msg", "Failed to save checkpoint", "error", err)
		}
	}

	return result, errors.Join(failures...)
}
