package partition

import (
	"errors"
	"sort"

	"gso/src/internal/record"
)

// Returned by Split when the capacity threshold is not positive.
var ErrInvalidCapacity = errors.New("capacity must be positive")

// Range is a contiguous run of the time-sorted record sequence, inclusive
// index bounds on both ends.
type Range struct {
	Start int
	End   int
}

// Len returns the number of records covered by the range.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

// Plan is the computed partition: records in ascending modification-time
// order plus the ordered ranges that cover them exactly once.
type Plan struct {
	Records []record.FileRecord
	Ranges  []Range
}

// TotalBytes sums the sizes of the records covered by rng.
func (p *Plan) TotalBytes(rng Range) int64 {
	var total int64
	for i := rng.Start; i <= rng.End; i++ {
		total += p.Records[i].Size
	}
	return total
}

// Split orders records by modification time and greedily groups them into
// contiguous runs whose cumulative size stays within capacityBytes. A single
// file larger than the capacity still forms its own run; files are atomic
// and never dropped or split.
//
// The input slice is not modified. Ties in modification time keep their
// original input order.
func Split(records []record.FileRecord, capacityBytes int64) (*Plan, error) {
	if capacityBytes <= 0 {
		return nil, ErrInvalidCapacity
	}

	sorted := make([]record.FileRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ModifiedAt.Before(sorted[j].ModifiedAt)
	})

	plan := &Plan{Records: sorted}
	if len(sorted) == 0 {
		return plan, nil
	}

	start := 0
	var total int64
	for i, r := range sorted {
		total += r.Size
		// Close the open run when it overflows, unless this record is the
		// run's first member (an oversized file stays alone in its run).
		if total > capacityBytes && i > start {
			plan.Ranges = append(plan.Ranges, Range{Start: start, End: i - 1})
			start = i
			total = r.Size
		}
	}
	plan.Ranges = append(plan.Ranges, Range{Start: start, End: len(sorted) - 1})

	return plan, nil
}
