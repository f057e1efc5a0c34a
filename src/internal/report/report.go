package report

import (
	"fmt"
	"strconv"
	"strings"
)

// Result summarizes one organizer run for the caller.
type Result struct {
	PartitionsCreated []string
	PartitionSizes    []int64
	FilesTransferred  int
	FilesUnchanged    int
}

const bytesPerGB = 1024 * 1024 * 1024

// Render formats the run summary as a fixed-width table: row number,
// subfolder name, size in binary gigabytes to three decimal places. When
// nothing was transferred the whole run was a no-op and a notice naming
// the threshold is returned instead.
func Render(res Result, capacityBytes int64) string {
	if res.FilesTransferred == 0 {
		return fmt.Sprintf(
			"No operations performed because the total size of files does not exceed %sGB\n",
			formatGB(capacityBytes))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Files moved: %d       Files unchanged: %d\n",
		res.FilesTransferred, res.FilesUnchanged)
	b.WriteString("Subfolders created:\n")
	b.WriteString("No         Subfolder           Size\n")
	b.WriteString("--   ---------------------   --------\n")
	for i, name := range res.PartitionsCreated {
		var size int64
		if i < len(res.PartitionSizes) {
			size = res.PartitionSizes[i]
		}
		fmt.Fprintf(&b, "%2d   %-21s   %7.3fGB\n",
			i+1, name, float64(size)/float64(bytesPerGB))
	}
	return b.String()
}

// formatGB renders a byte count in binary gigabytes without trailing
// zeros, so the default threshold prints as "15".
func formatGB(bytes int64) string {
	return strconv.FormatFloat(float64(bytes)/float64(bytesPerGB), 'f', -1, 64)
}
