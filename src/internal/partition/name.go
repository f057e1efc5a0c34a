package partition

import (
	"fmt"

	"gso/src/internal/record"
)

const dateLayout = "02.01.2006"

// RangeName derives the subfolder label for a run from its boundary
// records: the first and last file's modification dates joined by a dash,
// e.g. "01.01.2024-10.01.2024".
func RangeName(first, last record.FileRecord) string {
	return fmt.Sprintf("%s-%s",
		first.ModifiedAt.Format(dateLayout),
		last.ModifiedAt.Format(dateLayout))
}
