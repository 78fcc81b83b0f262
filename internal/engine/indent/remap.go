package indent

import (
	"strings"

	"github.com/dshills/narrowd/internal/engine/span"
)

// RemapEnd computes the end position of a range whose start is fixed and
// whose spanned text has just been replaced. A single-line replacement
// extends the start column by the line's UTF-16 length; a multi-line
// replacement ends at the UTF-16 length of the last line. The end must be
// recomputed after every write-back because the edited text's line count
// and last-line length generally differ from the original selection's.
func RemapEnd(start span.Point, replacement string) span.Point {
	lines := strings.Split(replacement, "\n")
	if len(lines) == 1 {
		return span.Point{
			Line:   start.Line,
			Column: start.Column + uint32(span.UTF16Len(lines[0])),
		}
	}
	return span.Point{
		Line:   start.Line + uint32(len(lines)-1),
		Column: uint32(span.UTF16Len(lines[len(lines)-1])),
	}
}
