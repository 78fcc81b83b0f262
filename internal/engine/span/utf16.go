package span

import "strings"

// UTF16Len returns the length of s in UTF-16 code units.
// Runes outside the Basic Multilingual Plane count as two units.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// Slice extracts the text covered by r from a full document.
// It returns false if the range does not resolve within text, e.g. a line
// number beyond the last line. Columns past the end of a line clamp to the
// line end, matching how LSP clients treat out-of-range characters.
func Slice(text string, r Range) (string, bool) {
	if !r.IsValid() {
		return "", false
	}

	lines := strings.Split(text, "\n")
	if int(r.Start.Line) >= len(lines) || int(r.End.Line) >= len(lines) {
		return "", false
	}

	// Byte offset of each line start within text.
	starts := make([]int, len(lines))
	off := 0
	for i, line := range lines {
		starts[i] = off
		off += len(line) + 1
	}

	start := starts[r.Start.Line] + columnOffset(lines[r.Start.Line], r.Start.Column)
	end := starts[r.End.Line] + columnOffset(lines[r.End.Line], r.End.Column)
	if start > end || end > len(text) {
		return "", false
	}
	return text[start:end], true
}

// Splice returns text with the span covered by r replaced by repl. It
// returns false when the range does not resolve within text.
func Splice(text string, r Range, repl string) (string, bool) {
	if !r.IsValid() {
		return "", false
	}

	lines := strings.Split(text, "\n")
	if int(r.Start.Line) >= len(lines) || int(r.End.Line) >= len(lines) {
		return "", false
	}

	starts := make([]int, len(lines))
	off := 0
	for i, line := range lines {
		starts[i] = off
		off += len(line) + 1
	}

	start := starts[r.Start.Line] + columnOffset(lines[r.Start.Line], r.Start.Column)
	end := starts[r.End.Line] + columnOffset(lines[r.End.Line], r.End.Column)
	if start > end || end > len(text) {
		return "", false
	}
	return text[:start] + repl + text[end:], true
}

// columnOffset converts a UTF-16 column to a byte offset within a line.
// The trailing carriage return of a CRLF line is not addressable; columns
// clamp to the content before it.
func columnOffset(line string, col uint32) int {
	content := strings.TrimSuffix(line, "\r")
	units := uint32(0)
	for i, r := range content {
		if units >= col {
			return i
		}
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
	}
	return len(content)
}
