package indent

import "strings"

// Common returns the longest whitespace prefix shared by every non-blank
// line of text. Lines that are empty or whitespace-only are ignored. The
// prefix is compared character by character, so a mix of tabs and spaces
// across lines shortens the result to the point of first mismatch. If no
// non-blank lines exist, Common returns "".
func Common(text string) string {
	common := ""
	first := true
	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lead := leadingWhitespace(line)
		if first {
			common = lead
			first = false
			continue
		}
		common = commonPrefix(common, lead)
		if common == "" {
			return ""
		}
	}
	return common
}

// Strip removes the literal prefix from every line of text that starts
// with it. Lines without the prefix, such as blank lines shorter than the
// indent, are left unchanged. Lines are rejoined with "\n", normalizing
// any CRLF endings. An empty indent returns text unchanged.
func Strip(text, indent string) string {
	if indent == "" {
		return text
	}
	lines := splitLines(text)
	for i, line := range lines {
		if strings.HasPrefix(line, indent) {
			lines[i] = line[len(indent):]
		}
	}
	return strings.Join(lines, "\n")
}

// Restore prepends indent to every non-empty line of text. Empty lines
// stay empty rather than gaining trailing whitespace. An empty indent
// returns text unchanged.
func Restore(text, indent string) string {
	if indent == "" {
		return text
	}
	lines := splitLines(text)
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}

// splitLines splits on LF, tolerating CRLF by dropping the trailing
// carriage return of each line.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// leadingWhitespace returns the run of spaces and tabs at the start of line.
func leadingWhitespace(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return line[:i]
		}
	}
	return line
}

// commonPrefix returns the longest common prefix of a and b.
func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
