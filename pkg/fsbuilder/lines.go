package fsbuilder

import "strings"

// splitLinesKeep splits data into lines, each retaining its trailing
// newline (the final line may lack one). Empty input yields nil.
func splitLinesKeep(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	var lines []string
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, string(data[start:i+1]))
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, string(data[start:]))
	}
	return lines
}

// stripEOL removes any trailing newline and carriage-return characters,
// so comparisons are insensitive to line terminators.
func stripEOL(s string) string {
	return strings.TrimRight(s, "\n\r")
}

// ensureNL guarantees a trailing newline.
func ensureNL(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// joinLines reassembles lines into file content.
func joinLines(lines []string) string {
	return strings.Join(lines, "")
}

// linesEqual reports whether two line slices are identical.
func linesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
