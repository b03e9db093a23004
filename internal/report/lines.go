// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import "unicode/utf8"

// isLineBreak reports whether r ends a line. The set matches Python's
// str.splitlines, which is how line counts of converted documents are
// conventionally reported.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// SplitLines splits s into lines without their terminators. "\r\n" counts
// as one terminator, a trailing terminator does not start a new empty line,
// and the empty string has no lines.
func SplitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}
		lines = append(lines, s[start:i])
		i += size
		if r == '\r' && i < len(s) && s[i] == '\n' {
			i++
		}
		start = i
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
