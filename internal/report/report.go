// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report computes and prints the summary shown after a conversion:
// sizes, character and line counts, Markdown structure, and a preview.
package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultPreviewLines is how many lines the preview shows.
	DefaultPreviewLines = 10

	ruleWidth = 60
	ellipsis  = "..."
)

// Stats summarizes one conversion.
type Stats struct {
	InputPath   string
	OutputPath  string
	InputBytes  int64
	OutputBytes int64

	// Chars counts code points, not bytes.
	Chars int
	Lines int

	// PreviewLimit is the number of lines the preview was cut to.
	PreviewLimit int
	Preview      []string
	Truncated    bool

	Structure Structure
}

// Compute derives Stats from the converted text. previewLines <= 0 selects
// DefaultPreviewLines.
func Compute(text string, previewLines int) Stats {
	if previewLines <= 0 {
		previewLines = DefaultPreviewLines
	}
	lines := SplitLines(text)

	preview := lines
	truncated := false
	if len(lines) > previewLines {
		preview = lines[:previewLines]
		truncated = true
	}

	return Stats{
		Chars:        utf8.RuneCountInString(text),
		Lines:        len(lines),
		PreviewLimit: previewLines,
		Preview:      preview,
		Truncated:    truncated,
		Structure:    Analyze([]byte(text)),
	}
}

// KB formats a byte count as kilobytes with two decimals.
func KB(n int64) string {
	return fmt.Sprintf("%.2f KB", float64(n)/1024)
}

// Rule is the horizontal line framing the preview.
func Rule() string {
	return strings.Repeat("─", ruleWidth)
}

// Print writes the statistics block followed by the preview.
func Print(w io.Writer, s Stats) {
	fmt.Fprintln(w, "Statistics:")
	fmt.Fprintf(w, "   - Input file:  %s\n", s.InputPath)
	fmt.Fprintf(w, "   - Input size:  %s\n", KB(s.InputBytes))
	fmt.Fprintf(w, "   - Output file: %s\n", s.OutputPath)
	fmt.Fprintf(w, "   - Output size: %s\n", KB(s.OutputBytes))
	fmt.Fprintf(w, "   - Characters:  %d\n", s.Chars)
	fmt.Fprintf(w, "   - Lines:       %d\n", s.Lines)
	fmt.Fprintf(w, "   - Structure:   %s\n\n", s.Structure)

	PrintPreview(w, s)
}

// PrintPreview writes the preview lines between two rules, with an ellipsis
// line when the text continues past the preview.
func PrintPreview(w io.Writer, s Stats) {
	fmt.Fprintf(w, "Preview (first %d lines):\n", s.PreviewLimit)
	fmt.Fprintln(w, Rule())
	fmt.Fprintln(w, strings.Join(s.Preview, "\n"))
	if s.Truncated {
		fmt.Fprintln(w, ellipsis)
	}
	fmt.Fprintln(w, Rule())
}
