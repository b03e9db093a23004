// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package hints provides remediation hints printed after each kind of
// failure. Hints are formatted consistently as "  hint: <text>" lines.
package hints

import (
	"context"
	"errors"
	"strings"
)

const installCmd = "pip install 'markitdown[all]'"

// extras maps input extensions to the markitdown optional dependency group
// that handles them.
var extras = map[string]string{
	".pdf":  "pdf",
	".docx": "docx",
	".doc":  "docx",
	".pptx": "pptx",
	".ppt":  "pptx",
	".xlsx": "xlsx",
	".xls":  "xls",
	".mp3":  "audio-transcription",
	".wav":  "audio-transcription",
	".m4a":  "audio-transcription",
	".msg":  "outlook",
}

// ForMissingInput returns hints for an input that does not exist.
func ForMissingInput(input string) []string {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return []string{"check the URL is reachable and returns HTTP 200"}
	}
	return []string{"check the path, or quote it if it contains spaces"}
}

// ForMissingDependency returns hints for a markitdown that cannot be loaded.
func ForMissingDependency() []string {
	return []string{
		"run: " + installCmd,
		"or build the container image: docker build -t markitdown:latest https://github.com/microsoft/markitdown.git",
		"run 'convert-to-markdown doctor' to see which backends were tried",
	}
}

// ForConversion returns hints for a failed conversion of a file with the
// given extension. err is inspected for timeouts.
func ForConversion(ext string, err error) []string {
	if errors.Is(err, context.DeadlineExceeded) {
		return []string{"the conversion timed out; for large documents raise --timeout"}
	}

	hints := []string{
		"make sure the file format is supported",
		"check whether the file is corrupted",
	}
	if extra, ok := extras[strings.ToLower(ext)]; ok {
		hints = append(hints, "this format needs extra dependencies: pip install 'markitdown["+extra+"]'")
	} else {
		hints = append(hints, "some formats need extra dependencies: "+installCmd)
	}
	return hints
}

// Format renders hints as indented "hint:" lines, each ending in a newline.
func Format(hints []string) string {
	var b strings.Builder
	for _, h := range hints {
		if h == "" {
			continue
		}
		b.WriteString("  hint: ")
		b.WriteString(h)
		b.WriteString("\n")
	}
	return b.String()
}
