// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns one input document into a Markdown file by handing
// it to markitdown through a pluggable backend.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// Converter transforms a document into Markdown text. The Python module,
// the markitdown console script and the container image implement it.
type Converter interface {
	// Name identifies the backend in messages and history records.
	Name() string

	// Convert reads the document at in.Path and returns the Markdown text
	// exactly as the library produced it.
	Convert(ctx context.Context, in InputSpec) (string, error)
}

// Job is one conversion request.
type Job struct {
	Input  InputSpec
	Output OutputSpec

	// Frontmatter prepends YAML frontmatter to the written content.
	Frontmatter bool
}

// Result describes a completed conversion.
type Result struct {
	// Backend is the converter name.
	Backend string

	// Text is the library output, before any frontmatter.
	Text string

	// Written is what was stored at the output path.
	Written string

	InputBytes  int64
	OutputBytes int64
	Duration    time.Duration
}

// now is replaced in tests.
var now = time.Now

// Run converts job.Input with c and writes the result to job.Output,
// overwriting any existing file. Every failure wraps ErrConversion.
func Run(ctx context.Context, c Converter, job Job) (Result, error) {
	start := now()

	text, err := c.Convert(ctx, job.Input)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s with %s: %w", ErrConversion, job.Input.Source, c.Name(), err)
	}

	written := text
	if job.Frontmatter {
		written, err = addFrontmatter(job.Input, c.Name(), text, start)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %w", ErrConversion, err)
		}
	}

	if err := writeOutput(job.Output.Path, written); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrConversion, err)
	}

	res := Result{
		Backend:     c.Name(),
		Text:        text,
		Written:     written,
		OutputBytes: int64(len(written)),
		Duration:    now().Sub(start),
	}
	if info, err := os.Stat(job.Input.Path); err == nil {
		res.InputBytes = info.Size()
	}
	if info, err := os.Stat(job.Output.Path); err == nil {
		res.OutputBytes = info.Size()
	}
	return res, nil
}

// writeOutput stores content at path, creating the parent directory.
func writeOutput(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

type frontmatter struct {
	Source      string `yaml:"source"`
	ConvertedAt string `yaml:"converted_at"`
	Backend     string `yaml:"backend"`
}

// addFrontmatter prepends YAML frontmatter to the converted Markdown.
func addFrontmatter(in InputSpec, backend, body string, at time.Time) (string, error) {
	data, err := yaml.Marshal(frontmatter{
		Source:      in.Source,
		ConvertedAt: at.UTC().Format(time.RFC3339),
		Backend:     backend,
	})
	if err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(data)
	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String(), nil
}
