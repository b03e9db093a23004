// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionStatus is the outcome of one conversion attempt.
type ConversionStatus string

const (
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// Record is one row of the conversion history.
type Record struct {
	// ID is a random UUID assigned when the record is created.
	ID string `json:"id" yaml:"id"`

	// StartedAt is when the conversion began (UTC).
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// Input is the input as given on the command line (path or URL).
	Input string `json:"input" yaml:"input"`

	// Output is the absolute output path.
	Output string `json:"output" yaml:"output"`

	// Backend is the name of the backend that ran, if one was loaded.
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`

	InputBytes  int64 `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int64 `json:"output_bytes" yaml:"output_bytes"`
	Chars       int   `json:"chars" yaml:"chars"`
	Lines       int   `json:"lines" yaml:"lines"`

	// Duration is the wall time of the attempt.
	Duration time.Duration `json:"duration" yaml:"duration"`

	Status ConversionStatus `json:"status" yaml:"status"`

	// Error holds the failure message when Status is failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}
