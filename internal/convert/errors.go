// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import "errors"

// Error kinds. Every failure returned by this package wraps exactly one of
// them; callers classify with errors.Is.
var (
	// ErrMissingInput means the input path does not exist or the input URL
	// could not be fetched.
	ErrMissingInput = errors.New("input not found")

	// ErrMissingDependency means no markitdown backend could be loaded.
	ErrMissingDependency = errors.New("markitdown is not installed")

	// ErrConversion covers anything raised while converting or while writing
	// the output file.
	ErrConversion = errors.New("conversion failed")
)

// Process exit statuses.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// ExitCode maps an error returned by the conversion flow to a process exit
// status. Every error kind is terminal and maps to ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	return ExitFailure
}

// Kind returns the error kind err wraps, or nil when it wraps none of them.
func Kind(err error) error {
	for _, kind := range []error{ErrMissingInput, ErrMissingDependency, ErrConversion} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
