// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// defaultURLStem names the output when a URL has no usable last path element.
const defaultURLStem = "download"

// InputSpec describes the file to convert. Build it with NewInputSpec; the
// derived fields are not recomputed afterwards.
type InputSpec struct {
	// Source is the argument exactly as the user typed it.
	Source string

	// Path is the absolute local path handed to the backend. For URL inputs
	// it is empty until the download completes (see WithLocalPath).
	Path string

	// Ext is the lower-cased extension including the dot, or "".
	Ext string

	// Stem is the base name without its extension.
	Stem string

	// Dir is the directory default outputs are placed in: the input's parent
	// directory, or the working directory for URL inputs.
	Dir string

	// URL is set when Source is an http(s) URL.
	URL string
}

// IsURL reports whether the input must be downloaded before conversion.
func (in InputSpec) IsURL() bool { return in.URL != "" }

// WithLocalPath returns a copy of in whose Path points at a downloaded copy
// of the URL.
func (in InputSpec) WithLocalPath(p string) InputSpec {
	in.Path = p
	return in
}

// OutputSpec describes where the Markdown is written.
type OutputSpec struct {
	// Path is the absolute output path.
	Path string
}

// IsRemote reports whether arg names an http or https URL.
func IsRemote(arg string) bool {
	lower := strings.ToLower(arg)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// NewInputSpec resolves arg into an InputSpec. Local paths must exist; the
// error then wraps ErrMissingInput and names the path. URLs are only parsed
// here, the existence check happens when they are fetched.
func NewInputSpec(arg string) (InputSpec, error) {
	if IsRemote(arg) {
		return newURLInputSpec(arg)
	}

	if _, err := os.Stat(arg); err != nil {
		if os.IsNotExist(err) {
			return InputSpec{}, fmt.Errorf("%w: %s", ErrMissingInput, arg)
		}
		return InputSpec{}, fmt.Errorf("%w: %s: %v", ErrMissingInput, arg, err)
	}

	abs, err := filepath.Abs(arg)
	if err != nil {
		return InputSpec{}, fmt.Errorf("%w: resolving %s: %v", ErrMissingInput, arg, err)
	}

	ext := filepath.Ext(abs)
	return InputSpec{
		Source: arg,
		Path:   abs,
		Ext:    strings.ToLower(ext),
		Stem:   strings.TrimSuffix(filepath.Base(abs), ext),
		Dir:    filepath.Dir(abs),
	}, nil
}

func newURLInputSpec(arg string) (InputSpec, error) {
	u, err := url.Parse(arg)
	if err != nil || u.Host == "" {
		return InputSpec{}, fmt.Errorf("%w: invalid URL %s", ErrMissingInput, arg)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return InputSpec{}, fmt.Errorf("%w: resolving working directory: %v", ErrMissingInput, err)
	}

	base := path.Base(u.Path)
	if base == "/" || base == "." {
		base = ""
	}
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = defaultURLStem
	}

	return InputSpec{
		Source: arg,
		Ext:    strings.ToLower(ext),
		Stem:   stem,
		Dir:    cwd,
		URL:    arg,
	}, nil
}

// ResolveOutput returns the output location for in. An explicit path is made
// absolute against the working directory; otherwise the output is
// <stem>.md beside the input.
func ResolveOutput(in InputSpec, explicit string) (OutputSpec, error) {
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return OutputSpec{}, fmt.Errorf("resolving output path %s: %w", explicit, err)
		}
		return OutputSpec{Path: abs}, nil
	}
	return OutputSpec{Path: filepath.Join(in.Dir, in.Stem+".md")}, nil
}
