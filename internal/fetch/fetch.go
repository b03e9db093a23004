// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads remote inputs so they can be converted like local
// files.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/pdiddy/convert-to-markdown/pkg/types"
)

// Download is a fetched remote document in a temporary file.
type Download struct {
	// Path is the temporary file holding the body.
	Path string

	// ContentType is the response Content-Type header.
	ContentType string

	// Bytes is the body size.
	Bytes int64
}

// Remove deletes the temporary file.
func (d Download) Remove() error {
	return os.Remove(d.Path)
}

// Get fetches url into a temporary file whose name ends in ext, so the
// converter can infer the format. Non-200 responses are errors naming the
// status and the URL.
func Get(ctx context.Context, client *http.Client, url, ext string, cfg types.HTTPConfig) (Download, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Download{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return Download{}, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Download{}, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp("", "convert-to-markdown-*"+ext)
	if err != nil {
		return Download{}, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	n, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return Download{}, fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return Download{}, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return Download{
		Path:        tmpPath,
		ContentType: resp.Header.Get("Content-Type"),
		Bytes:       n,
	}, nil
}
