// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines configuration and record structures shared by the
// convert-to-markdown command and its internal packages.
package types

import "time"

// Backend identifies how the markitdown library is reached.
type Backend string

const (
	// BackendAuto probes the concrete backends in order and uses the first
	// one available.
	BackendAuto       Backend = "auto"
	BackendPython     Backend = "python"
	BackendMarkitdown Backend = "markitdown"
	BackendContainer  Backend = "container"
)

// Backends lists the concrete backends in auto-selection order.
var Backends = []Backend{BackendPython, BackendMarkitdown, BackendContainer}

// Valid reports whether b is auto or one of the concrete backends.
func (b Backend) Valid() bool {
	if b == BackendAuto {
		return true
	}
	for _, c := range Backends {
		if b == c {
			return true
		}
	}
	return false
}

// MarkitdownConfig holds options forwarded to markitdown itself, whichever
// backend runs it.
type MarkitdownConfig struct {
	// Bin is the markitdown console script (default "markitdown").
	Bin string `json:"bin" yaml:"bin" mapstructure:"bin"`

	// KeepDataURIs keeps base64 data URIs for embedded images.
	KeepDataURIs bool `json:"keep_data_uris" yaml:"keep_data_uris" mapstructure:"keep_data_uris"`

	// UsePlugins enables third-party markitdown plugins.
	UsePlugins bool `json:"use_plugins" yaml:"use_plugins" mapstructure:"use_plugins"`

	// DocIntelEndpoint routes conversion through Azure Document Intelligence
	// when set.
	DocIntelEndpoint string `json:"docintel_endpoint,omitempty" yaml:"docintel_endpoint,omitempty" mapstructure:"docintel_endpoint"`
}

// PythonConfig holds settings for the in-process Python backend.
type PythonConfig struct {
	// Bin is the Python interpreter (default "python3").
	Bin string `json:"bin" yaml:"bin" mapstructure:"bin"`
}

// ContainerConfig holds settings for the container backend.
type ContainerConfig struct {
	// Image is the markitdown image reference (default "markitdown:latest").
	Image string `json:"image" yaml:"image" mapstructure:"image"`
}

// HistoryConfig controls the optional conversion log.
type HistoryConfig struct {
	// Enabled records every conversion attempt when true.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// HTTPConfig holds settings used when the input is a URL.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with downloads.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 (0 means the default).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// Config is the resolved configuration for one invocation.
type Config struct {
	// Backend selects how markitdown is reached (default auto).
	Backend Backend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Timeout bounds a single conversion; zero means no limit.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// PreviewLines is the number of lines shown after conversion (default 10).
	PreviewLines int `json:"preview_lines" yaml:"preview_lines" mapstructure:"preview_lines"`

	// Frontmatter prepends YAML frontmatter to the written Markdown.
	Frontmatter bool `json:"frontmatter" yaml:"frontmatter" mapstructure:"frontmatter"`

	// SecretsDir is the directory of credential files (default ".secrets").
	SecretsDir string `json:"secrets_dir" yaml:"secrets_dir" mapstructure:"secrets_dir"`

	Markitdown MarkitdownConfig `json:"markitdown" yaml:"markitdown" mapstructure:"markitdown"`
	Python     PythonConfig     `json:"python" yaml:"python" mapstructure:"python"`
	Container  ContainerConfig  `json:"container" yaml:"container" mapstructure:"container"`
	History    HistoryConfig    `json:"history" yaml:"history" mapstructure:"history"`
	HTTP       HTTPConfig       `json:"http" yaml:"http" mapstructure:"http"`
}

// Defaults applied to zero-valued Config fields.
const (
	DefaultPreviewLines    = 10
	DefaultPythonBin       = "python3"
	DefaultMarkitdownBin   = "markitdown"
	DefaultContainerImage  = "markitdown:latest"
	DefaultSecretsDir      = ".secrets"
	DefaultHTTPTimeout     = 60 * time.Second
	DefaultUserAgent       = "convert-to-markdown/0.1"
	DefaultHistoryFileName = "history.db"
)

// WithDefaults returns a copy of c with zero-valued fields filled in.
// History.Path is left to the caller because it depends on the home directory.
func (c Config) WithDefaults() Config {
	if c.Backend == "" {
		c.Backend = BackendAuto
	}
	if c.PreviewLines <= 0 {
		c.PreviewLines = DefaultPreviewLines
	}
	if c.SecretsDir == "" {
		c.SecretsDir = DefaultSecretsDir
	}
	if c.Python.Bin == "" {
		c.Python.Bin = DefaultPythonBin
	}
	if c.Markitdown.Bin == "" {
		c.Markitdown.Bin = DefaultMarkitdownBin
	}
	if c.Container.Image == "" {
		c.Container.Image = DefaultContainerImage
	}
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = DefaultHTTPTimeout
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = DefaultUserAgent
	}
	return c
}
