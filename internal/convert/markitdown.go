// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/convert-to-markdown/internal/container"
	"github.com/pdiddy/convert-to-markdown/internal/runner"
)

// Options are forwarded to markitdown by every backend.
type Options struct {
	KeepDataURIs     bool
	UsePlugins       bool
	DocIntelEndpoint string

	// Env holds KEY=VALUE pairs given to the backend process only.
	Env []string
}

// cliArgs renders o as markitdown console-script flags.
func (o Options) cliArgs() []string {
	var args []string
	if o.KeepDataURIs {
		args = append(args, "--keep-data-uris")
	}
	if o.UsePlugins {
		args = append(args, "--use-plugins")
	}
	if o.DocIntelEndpoint != "" {
		args = append(args, "-d", "-e", o.DocIntelEndpoint)
	}
	return args
}

// pythonScript converts sys.argv[1] and writes text_content to stdout
// untouched, so the output file matches the library result byte for byte.
const pythonScript = `import sys
from markitdown import MarkItDown
path, keep, plugins, endpoint = sys.argv[1:5]
kwargs = {"enable_plugins": plugins == "1"}
if endpoint:
    kwargs["docintel_endpoint"] = endpoint
result = MarkItDown(**kwargs).convert(path, keep_data_uris=keep == "1")
sys.stdout.buffer.write(result.text_content.encode("utf-8"))
sys.stdout.flush()
`

// PythonConverter imports the markitdown package in a Python interpreter.
type PythonConverter struct {
	bin  string
	exec runner.Executor
	opts Options
}

// NewPythonConverter returns a converter using the interpreter bin. It
// verifies that markitdown can be imported before returning.
func NewPythonConverter(ctx context.Context, ex runner.Executor, bin string, opts Options) (*PythonConverter, error) {
	if _, err := ex.LookPath(bin); err != nil {
		return nil, fmt.Errorf("python interpreter %s not found: %w", bin, err)
	}
	if _, err := runner.Output(ctx, ex, runner.Command{
		Name: bin,
		Args: []string{"-c", "import markitdown"},
		Env:  opts.Env,
	}); err != nil {
		return nil, fmt.Errorf("markitdown module not importable by %s: %w", bin, err)
	}
	return &PythonConverter{bin: bin, exec: ex, opts: opts}, nil
}

func (p *PythonConverter) Name() string { return "python" }

func (p *PythonConverter) Convert(ctx context.Context, in InputSpec) (string, error) {
	out, err := runner.Output(ctx, p.exec, runner.Command{
		Name: p.bin,
		Args: []string{"-c", pythonScript, in.Path,
			boolArg(p.opts.KeepDataURIs), boolArg(p.opts.UsePlugins), p.opts.DocIntelEndpoint},
		Env: p.opts.Env,
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func boolArg(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// CLIConverter runs the markitdown console script.
type CLIConverter struct {
	bin  string
	exec runner.Executor
	opts Options
}

// NewCLIConverter returns a converter for the markitdown console script. It
// verifies the script is on PATH before returning.
func NewCLIConverter(ex runner.Executor, bin string, opts Options) (*CLIConverter, error) {
	resolved, err := ex.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("%s not found on PATH: %w", bin, err)
	}
	return &CLIConverter{bin: resolved, exec: ex, opts: opts}, nil
}

func (c *CLIConverter) Name() string { return "markitdown" }

// Convert runs the script on in.Path with -o, so markitdown writes the
// result as UTF-8 to a file instead of printing it through the console
// encoding.
func (c *CLIConverter) Convert(ctx context.Context, in InputSpec) (string, error) {
	dir, err := os.MkdirTemp("", "convert-to-markdown-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)
	outPath := filepath.Join(dir, "out.md")

	args := append(c.opts.cliArgs(), in.Path, "-o", outPath)
	if _, err := runner.Output(ctx, c.exec, runner.Command{
		Name: c.bin,
		Args: args,
		Env:  c.opts.Env,
	}); err != nil {
		return "", err
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return "", fmt.Errorf("reading markitdown output: %w", err)
	}
	return string(data), nil
}

// trimPrintNewline removes the single newline print appends on Linux.
func trimPrintNewline(s string) string {
	return strings.TrimSuffix(s, "\n")
}

// ContainerConverter pipes the document through a markitdown container
// image. It depends on a container.Runtime (docker or podman) injected at
// construction time.
type ContainerConverter struct {
	runtime container.Runtime
	image   string
	opts    Options
}

// NewContainerConverter creates a converter that runs image with rt. It
// verifies that the image exists locally before returning.
func NewContainerConverter(ctx context.Context, rt container.Runtime, image string, opts Options) (*ContainerConverter, error) {
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerConverter{runtime: rt, image: image, opts: opts}, nil
}

func (c *ContainerConverter) Name() string { return "container" }

// Convert streams in.Path into the container. The extension is passed as a
// hint because markitdown cannot sniff every format from stdin.
func (c *ContainerConverter) Convert(ctx context.Context, in InputSpec) (string, error) {
	f, err := os.Open(in.Path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", in.Path, err)
	}
	defer f.Close()

	args := c.opts.cliArgs()
	if in.Ext != "" {
		args = append(args, "-x", in.Ext)
	}

	env := append(append([]string(nil), c.opts.Env...), "PYTHONIOENCODING=utf-8")
	var out bytes.Buffer
	if err := c.runtime.Run(ctx, c.image, args, env, f, &out); err != nil {
		return "", err
	}
	return trimPrintNewline(out.String()), nil
}
