// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the convert-to-markdown CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/convert-to-markdown/internal/convert"
	"github.com/pdiddy/convert-to-markdown/internal/runner"
	"github.com/pdiddy/convert-to-markdown/internal/secrets"
	"github.com/pdiddy/convert-to-markdown/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	appName   = "convert-to-markdown"
	envPrefix = "CONVERT_TO_MARKDOWN"
)

// app carries the process collaborators. Tests build one with buffers and a
// fake executor.
type app struct {
	stdout io.Writer
	stderr io.Writer
	exec   runner.Executor
	client *http.Client

	v       *viper.Viper
	cfg     types.Config
	secrets secrets.Secrets
}

func newApp() *app {
	return &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		exec:   runner.OS{},
		client: &http.Client{},
	}
}

// reportedError marks an error whose message and hints were already printed.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func newRootCmd(a *app) *cobra.Command {
	a.v = viper.New()

	root := &cobra.Command{
		Use:   appName + " <input-path> [output-path]",
		Short: "Convert a document to Markdown with markitdown",
		Long: `convert-to-markdown converts one document to Markdown using Microsoft's
markitdown library and prints statistics and a preview of the result.

Supported formats include PDF (.pdf), Word (.docx, .doc), PowerPoint
(.pptx, .ppt), Excel (.xlsx, .xls), images (.jpg, .jpeg, .png), audio
(.mp3, .wav), HTML (.html), text (.txt), CSV (.csv), JSON (.json) and
XML (.xml). The input may also be an http(s) URL.

The output defaults to <input name>.md next to the input file.

Requirements:
  pip install 'markitdown[all]'
  (or a local markitdown:latest container image with docker or podman)`,
		Example: `  convert-to-markdown document.pdf
  convert-to-markdown document.pdf output.md
  convert-to-markdown presentation.pptx --preview-lines 20`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A bare invocation only prints usage and must not depend on
			// the environment.
			if !cmd.HasParent() && len(args) == 0 {
				return nil
			}
			return a.loadConfig(cmd)
		},
		RunE: a.runConvert,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().String("config", "", "config file (default: ./convert-to-markdown.yaml or ~/.config/convert-to-markdown/config.yaml)")
	addConvertFlags(root.Flags())
	bindFlags(a.v, root.Flags())

	root.AddCommand(newVersionCmd(a), newDoctorCmd(a), newHistoryCmd(a))
	return root
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"backend":           "backend",
	"timeout":           "timeout",
	"preview-lines":     "preview_lines",
	"frontmatter":       "frontmatter",
	"keep-data-uris":    "markitdown.keep_data_uris",
	"use-plugins":       "markitdown.use_plugins",
	"docintel-endpoint": "markitdown.docintel_endpoint",
}

func addConvertFlags(fs *pflag.FlagSet) {
	fs.String("backend", string(types.BackendAuto), "markitdown backend: auto, python, markitdown, or container")
	fs.Duration("timeout", 0, "maximum time for one conversion (0 means no limit)")
	fs.Int("preview-lines", types.DefaultPreviewLines, "number of lines shown in the preview")
	fs.Bool("frontmatter", false, "prepend YAML frontmatter (source, time, backend) to the output")
	fs.Bool("keep-data-uris", false, "keep base64 data URIs for embedded images")
	fs.Bool("use-plugins", false, "enable installed markitdown plugins")
	fs.String("docintel-endpoint", "", "convert through Azure Document Intelligence at this endpoint")
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			_ = v.BindPFlag(key, f)
		}
	})
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", string(types.BackendAuto))
	v.SetDefault("timeout", "0s")
	v.SetDefault("preview_lines", types.DefaultPreviewLines)
	v.SetDefault("frontmatter", false)
	v.SetDefault("secrets_dir", types.DefaultSecretsDir)
	v.SetDefault("markitdown.bin", types.DefaultMarkitdownBin)
	v.SetDefault("markitdown.keep_data_uris", false)
	v.SetDefault("markitdown.use_plugins", false)
	v.SetDefault("markitdown.docintel_endpoint", "")
	v.SetDefault("python.bin", types.DefaultPythonBin)
	v.SetDefault("container.image", types.DefaultContainerImage)
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.path", "")
	v.SetDefault("http.timeout", types.DefaultHTTPTimeout.String())
	v.SetDefault("http.user_agent", types.DefaultUserAgent)
	v.SetDefault("http.max_retries", 0)
}

// loadConfig layers defaults, the config file, CONVERT_TO_MARKDOWN_*
// environment variables and flags into a.cfg, then loads secrets.
func (a *app) loadConfig(cmd *cobra.Command) error {
	v := a.v
	setDefaults(v)

	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", appName))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err == nil {
		fmt.Fprintln(a.stderr, "Using config file:", v.ConfigFileUsed())
	} else {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	a.cfg = cfg.WithDefaults()
	if !a.cfg.Backend.Valid() {
		return fmt.Errorf("invalid backend %q: want auto, python, markitdown, or container", a.cfg.Backend)
	}

	s, err := secrets.Load(a.cfg.SecretsDir, a.stderr)
	if err != nil {
		return err
	}
	a.secrets = s
	if keys := s.Keys(); len(keys) > 0 {
		fmt.Fprintf(a.stderr, "Loaded secrets: %v\n", keys)
	}
	if a.cfg.Markitdown.DocIntelEndpoint == "" {
		a.cfg.Markitdown.DocIntelEndpoint = s.DocIntelEndpoint()
	}
	return nil
}

// loader builds the backend loader for the resolved configuration.
func (a *app) loader() convert.Loader {
	return convert.Loader{
		Config: a.cfg,
		Exec:   a.exec,
		Opts:   convert.OptionsFrom(a.cfg, a.secrets.Env()),
	}
}

// execute runs the CLI with args and returns the process exit status.
func execute(ctx context.Context, a *app, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return convert.ExitSuccess
	}
	var reported *reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintf(a.stdout, "Error: %v\n", err)
	}
	return convert.ExitCode(err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, newApp(), os.Args[1:])
	stop()
	os.Exit(code)
}
