// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/convert-to-markdown/internal/convert"
	"github.com/pdiddy/convert-to-markdown/internal/fetch"
	"github.com/pdiddy/convert-to-markdown/internal/hints"
	"github.com/pdiddy/convert-to-markdown/internal/history"
	"github.com/pdiddy/convert-to-markdown/internal/report"
	"github.com/pdiddy/convert-to-markdown/pkg/types"
)

// runConvert is the root command: convert one input and report on it.
func (a *app) runConvert(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	ctx := cmd.Context()
	w := a.stdout

	var outputArg string
	if len(args) > 1 {
		outputArg = args[1]
	}

	rec := types.Record{StartedAt: time.Now(), Input: args[0]}
	result, err := a.convertOne(ctx, args[0], outputArg, &rec)
	if err != nil {
		rec.Status = types.ConversionFailed
		rec.Error = err.Error()
		rec.Duration = time.Since(rec.StartedAt)
		a.record(ctx, rec)
		a.printFailure(args[0], rec.Backend, err)
		return &reportedError{err: err}
	}

	stats := report.Compute(result.Written, a.cfg.PreviewLines)
	stats.InputPath = args[0]
	stats.OutputPath = rec.Output
	stats.InputBytes = result.InputBytes
	stats.OutputBytes = result.OutputBytes

	fmt.Fprintln(w, "Conversion succeeded.")
	fmt.Fprintln(w)
	report.Print(w, stats)

	rec.Status = types.ConversionDone
	rec.InputBytes = stats.InputBytes
	rec.OutputBytes = stats.OutputBytes
	rec.Chars = stats.Chars
	rec.Lines = stats.Lines
	rec.Duration = result.Duration
	a.record(ctx, rec)
	return nil
}

// convertOne resolves the input, loads markitdown, and runs the conversion.
// It fills rec with what it learns along the way.
func (a *app) convertOne(ctx context.Context, inputArg, outputArg string, rec *types.Record) (convert.Result, error) {
	w := a.stdout

	in, err := convert.NewInputSpec(inputArg)
	if err != nil {
		return convert.Result{}, err
	}

	var inputBytes int64
	if in.IsURL() {
		fmt.Fprintf(w, "Downloading: %s\n", in.URL)
		client := a.client
		if client == nil {
			client = &http.Client{}
		}
		c := *client
		c.Timeout = a.cfg.HTTP.Timeout
		dl, err := fetch.Get(ctx, &c, in.URL, in.Ext, a.cfg.HTTP)
		if err != nil {
			return convert.Result{}, fmt.Errorf("%w: %w", convert.ErrMissingInput, err)
		}
		defer dl.Remove()
		in = in.WithLocalPath(dl.Path)
		inputBytes = dl.Bytes
	}

	conv, err := a.loader().Load(ctx)
	if err != nil {
		return convert.Result{}, err
	}
	rec.Backend = conv.Name()

	out, err := convert.ResolveOutput(in, outputArg)
	if err != nil {
		return convert.Result{}, fmt.Errorf("%w: %w", convert.ErrConversion, err)
	}
	rec.Output = out.Path

	fmt.Fprintf(w, "\nConverting: %s\n", inputArg)
	fmt.Fprintf(w, "Output:     %s\n\n", out.Path)
	fmt.Fprintf(w, "Processing with %s...\n", conv.Name())

	runCtx := ctx
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	result, err := convert.Run(runCtx, conv, convert.Job{
		Input:       in,
		Output:      out,
		Frontmatter: a.cfg.Frontmatter,
	})
	if err != nil {
		return convert.Result{}, err
	}
	if in.IsURL() {
		result.InputBytes = inputBytes
	}
	return result, nil
}

// printFailure writes the message and hints for err's kind to stdout.
func (a *app) printFailure(inputArg, backend string, err error) {
	w := a.stdout

	switch convert.Kind(err) {
	case convert.ErrMissingInput:
		if convert.IsRemote(inputArg) {
			fmt.Fprintf(w, "Error: could not fetch %s\n   %v\n", inputArg, err)
		} else {
			fmt.Fprintf(w, "Error: file not found: %s\n", inputArg)
		}
		fmt.Fprint(w, hints.Format(hints.ForMissingInput(inputArg)))
	case convert.ErrMissingDependency:
		fmt.Fprintf(w, "Error: %v\n", err)
		fmt.Fprint(w, hints.Format(hints.ForMissingDependency()))
	default:
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Conversion failed:")
		fmt.Fprintf(w, "   error: %v\n", err)
		if backend != "" {
			fmt.Fprintf(w, "   backend: %s\n", backend)
		}
		fmt.Fprintln(w)
		in, _ := convert.NewInputSpec(inputArg)
		fmt.Fprint(w, hints.Format(hints.ForConversion(in.Ext, err)))
	}
}

// record appends rec to the history store when history is enabled. Failures
// are reported on stderr and never change the exit status.
func (a *app) record(ctx context.Context, rec types.Record) {
	if !a.cfg.History.Enabled {
		return
	}
	path, err := a.historyPath()
	if err != nil {
		fmt.Fprintf(a.stderr, "warning: history: %v\n", err)
		return
	}
	store, err := history.Open(path)
	if err != nil {
		fmt.Fprintf(a.stderr, "warning: history: %v\n", err)
		return
	}
	defer store.Close()

	if _, err := store.Add(context.WithoutCancel(ctx), rec); err != nil {
		fmt.Fprintf(a.stderr, "warning: history: %v\n", err)
	}
}

func (a *app) historyPath() (string, error) {
	if a.cfg.History.Path != "" {
		return a.cfg.History.Path, nil
	}
	return history.DefaultPath()
}
