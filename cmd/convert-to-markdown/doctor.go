// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/pdiddy/convert-to-markdown/internal/container"
	"github.com/pdiddy/convert-to-markdown/internal/convert"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string        `json:"status"` // "ready" or "errors"
	Selected  string        `json:"selected,omitempty"`
	Backends  []backendInfo `json:"backends"`
	Container string        `json:"container_runtime,omitempty"`
	Secrets   []string      `json:"secrets,omitempty"`
	OS        string        `json:"os"`
	Arch      string        `json:"arch"`
}

// backendInfo is the probe result for one backend.
type backendInfo struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func newDoctorCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check which markitdown backends are available",
		Long: `Doctor probes every way of reaching markitdown (the Python module, the
markitdown console script, and a container image) and reports which one a
conversion would use.`,
		Args: cobra.NoArgs,
		RunE: a.runDoctor,
	}
	cmd.Flags().Bool("json", false, "output results as JSON")
	return cmd
}

func (a *app) runDoctor(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	ctx := cmd.Context()

	result := doctorResult{
		Status:  "errors",
		Secrets: a.secrets.Keys(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}

	probes := a.loader().ProbeAll(ctx)
	for _, p := range probes {
		info := backendInfo{Name: string(p.Backend), OK: p.OK()}
		if !p.OK() {
			info.Error = p.Err.Error()
		}
		result.Backends = append(result.Backends, info)
	}
	if rt, err := container.Detect(ctx, a.exec); err == nil {
		result.Container = rt.Name()
	}
	if p, ok := convert.Select(a.cfg.Backend, probes); ok {
		result.Selected = p.Converter.Name()
		result.Status = "ready"
	}

	if jsonOutput {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printDoctorResult(a.stdout, result)
	}

	if result.Status != "ready" {
		return &reportedError{err: fmt.Errorf("%w: no usable backend", convert.ErrMissingDependency)}
	}
	return nil
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r doctorResult) {
	fmt.Fprintf(w, "%s doctor\n\n", appName)

	fmt.Fprintln(w, "Backends")
	for _, b := range r.Backends {
		if b.OK {
			fmt.Fprintf(w, "  [OK]    %s\n", b.Name)
		} else {
			fmt.Fprintf(w, "  [ERROR] %s: %s\n", b.Name, b.Error)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.OS, r.Arch)
	if r.Container != "" {
		fmt.Fprintf(w, "  [OK] Container runtime: %s\n", r.Container)
	} else {
		fmt.Fprintln(w, "  [--] Container runtime: none")
	}
	if len(r.Secrets) > 0 {
		fmt.Fprintf(w, "  [OK] Secrets: %v\n", r.Secrets)
	}
	fmt.Fprintln(w)

	if r.Status == "ready" {
		fmt.Fprintf(w, "Status: Ready to convert (backend: %s)\n", r.Selected)
	} else {
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
