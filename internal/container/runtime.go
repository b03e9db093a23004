// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container detects a local container runtime (docker or podman)
// and runs images with piped standard streams.
package container

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/convert-to-markdown/internal/runner"
)

const (
	binDocker = "docker"
	binPodman = "podman"
)

// Runtime provides container operations: checking availability, verifying
// images, and running containers.
type Runtime interface {
	// Name returns the runtime name ("docker" or "podman").
	Name() string

	// Available reports whether the runtime binary exists on PATH and
	// responds to an info command.
	Available(ctx context.Context) bool

	// ImageExists returns nil when the named image exists locally.
	ImageExists(ctx context.Context, image string) error

	// Run executes image with args appended after the image reference,
	// streaming stdin in and stdout out. Stderr is captured into the error.
	Run(ctx context.Context, image string, args []string, env []string, stdin io.Reader, stdout io.Writer) error
}

// runtime implements Runtime for a specific container binary. Docker and
// Podman differ only in binary name and the image check subcommand.
type runtime struct {
	bin           string
	imageCheckCmd []string
	exec          runner.Executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available(ctx context.Context) bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return runner.Silent(ctx, r.exec, r.bin, "info") == nil
}

func (r *runtime) ImageExists(ctx context.Context, image string) error {
	args := make([]string, 0, len(r.imageCheckCmd)+1)
	args = append(args, r.imageCheckCmd...)
	args = append(args, image)

	if err := runner.Silent(ctx, r.exec, r.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, r.bin, err)
	}
	return nil
}

func (r *runtime) Run(ctx context.Context, image string, args []string, env []string, stdin io.Reader, stdout io.Writer) error {
	// Only variable names go on the command line; the runtime copies the
	// values from its own environment so they never show up in argv.
	cmdArgs := []string{"run", "--rm", "-i"}
	for _, kv := range env {
		name, _, _ := strings.Cut(kv, "=")
		cmdArgs = append(cmdArgs, "-e", name)
	}
	cmdArgs = append(cmdArgs, image)
	cmdArgs = append(cmdArgs, args...)

	out, err := runner.Output(ctx, r.exec, runner.Command{
		Name:  r.bin,
		Args:  cmdArgs,
		Env:   env,
		Stdin: stdin,
	})
	if err != nil {
		return fmt.Errorf("running %s container %s: %w", r.bin, image, err)
	}
	if _, err := stdout.Write(out); err != nil {
		return fmt.Errorf("copying %s output: %w", image, err)
	}
	return nil
}

func newDockerRuntime(ex runner.Executor) *runtime {
	return &runtime{
		bin:           binDocker,
		imageCheckCmd: []string{"image", "inspect"},
		exec:          ex,
	}
}

func newPodmanRuntime(ex runner.Executor) *runtime {
	return &runtime{
		bin:           binPodman,
		imageCheckCmd: []string{"image", "exists"},
		exec:          ex,
	}
}

// Detect tries docker first and falls back to podman. It returns an error if
// neither runtime is available.
func Detect(ctx context.Context, ex runner.Executor) (Runtime, error) {
	docker := newDockerRuntime(ex)
	if docker.Available(ctx) {
		return docker, nil
	}

	podman := newPodmanRuntime(ex)
	if podman.Available(ctx) {
		return podman, nil
	}

	return nil, fmt.Errorf(
		"no container runtime available: neither %s nor %s found or operational",
		binDocker, binPodman,
	)
}
