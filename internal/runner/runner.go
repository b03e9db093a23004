// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner executes external programs. The markitdown backends and the
// container runtime both go through an Executor so tests can replace the
// operating system with a fake.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// maxStderr caps how much captured stderr is kept in an Error.
const maxStderr = 4096

// Command describes one program invocation.
type Command struct {
	Name string
	Args []string

	// Env is appended to the current process environment.
	Env []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Executor runs commands.
type Executor interface {
	// LookPath resolves a binary on PATH.
	LookPath(file string) (string, error)

	// Run executes cmd and waits for it. A non-zero exit is an error.
	Run(ctx context.Context, cmd Command) error
}

// OS is the production Executor backed by os/exec.
type OS struct{}

func (OS) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (OS) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	return cmd.Run()
}

// Error reports a failed command together with what it wrote to stderr.
type Error struct {
	Cmd    string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s: %v", e.Cmd, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Cmd, e.Err, e.Stderr)
}

func (e *Error) Unwrap() error { return e.Err }

// Output runs cmd, capturing stdout and stderr. Stdout and Stderr set on cmd
// are replaced. On failure the returned error is an *Error carrying the
// trimmed stderr; a cancelled or expired ctx is reported as ctx.Err().
func Output(ctx context.Context, ex Executor, cmd Command) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := ex.Run(ctx, cmd); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, &Error{
			Cmd:    cmd.Name,
			Stderr: trimStderr(stderr.String()),
			Err:    err,
		}
	}
	return stdout.Bytes(), nil
}

// Silent runs cmd discarding all output. It is used for probes.
func Silent(ctx context.Context, ex Executor, name string, args ...string) error {
	return ex.Run(ctx, Command{Name: name, Args: args, Stdout: io.Discard, Stderr: io.Discard})
}

// trimStderr keeps the tail of s, where tracebacks put the actual error.
func trimStderr(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderr {
		s = "..." + s[len(s)-maxStderr:]
	}
	return s
}
