// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/pdiddy/convert-to-markdown/internal/runner"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool // "bin arg1 arg2" -> whether a silent run succeeds
	runPipedFunc  func(cmd runner.Command) error // used when stdin is attached
	calls         []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Run(_ context.Context, cmd runner.Command) error {
	key := cmd.String()
	m.calls = append(m.calls, key)
	if cmd.Stdin != nil {
		if m.runPipedFunc != nil {
			return m.runPipedFunc(cmd)
		}
		return nil
	}
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		exec     *mockExecutor
		wantName string
		wantErr  bool
	}{
		{
			name: "docker available",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true},
				runnableCmds:  map[string]bool{"docker info": true},
			},
			wantName: "docker",
		},
		{
			name: "podman fallback when docker missing",
			exec: &mockExecutor{
				availableBins: map[string]bool{"podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
		{
			name: "neither available",
			exec: &mockExecutor{
				availableBins: map[string]bool{},
				runnableCmds:  map[string]bool{},
			},
			wantErr: true,
		},
		{
			name: "docker on PATH but info fails, podman works",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true, "podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
		{
			name: "both available, docker preferred",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true, "podman": true},
				runnableCmds:  map[string]bool{"docker info": true, "podman info": true},
			},
			wantName: "docker",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := Detect(context.Background(), tt.exec)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), "no container runtime available") {
					t.Errorf("error should mention no runtime available, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rt.Name() != tt.wantName {
				t.Errorf("got runtime %q, want %q", rt.Name(), tt.wantName)
			}
		})
	}
}

func TestImageExists(t *testing.T) {
	tests := []struct {
		name    string
		mkRT    func(*mockExecutor) Runtime
		image   string
		cmds    map[string]bool
		wantErr bool
	}{
		{
			name:  "docker image exists",
			mkRT:  func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			image: "markitdown:latest",
			cmds:  map[string]bool{"docker image inspect markitdown:latest": true},
		},
		{
			name:    "docker image not found",
			mkRT:    func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			image:   "markitdown:latest",
			cmds:    map[string]bool{},
			wantErr: true,
		},
		{
			name:  "podman image exists",
			mkRT:  func(e *mockExecutor) Runtime { return newPodmanRuntime(e) },
			image: "markitdown:latest",
			cmds:  map[string]bool{"podman image exists markitdown:latest": true},
		},
		{
			name:    "podman image not found",
			mkRT:    func(e *mockExecutor) Runtime { return newPodmanRuntime(e) },
			image:   "markitdown:latest",
			cmds:    map[string]bool{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{runnableCmds: tt.cmds}
			rt := tt.mkRT(exec)
			err := rt.ImageExists(context.Background(), tt.image)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.image) {
					t.Errorf("error should mention image name, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		mkRT     func(*mockExecutor) Runtime
		args     []string
		env      []string
		input    string
		pipeFunc func(runner.Command) error
		wantArgs string
		wantOut  string
		wantErr  string
	}{
		{
			name:  "docker run pipes stdin to stdout",
			mkRT:  func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			args:  []string{"-x", ".pdf"},
			input: "pdf content",
			pipeFunc: func(cmd runner.Command) error {
				data, _ := io.ReadAll(cmd.Stdin)
				_, _ = cmd.Stdout.Write([]byte("converted: " + string(data)))
				return nil
			},
			wantArgs: "docker run --rm -i markitdown:latest -x .pdf",
			wantOut:  "converted: pdf content",
		},
		{
			name:  "podman run forwards environment by name",
			mkRT:  func(e *mockExecutor) Runtime { return newPodmanRuntime(e) },
			env:   []string{"AZURE_API_KEY=super-secret", "PYTHONIOENCODING=utf-8"},
			input: "docx content",
			pipeFunc: func(cmd runner.Command) error {
				if len(cmd.Env) != 2 || cmd.Env[0] != "AZURE_API_KEY=super-secret" {
					return errors.New("values not passed through the process environment")
				}
				_, _ = cmd.Stdout.Write([]byte("ok"))
				return nil
			},
			wantArgs: "podman run --rm -i -e AZURE_API_KEY -e PYTHONIOENCODING markitdown:latest",
			wantOut:  "ok",
		},
		{
			name:  "run failure returns wrapped error with stderr",
			mkRT:  func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			input: "x",
			pipeFunc: func(cmd runner.Command) error {
				_, _ = cmd.Stderr.Write([]byte("UnsupportedFormatException"))
				return errors.New("exit status 1")
			},
			wantArgs: "docker run --rm -i markitdown:latest",
			wantErr:  "UnsupportedFormatException",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{runPipedFunc: tt.pipeFunc}
			rt := tt.mkRT(exec)
			var out bytes.Buffer
			err := rt.Run(context.Background(), "markitdown:latest", tt.args, tt.env, strings.NewReader(tt.input), &out)
			if len(exec.calls) != 1 || exec.calls[0] != tt.wantArgs {
				t.Errorf("calls = %v, want [%s]", exec.calls, tt.wantArgs)
			}
			for _, kv := range tt.env {
				if len(exec.calls) == 0 {
					break
				}
				if _, value, _ := strings.Cut(kv, "="); strings.Contains(exec.calls[0], value) {
					t.Errorf("argv %q exposes the value of %s", exec.calls[0], kv)
				}
			}
			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q should contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := out.String(); got != tt.wantOut {
				t.Errorf("got output %q, want %q", got, tt.wantOut)
			}
		})
	}
}

func TestRuntimeName(t *testing.T) {
	exec := &mockExecutor{}
	docker := newDockerRuntime(exec)
	if docker.Name() != "docker" {
		t.Errorf("docker runtime name = %q, want %q", docker.Name(), "docker")
	}
	podman := newPodmanRuntime(exec)
	if podman.Name() != "podman" {
		t.Errorf("podman runtime name = %q, want %q", podman.Name(), "podman")
	}
}
