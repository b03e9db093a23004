// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/convert-to-markdown/internal/runner"
	"github.com/pdiddy/convert-to-markdown/pkg/types"
)

// systemExec simulates a machine with the given binaries installed. The
// Python module imports only when pythonModule is true; docker is operational
// and holds the markitdown image only when dockerImage is true.
func systemExec(onPath map[string]bool, pythonModule, dockerImage bool) *fakeExec {
	return &fakeExec{
		onPath: onPath,
		run: func(cmd runner.Command) error {
			key := cmd.String()
			switch {
			case cmd.Name == "python3":
				if pythonModule {
					return nil
				}
				return errors.New("exit status 1")
			case key == "docker info":
				return nil
			case strings.HasPrefix(key, "docker image inspect"):
				if dockerImage {
					return nil
				}
				return errors.New("exit status 1")
			}
			return errors.New("unexpected command: " + key)
		},
	}
}

func TestLoaderLoad_Auto(t *testing.T) {
	tests := []struct {
		name     string
		exec     *fakeExec
		wantName string
		wantErr  bool
	}{
		{
			name:     "python module preferred",
			exec:     systemExec(map[string]bool{"python3": true, "markitdown": true}, true, false),
			wantName: "python",
		},
		{
			name:     "console script when module not importable",
			exec:     systemExec(map[string]bool{"python3": true, "markitdown": true}, false, false),
			wantName: "markitdown",
		},
		{
			name:     "container as last resort",
			exec:     systemExec(map[string]bool{"docker": true}, false, true),
			wantName: "container",
		},
		{
			name:    "nothing installed",
			exec:    systemExec(map[string]bool{"docker": true}, false, false),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Loader{Config: types.Config{}.WithDefaults(), Exec: tt.exec}
			c, err := l.Load(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMissingDependency)
				assert.Contains(t, err.Error(), "python:")
				assert.Contains(t, err.Error(), "markitdown:")
				assert.Contains(t, err.Error(), "container:")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, c.Name())
		})
	}
}

func TestLoaderLoad_Explicit(t *testing.T) {
	ex := systemExec(map[string]bool{"python3": true, "markitdown": true}, true, false)

	l := Loader{Config: types.Config{Backend: types.BackendMarkitdown}, Exec: ex}
	c, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "markitdown", c.Name())

	l.Config.Backend = types.BackendContainer
	_, err = l.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingDependency)
	assert.Contains(t, err.Error(), "no container runtime available")
}

func TestLoaderLoad_UnknownBackend(t *testing.T) {
	l := Loader{Config: types.Config{Backend: "pandoc"}, Exec: &fakeExec{}}
	_, err := l.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingDependency)
	assert.Contains(t, err.Error(), `unknown backend "pandoc"`)
}

func TestLoaderProbeAll(t *testing.T) {
	ex := systemExec(map[string]bool{"markitdown": true}, false, false)
	probes := Loader{Exec: ex}.ProbeAll(context.Background())

	require.Len(t, probes, 3)
	assert.Equal(t, types.BackendPython, probes[0].Backend)
	assert.False(t, probes[0].OK())
	assert.Equal(t, types.BackendMarkitdown, probes[1].Backend)
	assert.True(t, probes[1].OK())
	assert.Equal(t, types.BackendContainer, probes[2].Backend)
	assert.False(t, probes[2].OK())
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		exec     *fakeExec
		backend  types.Backend
		wantName string
		wantOK   bool
	}{
		{
			name:     "auto takes the first backend that loaded",
			exec:     systemExec(map[string]bool{"python3": true, "markitdown": true}, true, false),
			backend:  types.BackendAuto,
			wantName: "python",
			wantOK:   true,
		},
		{
			name:     "auto skips failed probes",
			exec:     systemExec(map[string]bool{"docker": true}, false, true),
			backend:  types.BackendAuto,
			wantName: "container",
			wantOK:   true,
		},
		{
			name:     "explicit backend ignores earlier ones",
			exec:     systemExec(map[string]bool{"python3": true, "markitdown": true}, true, false),
			backend:  types.BackendMarkitdown,
			wantName: "markitdown",
			wantOK:   true,
		},
		{
			name:    "explicit backend that failed",
			exec:    systemExec(map[string]bool{"python3": true}, true, false),
			backend: types.BackendContainer,
		},
		{
			name:    "nothing loaded",
			exec:    systemExec(nil, false, false),
			backend: types.BackendAuto,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Loader{Config: types.Config{Backend: tt.backend}, Exec: tt.exec}
			p, ok := Select(tt.backend, l.ProbeAll(context.Background()))
			require.Equal(t, tt.wantOK, ok)

			c, err := l.Load(context.Background())
			if !tt.wantOK {
				assert.Error(t, err, "Load agrees nothing is usable")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Converter.Name())
			assert.Equal(t, c.Name(), p.Converter.Name(), "Select agrees with Load")
		})
	}
}

func TestOptionsFrom(t *testing.T) {
	cfg := types.Config{Markitdown: types.MarkitdownConfig{KeepDataURIs: true, UsePlugins: true, DocIntelEndpoint: "https://di"}}
	opts := OptionsFrom(cfg, []string{"A=1"})
	assert.Equal(t, Options{KeepDataURIs: true, UsePlugins: true, DocIntelEndpoint: "https://di", Env: []string{"A=1"}}, opts)
}
