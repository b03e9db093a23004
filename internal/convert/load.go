// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/convert-to-markdown/internal/container"
	"github.com/pdiddy/convert-to-markdown/internal/runner"
	"github.com/pdiddy/convert-to-markdown/pkg/types"
)

// Probe is the outcome of trying to load one backend.
type Probe struct {
	Backend   types.Backend
	Converter Converter
	Err       error
}

// OK reports whether the backend loaded.
func (p Probe) OK() bool { return p.Err == nil }

// Loader builds converters from configuration. Exec is the process executor
// shared by every backend.
type Loader struct {
	Config types.Config
	Exec   runner.Executor
	Opts   Options
}

// Load returns the converter for l.Config.Backend. With auto, backends are
// tried in types.Backends order and the first that loads wins. When none
// loads the error wraps ErrMissingDependency and lists every probe failure.
func (l Loader) Load(ctx context.Context) (Converter, error) {
	backend := l.Config.Backend
	if backend == "" {
		backend = types.BackendAuto
	}
	if !backend.Valid() {
		return nil, fmt.Errorf("%w: unknown backend %q", ErrMissingDependency, backend)
	}

	if backend != types.BackendAuto {
		p := l.Probe(ctx, backend)
		if !p.OK() {
			return nil, fmt.Errorf("%w: %w", ErrMissingDependency, p.Err)
		}
		return p.Converter, nil
	}

	var failures []string
	for _, b := range types.Backends {
		p := l.Probe(ctx, b)
		if p.OK() {
			return p.Converter, nil
		}
		failures = append(failures, fmt.Sprintf("%s: %v", b, p.Err))
	}
	return nil, fmt.Errorf("%w (%s)", ErrMissingDependency, strings.Join(failures, "; "))
}

// Select picks the converter Load would return from probes already taken
// with ProbeAll: the configured backend, or with auto the first that loaded.
func Select(backend types.Backend, probes []Probe) (Probe, bool) {
	for _, p := range probes {
		if !p.OK() {
			continue
		}
		if backend == "" || backend == types.BackendAuto || p.Backend == backend {
			return p, true
		}
	}
	return Probe{}, false
}

// ProbeAll tries every concrete backend and reports each result.
func (l Loader) ProbeAll(ctx context.Context) []Probe {
	probes := make([]Probe, 0, len(types.Backends))
	for _, b := range types.Backends {
		probes = append(probes, l.Probe(ctx, b))
	}
	return probes
}

// Probe tries to load a single concrete backend.
func (l Loader) Probe(ctx context.Context, b types.Backend) Probe {
	cfg := l.Config.WithDefaults()
	p := Probe{Backend: b}

	switch b {
	case types.BackendPython:
		c, err := NewPythonConverter(ctx, l.Exec, cfg.Python.Bin, l.Opts)
		if err != nil {
			p.Err = err
			return p
		}
		p.Converter = c
	case types.BackendMarkitdown:
		c, err := NewCLIConverter(l.Exec, cfg.Markitdown.Bin, l.Opts)
		if err != nil {
			p.Err = err
			return p
		}
		p.Converter = c
	case types.BackendContainer:
		rt, err := container.Detect(ctx, l.Exec)
		if err != nil {
			p.Err = err
			return p
		}
		c, err := NewContainerConverter(ctx, rt, cfg.Container.Image, l.Opts)
		if err != nil {
			p.Err = err
			return p
		}
		p.Converter = c
	default:
		p.Err = errors.New("not a concrete backend")
	}
	return p
}

// OptionsFrom builds backend options from configuration and the secret-derived
// environment.
func OptionsFrom(cfg types.Config, env []string) Options {
	return Options{
		KeepDataURIs:     cfg.Markitdown.KeepDataURIs,
		UsePlugins:       cfg.Markitdown.UsePlugins,
		DocIntelEndpoint: cfg.Markitdown.DocIntelEndpoint,
		Env:              env,
	}
}
