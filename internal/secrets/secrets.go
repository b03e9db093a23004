// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials for markitdown's cloud integrations from
// a directory of plain-text files. Each file is one secret: the filename is
// the key and the trimmed contents are the value.
//
// Recognized keys: azure-api-key, openai-api-key, docintel-endpoint.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Key names understood by Env and DocIntelEndpoint.
const (
	KeyAzureAPIKey      = "azure-api-key"
	KeyOpenAIAPIKey     = "openai-api-key"
	KeyDocIntelEndpoint = "docintel-endpoint"
)

// envVars maps secret keys to the environment variables markitdown and its
// SDK dependencies read.
var envVars = map[string]string{
	KeyAzureAPIKey:  "AZURE_API_KEY",
	KeyOpenAIAPIKey: "OPENAI_API_KEY",
}

// Secrets is a loaded set of key/value credentials.
type Secrets map[string]string

// Load reads all files in dir. A missing directory is not an error and yields
// an empty set. Unreadable files produce a warning on warn but do not abort.
func Load(dir string, warn io.Writer) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Secrets)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}

	return s, nil
}

// Keys returns the loaded key names in sorted order, for diagnostics that
// must not print values.
func (s Secrets) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Env returns KEY=VALUE pairs for the secrets that map to environment
// variables, sorted by variable name. Variables already set in the process
// environment are left alone.
func (s Secrets) Env() []string {
	var env []string
	for key, name := range envVars {
		v, ok := s[key]
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(name); set {
			continue
		}
		env = append(env, name+"="+v)
	}
	sort.Strings(env)
	return env
}

// DocIntelEndpoint returns the Document Intelligence endpoint secret, or "".
func (s Secrets) DocIntelEndpoint() string {
	return s[KeyDocIntelEndpoint]
}
