// Package tools resolves the external executables the workflows shell out
// to. Each tool is configured through a dedicated environment variable or an
// explicit CLI override; resolution happens once during startup and the
// resulting Toolset is read-only afterwards, safe to share across workers.
package tools

import (
	"errors"
	"fmt"
	"os"
)

// Kind identifies an external tool.
type Kind string

const (
	FFmpeg       Kind = "ffmpeg"
	Oiiotool     Kind = "oiiotool"
	Exiftool     Kind = "exiftool"
	DNGConverter Kind = "dngconverter"
)

// Sentinel errors for the two resolution failure modes. Both are fatal for
// required tools; there is no retry or PATH fallback.
var (
	ErrNotConfigured = errors.New("tool not configured")
	ErrNotFound      = errors.New("tool executable not found")
)

// envVars maps each tool to the environment variable holding its absolute
// executable path.
var envVars = map[Kind]string{
	FFmpeg:       "FFMPEG",
	Oiiotool:     "OIIOTOOL",
	Exiftool:     "EXIFTOOL",
	DNGConverter: "ADOBEDNGTOOL",
}

// EnvVar returns the environment variable consulted for this tool.
func (k Kind) EnvVar() string { return envVars[k] }

// Tool is a resolved external executable.
type Tool struct {
	Kind Kind
	Path string
}

// Resolve locates the executable for kind. An explicit override wins over
// the environment variable. Returns ErrNotConfigured when neither is set and
// ErrNotFound when the configured path is missing, a directory, or not
// executable.
func Resolve(kind Kind, override string) (Tool, error) {
	path := override
	if path == "" {
		path = os.Getenv(envVars[kind])
	}
	if path == "" {
		return Tool{}, fmt.Errorf("%s: %w (set %s or pass an explicit path)",
			kind, ErrNotConfigured, envVars[kind])
	}

	fi, err := os.Stat(path)
	if err != nil {
		return Tool{}, fmt.Errorf("%s: %w: %s", kind, ErrNotFound, path)
	}
	if fi.IsDir() || fi.Mode()&0o111 == 0 {
		return Tool{}, fmt.Errorf("%s: %w: %s is not an executable file", kind, ErrNotFound, path)
	}
	return Tool{Kind: kind, Path: path}, nil
}

// Toolset holds the tools resolved for one run.
type Toolset struct {
	byKind map[Kind]Tool
}

// NewToolset resolves each requested kind, using overrides[kind] when
// non-empty. It fails on the first unresolvable tool.
func NewToolset(overrides map[Kind]string, kinds ...Kind) (*Toolset, error) {
	ts := &Toolset{byKind: make(map[Kind]Tool, len(kinds))}
	for _, k := range kinds {
		t, err := Resolve(k, overrides[k])
		if err != nil {
			return nil, err
		}
		ts.byKind[k] = t
	}
	return ts, nil
}

// Get returns the resolved tool for kind and whether it is part of the set.
func (ts *Toolset) Get(kind Kind) (Tool, bool) {
	t, ok := ts.byKind[kind]
	return t, ok
}
