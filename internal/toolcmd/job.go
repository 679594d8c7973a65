// Package toolcmd assembles command-line argument lists for the external
// tools. Each tool has its own argument grammar implemented as a standalone
// builder; [Build] dispatches on the job's tool kind. Builders are pure:
// identical jobs always produce identical argument slices and nothing is
// touched on disk.
package toolcmd

import (
	"fmt"

	"github.com/lxmworks/imgbatch/internal/tools"
)

// Options carries the semantic conversion parameters of a job as an option
// name to value mapping. Builders read the keys they understand and fall
// back to documented defaults for absent ones.
type Options map[string]string

// Option keys understood by the builders.
const (
	OptCompressed = "compressed" // dng: "true" for lossless-compressed DNG.
	OptDataRate   = "datarate"   // prores: proxy422|lt422|s422|hq422|s4444.
	OptQuality    = "quality"    // prores: qscale value, 0 best.
	OptColorTag   = "colortag"   // prores: srgb|bt709|none.
	OptOverwrite  = "overwrite"  // prores: "true" passes -y instead of -n.
	OptVerbose    = "verbose"    // prores: "true" keeps loglevel info.
	OptPreset     = "preset"     // exr: conversion preset name.
	OptColorspace = "colorspace" // exr: colorspace label stored on the file.
	OptExposure   = "exposure"   // exr: exposure shift in stops.
)

// Job describes one conversion: a resolved tool, a source file, a
// destination path, and the tool options. Jobs are built once per discovered
// input file and consumed once by the process runner.
type Job struct {
	Tool    tools.Tool
	Source  string
	Dest    string
	Options Options
	// Extra is appended verbatim before the output path (ffmpeg passthrough).
	Extra []string
}

// Opt returns the value for key, or def when the key is absent or empty.
func (j Job) Opt(key, def string) string {
	if v := j.Options[key]; v != "" {
		return v
	}
	return def
}

// OptBool reports whether the option is set to "true".
func (j Job) OptBool(key string) bool { return j.Options[key] == "true" }

// Build produces the full argument list (argv[0] included) for a job,
// selecting the grammar by the tool kind.
func Build(j Job) ([]string, error) {
	switch j.Tool.Kind {
	case tools.DNGConverter:
		return buildDNG(j), nil
	case tools.FFmpeg:
		return buildProRes(j)
	case tools.Oiiotool:
		return buildEXR(j)
	}
	return nil, fmt.Errorf("no argument grammar for tool %q", j.Tool.Kind)
}
