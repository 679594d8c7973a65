// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation. One batch workflow (subcommand) is active per run; tool
// executables are resolved once during startup from explicit overrides or
// environment variables, never looked up mid-batch.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lxmworks/imgbatch/internal/toolcmd"
	"github.com/lxmworks/imgbatch/internal/tools"
)

// Command selects the active workflow.
type Command string

const (
	CommandDNG    Command = "dng"    // Camera raw to DNG via Adobe DNG Converter.
	CommandEXR    Command = "exr"    // Raw/DNG debayer to OpenEXR via oiiotool.
	CommandProRes Command = "prores" // Video to Apple ProRes via ffmpeg.
	CommandMosaic Command = "mosaic" // Native grid compositor.
	CommandCheck  Command = "check"  // Tool diagnostics.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// ColorTagMode selects the color metadata tags written on the ProRes output.
// The tags describe the encoding for players; pixel data is unchanged.
type ColorTagMode string

const (
	ColorTagSRGB  ColorTagMode = "srgb"  // sRGB transfer (default, matches viewing intent).
	ColorTagBT709 ColorTagMode = "bt709" // BT.709 transfer.
	ColorTagNone  ColorTagMode = "none"  // No color tags.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it.
type Config struct {
	Command Command

	// Paths (set from positional args).
	InputDir  string
	OutputDir string

	// Mosaic positionals: one output file, one or more input files/dirs.
	MosaicOutput string
	MosaicInputs []string

	// Tool executable overrides. When empty the corresponding environment
	// variable (FFMPEG, OIIOTOOL, EXIFTOOL, ADOBEDNGTOOL) is consulted.
	FFmpegPath       string
	OiiotoolPath     string
	ExiftoolPath     string
	DNGConverterPath string

	// Batch behavior.
	Jobs         int      // Worker count. Default: NumCPU for dng/exr, 1 for prores.
	DryRun       bool     // Preview only; no subprocesses spawned.
	SkipExisting bool     // Default: true. Cleared by --force.
	Recursive    bool     // Default: true for dng/exr/prores; mosaic dirs are shallow.
	Extensions   []string // Lowercase, with leading dot. Per-command defaults.

	// DNG conversion.
	DNGCompressed bool // Default: false (uncompressed, required for Nuke).

	// EXR conversion.
	EXRPreset     string  // Default: "normal".
	EXRColorspace string  // Default: "native" (camera native, no conversion).
	ExposureShift float64 // Stops. Default: 2.6.
	EXRName       string  // Destination name template with {tokens}.

	// ProRes conversion.
	ProResDataRate string       // Default: "s422".
	ProResQuality  int          // qscale, 0 best. Default: 10.
	ColorTag       ColorTagMode // Default: "srgb".
	ExtraArgs      []string     // Extra ffmpeg args inserted before the output path.
	ProResName     string       // Destination name template with {tokens}.

	// Mosaic composition.
	MosaicColumns   int     // Default: 6.
	MosaicRows      int     // 0 = derived from input count.
	MosaicGap       int     // Pixels between tiles. Default: 15.
	MosaicScale     float64 // Tile scale in percent. Default: 25.
	Desqueeze       float64 // Anamorphic horizontal stretch. Default: 1.0.
	MosaicLabels    bool    // Default: true. Filename stem on each tile.
	MosaicLabelDate bool    // Append EXIF capture date to labels.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
}

// DefaultConfig returns a Config with workflow-independent defaults.
// Command-specific defaults (extensions, worker count) are applied by
// [ParseFlags] once the subcommand is known.
func DefaultConfig() Config {
	return Config{
		SkipExisting:   true,
		Recursive:      true,
		EXRPreset:      "normal",
		EXRColorspace:  "native",
		ExposureShift:  2.6,
		EXRName:        "{input_filestem}.{preset}.{colorspace}.exr",
		ProResDataRate: "s422",
		ProResQuality:  10,
		ColorTag:       ColorTagSRGB,
		ProResName:     "{input_filestem}.{datarate}.q{quality}.mov",
		MosaicColumns:  6,
		MosaicGap:      15,
		MosaicScale:    25.0,
		Desqueeze:      1.0,
		MosaicLabels:   true,
		ColorMode:      ColorAuto,
	}
}

// commandDefaults applies per-workflow defaults that depend on the chosen
// subcommand. Called by ParseFlags before flag registration so the defaults
// show up in --help and can still be overridden.
func commandDefaults(cfg *Config) {
	switch cfg.Command {
	case CommandDNG:
		cfg.Extensions = []string{".rw2", ".cr2", ".cr3", ".nef", ".arw", ".raf", ".orf"}
		cfg.Jobs = runtime.NumCPU()
	case CommandEXR:
		cfg.Extensions = []string{".dng"}
		cfg.Jobs = runtime.NumCPU()
	case CommandProRes:
		cfg.Extensions = []string{".mov", ".mp4"}
		// ffmpeg saturates cores on its own; one encode at a time.
		cfg.Jobs = 1
	case CommandMosaic:
		cfg.Extensions = []string{".jpg"}
		cfg.Recursive = false
	}
}

// ParseCommand maps the first CLI argument to a Command.
func ParseCommand(s string) (Command, error) {
	switch Command(s) {
	case CommandDNG, CommandEXR, CommandProRes, CommandMosaic, CommandCheck:
		return Command(s), nil
	}
	return "", fmt.Errorf("unknown command %q (use dng, exr, prores, mosaic or check)", s)
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// NormalizeExtensions lowercases a comma-separated extension list and
// guarantees a leading dot on each entry. Empty entries are dropped.
func NormalizeExtensions(raw string) []string {
	var exts []string
	for _, e := range strings.Split(raw, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	return exts
}

// Validate checks enum fields and command-specific numeric ranges, and
// requires the positional paths for the active workflow.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.Jobs < 1 && c.Command != CommandMosaic && c.Command != CommandCheck {
		return errors.New("--jobs must be at least 1")
	}

	switch c.Command {
	case CommandCheck:
		return nil

	case CommandDNG:
		return c.validateBatchPaths()

	case CommandEXR:
		if _, err := toolcmd.ParsePreset(c.EXRPreset); err != nil {
			return err
		}
		if c.EXRName == "" {
			return errors.New("--name template must not be empty")
		}
		return c.validateBatchPaths()

	case CommandProRes:
		if _, err := toolcmd.ParseDataRate(c.ProResDataRate); err != nil {
			return err
		}
		if c.ProResQuality < 0 || c.ProResQuality > 31 {
			return fmt.Errorf("--quality must be in 0..31 (got %d)", c.ProResQuality)
		}
		switch c.ColorTag {
		case ColorTagSRGB, ColorTagBT709, ColorTagNone:
		default:
			return errors.New("invalid color tag (use 'srgb', 'bt709' or 'none')")
		}
		if c.ProResName == "" {
			return errors.New("--name template must not be empty")
		}
		return c.validateBatchPaths()

	case CommandMosaic:
		if c.MosaicOutput == "" || len(c.MosaicInputs) == 0 {
			return errors.New("need output_file and at least one input path")
		}
		if c.MosaicColumns < 1 {
			return errors.New("--columns must be at least 1")
		}
		if c.MosaicRows < 0 {
			return errors.New("--rows must not be negative")
		}
		if c.MosaicGap < 0 {
			return errors.New("--gap must not be negative")
		}
		if c.MosaicScale <= 0 || c.MosaicScale > 100 {
			return fmt.Errorf("--resize must be in (0, 100] percent (got %g)", c.MosaicScale)
		}
		if c.Desqueeze <= 0 {
			return errors.New("--desqueeze must be positive")
		}
		return nil
	}

	return fmt.Errorf("unknown command %q", c.Command)
}

func (c *Config) validateBatchPaths() error {
	if c.InputDir == "" || c.OutputDir == "" {
		return errors.New("need exactly input_dir and output_dir")
	}
	if len(c.Extensions) == 0 {
		return errors.New("--ext must list at least one extension")
	}
	return nil
}

// ValidatePaths ensures the resolved output directory is not inside (or equal
// to) the resolved input directory, which would make discovery pick up its
// own output on a re-run. Both arguments must be absolute, symlink-resolved
// paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory must not be inside input directory")
	}
	return nil
}

// RequiredTools lists the external tools the active workflow cannot run
// without. Resolution failure for any of these aborts before the first job.
func (c *Config) RequiredTools() []tools.Kind {
	switch c.Command {
	case CommandDNG:
		return []tools.Kind{tools.DNGConverter}
	case CommandEXR:
		return []tools.Kind{tools.Oiiotool}
	case CommandProRes:
		return []tools.Kind{tools.FFmpeg}
	}
	return nil
}

// ToolOverride returns the CLI override path for a tool kind, empty when the
// environment variable should be used.
func (c *Config) ToolOverride(k tools.Kind) string {
	switch k {
	case tools.FFmpeg:
		return c.FFmpegPath
	case tools.Oiiotool:
		return c.OiiotoolPath
	case tools.Exiftool:
		return c.ExiftoolPath
	case tools.DNGConverter:
		return c.DNGConverterPath
	}
	return ""
}
