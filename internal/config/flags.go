package config

// This file implements CLI flag parsing and help text. The first positional
// argument selects the subcommand; each subcommand owns a flag.FlagSet.
// Negated flags (e.g. --force clearing SkipExisting) are applied after Parse
// so Config defaults hold unless set.

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lxmworks/imgbatch/internal/toolcmd"
)

// ParseFlags parses argv (os.Args[1:]) into cfg. On --help or --version it
// prints and exits. On error it returns non-nil (unknown command or flag,
// missing positional args).
func ParseFlags(cfg *Config, argv []string, version string) error {
	if len(argv) == 0 {
		printRootUsage(version)
		return fmt.Errorf("missing command")
	}

	switch argv[0] {
	case "-h", "--help", "help":
		printRootUsage(version)
		os.Exit(0)
	case "-V", "--version", "version":
		fmt.Fprintln(os.Stdout, "imgbatch v"+version)
		os.Exit(0)
	}

	cmd, err := ParseCommand(argv[0])
	if err != nil {
		return err
	}
	cfg.Command = cmd
	commandDefaults(cfg)

	fs := flag.NewFlagSet("imgbatch "+string(cmd), flag.ContinueOnError)
	fs.Usage = func() { printCommandUsage(cmd) }

	var negated negatedFlags
	var extRaw, extraRaw string

	defineCommonFlags(fs, cfg, &negated, &extRaw)
	defineToolFlags(fs, cfg)

	switch cmd {
	case CommandDNG:
		fs.BoolVar(&cfg.DNGCompressed, "compressed", false, "Write lossless-compressed DNG (Nuke cannot read these)")
	case CommandEXR:
		fs.StringVar(&cfg.EXRPreset, "preset", cfg.EXRPreset, "Conversion preset: "+strings.Join(toolcmd.PresetNames(), " | "))
		fs.StringVar(&cfg.EXRColorspace, "colorspace", cfg.EXRColorspace, "Colorspace label stored on the EXR")
		fs.Float64Var(&cfg.ExposureShift, "exposure", cfg.ExposureShift, "Exposure shift in stops (0 = none)")
		fs.StringVar(&cfg.EXRName, "name", cfg.EXRName, "Destination name template")
	case CommandProRes:
		fs.StringVar(&cfg.ProResDataRate, "datarate", cfg.ProResDataRate, "ProRes flavor: "+strings.Join(toolcmd.DataRateNames(), " | "))
		fs.IntVar(&cfg.ProResQuality, "quality", cfg.ProResQuality, "qscale value, 0 best (9-13 give good results)")
		fs.IntVar(&cfg.ProResQuality, "q", cfg.ProResQuality, "Same as --quality")
		fs.Var(&colorTagValue{&cfg.ColorTag}, "color-tag", "Output color tags: srgb | bt709 | none")
		fs.StringVar(&extraRaw, "extra", "", "Extra ffmpeg arguments (space separated)")
		fs.StringVar(&cfg.ProResName, "name", cfg.ProResName, "Destination name template")
	case CommandMosaic:
		fs.IntVar(&cfg.MosaicColumns, "columns", cfg.MosaicColumns, "Tiles per row")
		fs.IntVar(&cfg.MosaicRows, "rows", cfg.MosaicRows, "Grid rows (0 = derived from input count)")
		fs.IntVar(&cfg.MosaicGap, "gap", cfg.MosaicGap, "Space between tiles in pixels")
		fs.Float64Var(&cfg.MosaicScale, "resize", cfg.MosaicScale, "Tile scale factor in percent (<= 100)")
		fs.Float64Var(&cfg.Desqueeze, "desqueeze", cfg.Desqueeze, "Anamorphic horizontal stretch factor")
		fs.BoolVar(&negated.noLabels, "no-labels", false, "Do not draw filename labels on tiles")
		fs.BoolVar(&cfg.MosaicLabelDate, "label-date", false, "Append EXIF capture date to labels")
	}

	if err := fs.Parse(argv[1:]); err != nil {
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if extRaw != "" {
		cfg.Extensions = NormalizeExtensions(extRaw)
	}
	if extraRaw != "" {
		cfg.ExtraArgs = strings.Fields(extraRaw)
	}

	return parsePositionalArgs(fs, cfg)
}

// negatedFlags holds boolean flags that are applied after Parse, inverting a
// default (force -> SkipExisting=false) or adjusting color mode.
type negatedFlags struct {
	force      bool
	noRecurse  bool
	noLabels   bool
	forceColor bool
	noColor    bool
}

// defineCommonFlags registers the flags shared by every subcommand.
func defineCommonFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags, extRaw *string) {
	fs.IntVar(&cfg.Jobs, "jobs", cfg.Jobs, "Parallel conversion jobs")
	fs.IntVar(&cfg.Jobs, "j", cfg.Jobs, "Same as --jobs")
	fs.BoolVar(&n.force, "force", false, "Overwrite existing output files")
	fs.BoolVar(&n.force, "f", false, "Same as --force")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not run any tool")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.BoolVar(&n.noRecurse, "no-recurse", false, "Do not descend into subdirectories")
	fs.StringVar(extRaw, "ext", "", "Comma-separated input extensions (e.g. rw2,cr2)")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output (relay tool stderr)")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineToolFlags registers the executable override flags. All four are
// available everywhere; unused ones are simply ignored by the workflow.
func defineToolFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.FFmpegPath, "ffmpeg", "", "ffmpeg executable (default: $FFMPEG)")
	fs.StringVar(&cfg.OiiotoolPath, "oiiotool", "", "oiiotool executable (default: $OIIOTOOL)")
	fs.StringVar(&cfg.ExiftoolPath, "exiftool", "", "exiftool executable (default: $EXIFTOOL)")
	fs.StringVar(&cfg.DNGConverterPath, "dng-converter", "", "Adobe DNG Converter executable (default: $ADOBEDNGTOOL)")
}

// applyNegatedFlags copies negated flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.force {
		cfg.SkipExisting = false
	}
	if n.noRecurse {
		cfg.Recursive = false
	}
	if n.noLabels {
		cfg.MosaicLabels = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs assigns the remaining arguments per command:
// batch commands take input_dir output_dir, mosaic takes output_file plus
// one or more inputs, check takes none.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	switch cfg.Command {
	case CommandCheck:
		return nil
	case CommandMosaic:
		if len(args) < 2 {
			return fmt.Errorf("need output_file and at least one input path")
		}
		cfg.MosaicOutput = args[0]
		for _, a := range args[1:] {
			cfg.MosaicInputs = append(cfg.MosaicInputs, NormalizeDirArg(a))
		}
		return nil
	default:
		if len(args) != 2 {
			return fmt.Errorf("need exactly input_dir and output_dir")
		}
		cfg.InputDir = NormalizeDirArg(args[0])
		cfg.OutputDir = NormalizeDirArg(args[1])
		return nil
	}
}

// flag.Value adapter for the ColorTagMode enum.

type colorTagValue struct{ p *ColorTagMode }

func (c *colorTagValue) String() string {
	if c.p == nil {
		return ""
	}
	return string(*c.p)
}

func (c *colorTagValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "srgb":
		*c.p = ColorTagSRGB
	case "bt709":
		*c.p = ColorTagBT709
	case "none":
		*c.p = ColorTagNone
	default:
		return fmt.Errorf("invalid color tag %q (use 'srgb', 'bt709' or 'none')", s)
	}
	return nil
}

// usageLine is one row of help output: flag column and description.
type usageLine struct {
	flags string
	desc  string
}

// printRootUsage writes the top-level help to stderr.
func printRootUsage(version string) {
	lines := []usageLine{
		{"", "imgbatch v" + version + " - batch still-image and video conversion driver"},
		{"", ""},
		{"  imgbatch <command> [OPTIONS] <args>", ""},
		{"", ""},
		{"Commands", ""},
		{"  dng <in_dir> <out_dir>", "Camera raw to DNG (Adobe DNG Converter, $ADOBEDNGTOOL)"},
		{"  exr <in_dir> <out_dir>", "Raw/DNG debayer to OpenEXR (oiiotool, $OIIOTOOL)"},
		{"  prores <in_dir> <out_dir>", "Video to Apple ProRes (ffmpeg, $FFMPEG)"},
		{"  mosaic <out_file> <in>...", "Composite images into a labeled grid"},
		{"  check", "Report configured tool availability"},
		{"", ""},
		{"Run 'imgbatch <command> --help' for command options.", ""},
	}
	printAligned(lines)
}

// printCommandUsage writes per-command help to stderr.
func printCommandUsage(cmd Command) {
	common := []usageLine{
		{"", ""},
		{"Common options", ""},
		{"  -j, --jobs <n>", "Parallel conversion jobs"},
		{"  -f, --force", "Overwrite existing output files"},
		{"  -d, --dry-run", "Preview only; do not run any tool"},
		{"  --no-recurse", "Do not descend into subdirectories"},
		{"  --ext <list>", "Comma-separated input extensions"},
		{"  -v, --verbose", "Verbose output (relay tool stderr)"},
		{"  --color / --no-color", "Force / disable colored logs"},
		{"  -l, --log <path>", "Append logs to file"},
	}

	var lines []usageLine
	switch cmd {
	case CommandDNG:
		lines = []usageLine{
			{"", "imgbatch dng - convert camera raw files to DNG"},
			{"", ""},
			{"  imgbatch dng [OPTIONS] <input_dir> <output_dir>", ""},
			{"", ""},
			{"  --compressed", "Write lossless-compressed DNG (Nuke cannot read these)"},
			{"  --dng-converter <path>", "Adobe DNG Converter executable (default: $ADOBEDNGTOOL)"},
		}
	case CommandEXR:
		lines = []usageLine{
			{"", "imgbatch exr - debayer camera raw files to OpenEXR"},
			{"", ""},
			{"  imgbatch exr [OPTIONS] <input_dir> <output_dir>", ""},
			{"", ""},
			{"  --preset <name>", "Conversion preset: " + strings.Join(toolcmd.PresetNames(), " | ")},
			{"  --colorspace <name>", "Colorspace label stored on the EXR"},
			{"  --exposure <stops>", "Exposure shift in stops (default: 2.6)"},
			{"  --name <template>", "Destination template: {input_filestem} {preset} {colorspace}"},
			{"  --oiiotool <path>", "oiiotool executable (default: $OIIOTOOL)"},
			{"  --exiftool <path>", "exiftool executable for metadata logging (default: $EXIFTOOL)"},
		}
	case CommandProRes:
		lines = []usageLine{
			{"", "imgbatch prores - convert video files to Apple ProRes"},
			{"", ""},
			{"  imgbatch prores [OPTIONS] <input_dir> <output_dir>", ""},
			{"", ""},
			{"  --datarate <flavor>", "ProRes flavor: " + strings.Join(toolcmd.DataRateNames(), " | ")},
			{"  -q, --quality <n>", "qscale value, 0 best (default: 10)"},
			{"  --color-tag <mode>", "Output color tags: srgb | bt709 | none"},
			{"  --extra <args>", "Extra ffmpeg arguments (space separated)"},
			{"  --name <template>", "Destination template: {input_filestem} {datarate} {quality}"},
			{"  --ffmpeg <path>", "ffmpeg executable (default: $FFMPEG)"},
		}
	case CommandMosaic:
		lines = []usageLine{
			{"", "imgbatch mosaic - composite images into a labeled grid"},
			{"", ""},
			{"  imgbatch mosaic [OPTIONS] <output_file> <input>...", ""},
			{"", ""},
			{"  --columns <n>", "Tiles per row (default: 6)"},
			{"  --rows <n>", "Grid rows; 0 derives from input count"},
			{"  --gap <px>", "Space between tiles (default: 15)"},
			{"  --resize <pct>", "Tile scale factor in percent (default: 25)"},
			{"  --desqueeze <factor>", "Anamorphic horizontal stretch"},
			{"  --no-labels", "Do not draw filename labels"},
			{"  --label-date", "Append EXIF capture date to labels"},
		}
	case CommandCheck:
		lines = []usageLine{
			{"", "imgbatch check - report configured tool availability"},
			{"", ""},
			{"  imgbatch check [OPTIONS]", ""},
		}
	}

	printAligned(append(lines, common...))
}

// printAligned writes usage rows to stderr with a fixed flag column width.
func printAligned(lines []usageLine) {
	const col1 = 30
	for _, l := range lines {
		switch {
		case l.flags == "" && l.desc == "":
			fmt.Fprintln(os.Stderr)
		case l.desc == "":
			fmt.Fprintln(os.Stderr, l.flags)
		case l.flags == "":
			fmt.Fprintln(os.Stderr, l.desc)
		default:
			padding := col1 - len(l.flags)
			if padding < 1 {
				padding = 1
			}
			fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
		}
	}
}
