// Command imgbatch drives batch still-image and video conversion through
// external tools: camera raw to DNG (Adobe DNG Converter), raw/DNG to OpenEXR
// (oiiotool), video to Apple ProRes (ffmpeg), plus a native mosaic compositor
// and a tool diagnostic.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/lxmworks/imgbatch/internal/batch"
	"github.com/lxmworks/imgbatch/internal/check"
	"github.com/lxmworks/imgbatch/internal/config"
	"github.com/lxmworks/imgbatch/internal/display"
	"github.com/lxmworks/imgbatch/internal/logging"
	"github.com/lxmworks/imgbatch/internal/mosaic"
	"github.com/lxmworks/imgbatch/internal/tools"
)

// version is overridden at build time:
//
//	go build -ldflags "-X main.version=1.2.3" ./cmd/imgbatch
var version = "0.0.0-dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args[1:], version); err != nil {
		fmt.Fprintln(os.Stderr, "imgbatch:", err)
		return 2
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "imgbatch:", err)
		return 2
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "imgbatch:", err)
		return 2
	}
	defer log.Close()

	display.PrintBanner()

	if cfg.Command == config.CommandCheck {
		if check.RunCheck(&cfg, log) {
			return 0
		}
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Signal received, stopping after running jobs")
		cancel()
	}()

	if cfg.Command == config.CommandMosaic {
		return runMosaic(&cfg, log)
	}
	return runBatch(ctx, &cfg, log)
}

// runBatch executes one of the conversion workflows (dng, exr, prores).
func runBatch(ctx context.Context, cfg *config.Config, log *logging.Logger) int {
	overrides := map[tools.Kind]string{
		tools.FFmpeg:       cfg.FFmpegPath,
		tools.Oiiotool:     cfg.OiiotoolPath,
		tools.Exiftool:     cfg.ExiftoolPath,
		tools.DNGConverter: cfg.DNGConverterPath,
	}
	toolset, err := tools.NewToolset(overrides, cfg.RequiredTools()...)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	tool, _ := toolset.Get(cfg.RequiredTools()[0])

	// Exiftool is optional: it only feeds verbose metadata logging.
	var exiftool *tools.Tool
	if cfg.Command == config.CommandEXR && cfg.Verbose {
		if t, err := tools.Resolve(tools.Exiftool, cfg.ExiftoolPath); err == nil {
			exiftool = &t
		} else {
			log.Warn("exiftool unavailable, metadata logging disabled: %v", err)
		}
	}

	inputAbs, err := absResolved(cfg.InputDir)
	if err != nil {
		log.Error("Input directory: %v", err)
		return 1
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Error("Cannot create output directory: %v", err)
		return 1
	}
	outputAbs, err := absResolved(cfg.OutputDir)
	if err != nil {
		log.Error("Output directory: %v", err)
		return 1
	}
	if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
		log.Error("%v", err)
		return 1
	}

	files, err := batch.Discover(inputAbs, cfg.Extensions, cfg.Recursive)
	if err != nil {
		log.Error("Discovery failed: %v", err)
		return 1
	}
	if len(files) == 0 {
		log.Warn("No matching files in %s", cfg.InputDir)
		return 0
	}

	log.Info("%s: %d file(s), %d job(s), tool %s", cfg.Command, len(files), cfg.Jobs, tool.Path)
	if cfg.DryRun {
		log.Warn("Dry run: no files will be written")
	}

	jobs, err := batch.PlanJobs(cfg, tool, files)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	driver := &batch.Driver{Cfg: cfg, Log: log, Exiftool: exiftool}
	stats := driver.Run(ctx, jobs)

	if stats.Failed > 0 {
		return 1
	}
	return 0
}

// runMosaic expands the mosaic inputs, composes the grid, and writes the
// output image.
func runMosaic(cfg *config.Config, log *logging.Logger) int {
	outAbs, err := filepath.Abs(cfg.MosaicOutput)
	if err != nil {
		log.Error("Output path: %v", err)
		return 1
	}

	// Check before decoding anything; composing tiles just to skip the
	// write would waste the whole run.
	if cfg.SkipExisting {
		if _, err := os.Stat(cfg.MosaicOutput); err == nil {
			log.Warn("Skip (exists): %s", cfg.MosaicOutput)
			return 0
		}
	}

	var files []string
	for _, in := range cfg.MosaicInputs {
		fi, err := os.Stat(in)
		if err != nil {
			log.Error("Input: %v", err)
			return 1
		}
		if !fi.IsDir() {
			files = append(files, in)
			continue
		}
		// Directories contribute their matching files, shallow.
		found, err := batch.Discover(in, cfg.Extensions, false)
		if err != nil {
			log.Error("Discovery failed: %v", err)
			return 1
		}
		for _, f := range found {
			if abs, err := filepath.Abs(f); err == nil && abs == outAbs {
				continue
			}
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		log.Warn("No input images")
		return 1
	}

	log.Info("mosaic: %d tile(s), %d column(s)", len(files), cfg.MosaicColumns)
	if cfg.DryRun {
		for _, f := range files {
			log.Info("  %s", f)
		}
		log.Success("[DRY] Would write %s", cfg.MosaicOutput)
		return 0
	}

	img, err := mosaic.ComposeFiles(files, mosaic.Options{
		Columns:   cfg.MosaicColumns,
		Rows:      cfg.MosaicRows,
		Gap:       cfg.MosaicGap,
		Scale:     cfg.MosaicScale,
		Desqueeze: cfg.Desqueeze,
		Label:     cfg.MosaicLabels,
		LabelDate: cfg.MosaicLabelDate,
	})
	if err != nil {
		log.Error("Mosaic failed: %v", err)
		return 1
	}

	if err := mosaic.WriteFile(img, cfg.MosaicOutput); err != nil {
		log.Error("Write failed: %v", err)
		return 1
	}

	b := img.Bounds()
	size := "?"
	if fi, err := os.Stat(cfg.MosaicOutput); err == nil {
		size = display.FormatBytes(fi.Size())
	}
	log.Success("Wrote %s (%dx%d, %s)", cfg.MosaicOutput, b.Dx(), b.Dy(), size)
	return 0
}

// absResolved returns the absolute, symlink-resolved form of path.
func absResolved(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
