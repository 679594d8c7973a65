package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lxmworks/imgbatch/internal/config"
	"github.com/lxmworks/imgbatch/internal/display"
	"github.com/lxmworks/imgbatch/internal/exifmeta"
	"github.com/lxmworks/imgbatch/internal/logging"
	"github.com/lxmworks/imgbatch/internal/runner"
	"github.com/lxmworks/imgbatch/internal/toolcmd"
	"github.com/lxmworks/imgbatch/internal/tools"
)

// stderrTailLines bounds how much failing tool output is relayed.
const stderrTailLines = 20

// Driver runs a planned batch. Cfg and Log are shared read-only/thread-safe
// across workers; Exiftool, when set, enables per-file metadata logging for
// raw sources (verbose mode only).
type Driver struct {
	Cfg      *config.Config
	Log      *logging.Logger
	Exiftool *tools.Tool
}

type status int

const (
	statusDone status = iota
	statusSkipped
	statusFailed
)

type outcome struct {
	status   status
	inBytes  int64
	outBytes int64
}

// Run dispatches jobs to a pool of Cfg.Jobs workers and aggregates their
// outcomes. Cancelling ctx stops feeding new jobs and kills running
// subprocesses; jobs never dispatched are left uncounted. Per-job failures
// are recorded and the batch continues.
func (d *Driver) Run(ctx context.Context, jobs []toolcmd.Job) Stats {
	stats := Stats{Total: len(jobs)}
	if len(jobs) == 0 {
		return stats
	}

	workers := d.Cfg.Jobs
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	type indexed struct {
		idx int
		job toolcmd.Job
	}
	jobCh := make(chan indexed)

	var wg sync.WaitGroup
	var mu sync.Mutex

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for it := range jobCh {
				oc := d.runJob(ctx, it.idx, stats.Total, it.job)

				mu.Lock()
				switch oc.status {
				case statusDone:
					stats.Done++
					stats.TotalInputBytes += oc.inBytes
					stats.TotalOutputBytes += oc.outBytes
				case statusSkipped:
					stats.Skipped++
				case statusFailed:
					stats.Failed++
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for i, j := range jobs {
		select {
		case <-ctx.Done():
			break feed
		case jobCh <- indexed{idx: i, job: j}:
		}
	}
	close(jobCh)
	wg.Wait()

	if ctx.Err() != nil {
		d.Log.Warn("Interrupted")
	}
	d.logSummary(&stats)
	return stats
}

// runJob handles one file: validate input, honor skip-existing, build the
// command, execute, and verify the output landed.
func (d *Driver) runJob(ctx context.Context, idx, total int, job toolcmd.Job) outcome {
	base := filepath.Base(job.Source)
	d.Log.Info("[%d/%d] %s", idx+1, total, base)

	srcInfo, err := os.Stat(job.Source)
	if err != nil {
		d.Log.Error("Input missing: %s", job.Source)
		return outcome{status: statusFailed}
	}

	_, destErr := os.Stat(job.Dest)
	destExisted := destErr == nil
	if destExisted && d.Cfg.SkipExisting {
		d.Log.Warn("Skip (exists): %s", filepath.Base(job.Dest))
		return outcome{status: statusSkipped}
	}

	args, err := toolcmd.Build(job)
	if err != nil {
		d.Log.Error("Cannot build %s command for %s: %v", job.Tool.Kind, base, err)
		return outcome{status: statusFailed}
	}

	d.logFileMeta(ctx, job)

	if d.Cfg.DryRun {
		d.Log.Success("[DRY] Would run: %s", strings.Join(args, " "))
		return outcome{status: statusDone}
	}

	if err := os.MkdirAll(filepath.Dir(job.Dest), 0o755); err != nil {
		d.Log.Error("Cannot create output directory: %v", err)
		return outcome{status: statusFailed}
	}

	d.Log.Debug(d.Cfg.Verbose, "exec: %s", strings.Join(args, " "))
	res := runner.Run(ctx, args, runner.Options{Echo: d.Cfg.Verbose})

	if !res.Success() {
		if ctx.Err() != nil {
			d.Log.Warn("Interrupted: %s", base)
		} else {
			d.Log.Error("%s failed (exit %d): %s", job.Tool.Kind, res.ExitCode, base)
			d.logStderrTail(res.Stderr)
		}
		// Drop whatever partial output the tool left behind, but never a
		// destination that predates the job (e.g. one ffmpeg's -n refused
		// to overwrite).
		if !destExisted {
			os.Remove(job.Dest)
		}
		return outcome{status: statusFailed}
	}

	destInfo, err := os.Stat(job.Dest)
	if err != nil {
		d.Log.Error("Tool exited 0 but produced no output: %s", job.Dest)
		return outcome{status: statusFailed}
	}

	d.Log.Success("Converted in %s (%s -> %s)",
		display.FormatDuration(res.Elapsed),
		display.FormatBytes(srcInfo.Size()),
		display.FormatBytes(destInfo.Size()))

	return outcome{status: statusDone, inBytes: srcInfo.Size(), outBytes: destInfo.Size()}
}

// logFileMeta logs camera metadata for the source file via one exiftool
// JSON call. Verbose mode only; metadata problems never fail the job.
func (d *Driver) logFileMeta(ctx context.Context, job toolcmd.Job) {
	if d.Exiftool == nil || !d.Cfg.Verbose {
		return
	}
	md, err := exifmeta.Read(ctx, d.Exiftool.Path, job.Source)
	if err != nil {
		d.Log.Debug(true, "  metadata read failed: %v", err)
		return
	}
	model, _ := md.Get("EXIF", "Model")
	iso, _ := md.Get("EXIF", "ISO")
	exposure, _ := md.Get("EXIF", "ExposureTime")
	if model != "" || iso != "" {
		d.Log.Debug(true, "  %s | ISO %s | %ss", model, iso, exposure)
	}
}

// logStderrTail relays the last lines of failing tool output.
func (d *Driver) logStderrTail(stderr string) {
	if stderr == "" {
		return
	}
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	start := 0
	if len(lines) > stderrTailLines {
		start = len(lines) - stderrTailLines
	}
	d.Log.Tool("Last tool output:")
	for _, l := range lines[start:] {
		d.Log.Tool("  %s", l)
	}
}

func (d *Driver) logSummary(s *Stats) {
	d.Log.Info("==============================")
	d.Log.Info("Done: %d converted, %d skipped, %d failed", s.Done, s.Skipped, s.Failed)
	if d.Cfg.DryRun {
		d.Log.Info("  Bytes: n/a (dry run)")
		return
	}
	if s.Done > 0 {
		d.Log.Info("  Bytes: input %s -> output %s (%s)",
			display.FormatBytes(s.TotalInputBytes),
			display.FormatBytes(s.TotalOutputBytes),
			display.FormatBytesWithSign(s.ByteDelta()))
	}
}
