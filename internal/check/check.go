// Package check implements the environment diagnostic that reports, for each
// external tool, whether it is configured, present, and executable.
package check

import (
	"context"
	"strings"
	"time"

	"github.com/lxmworks/imgbatch/internal/config"
	"github.com/lxmworks/imgbatch/internal/runner"
	"github.com/lxmworks/imgbatch/internal/tools"
)

// Logger is the subset of the application logger the check needs.
type Logger interface {
	Info(format string, args ...interface{})
	Success(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// allKinds is the report order.
var allKinds = []tools.Kind{
	tools.FFmpeg,
	tools.Oiiotool,
	tools.Exiftool,
	tools.DNGConverter,
}

// RunCheck resolves every known tool and reports its status. Returns false
// if any tool failed to resolve. A missing tool is reported, not fatal:
// the user may only need a subset of the workflows.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("Checking external tools")

	ok := true
	for _, kind := range allKinds {
		t, err := tools.Resolve(kind, cfg.ToolOverride(kind))
		if err != nil {
			ok = false
			log.Error("%-13s %v", kind, err)
			continue
		}

		if version := probeVersion(t); version != "" {
			log.Success("%-13s %s (%s)", kind, t.Path, version)
		} else {
			log.Success("%-13s %s", kind, t.Path)
		}
	}

	if ok {
		log.Info("All tools resolved")
	} else {
		log.Warn("Some tools are unavailable; the matching workflows will fail")
	}
	return ok
}

// probeVersion asks the tool for its version string. The DNG converter is a
// GUI binary with no version flag, so it is stat-checked only.
func probeVersion(t tools.Tool) string {
	var args []string
	switch t.Kind {
	case tools.FFmpeg:
		args = []string{t.Path, "-version"}
	case tools.Oiiotool:
		args = []string{t.Path, "--version"}
	case tools.Exiftool:
		args = []string{t.Path, "-ver"}
	default:
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res := runner.Run(ctx, args, runner.Options{})
	if !res.Success() {
		return ""
	}
	line := res.Stdout
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
