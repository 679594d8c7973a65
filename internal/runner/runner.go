// Package runner executes fully-formed tool invocations as child processes
// and captures their outcome.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"
)

// Result holds the outcome of a single tool invocation.
type Result struct {
	Args     []string
	Stdout   string
	Stderr   string
	ExitCode int // 0 on success, -1 when the process did not run or was killed.
	Elapsed  time.Duration
	Err      error
}

// Success reports whether the process ran and exited zero.
func (r *Result) Success() bool { return r.Err == nil }

// Options controls stream handling for one invocation.
type Options struct {
	// Echo tees the child's stderr to our stderr in real time (verbose
	// mode); output is captured either way.
	Echo bool
	// Dir is the child's working directory (empty = inherit).
	Dir string
}

// Run launches argv as a child process, blocks until it exits, and returns
// the captured outcome. Cancelling ctx kills the child. A non-zero exit is
// reported through Result, never retried here.
func Run(ctx context.Context, argv []string, opts Options) Result {
	start := time.Now()
	if len(argv) == 0 {
		return Result{ExitCode: -1, Err: errors.New("empty argument list")}
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = opts.Dir
	// After cancellation, don't wait on grandchildren holding the output
	// pipes open; abandon the copy and return.
	cmd.WaitDelay = 3 * time.Second

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	if opts.Echo {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()

	res := Result{
		Args:    argv,
		Stdout:  stdoutBuf.String(),
		Stderr:  stderrBuf.String(),
		Elapsed: time.Since(start),
		Err:     err,
	}

	switch {
	case err == nil:
		res.ExitCode = 0
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
		}
	}
	return res
}
