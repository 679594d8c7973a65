package runner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func script(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts")
	}
	path := filepath.Join(t.TempDir(), "tool.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunSuccess(t *testing.T) {
	path := script(t, "echo out\necho err >&2\nexit 0\n")

	res := Run(context.Background(), []string{path}, Options{})
	if !res.Success() {
		t.Fatalf("Run failed: %v", res.Err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d", res.ExitCode)
	}
	if strings.TrimSpace(res.Stdout) != "out" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if strings.TrimSpace(res.Stderr) != "err" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
	if res.Elapsed <= 0 {
		t.Error("Elapsed not measured")
	}
}

func TestRunNonZeroExit(t *testing.T) {
	path := script(t, "echo broken >&2\nexit 3\n")

	res := Run(context.Background(), []string{path}, Options{})
	if res.Success() {
		t.Fatal("exit 3 should not be success")
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if !strings.Contains(res.Stderr, "broken") {
		t.Errorf("Stderr = %q", res.Stderr)
	}
}

func TestRunMissingExecutable(t *testing.T) {
	res := Run(context.Background(), []string{"/no/such/tool"}, Options{})
	if res.Success() {
		t.Fatal("missing executable should fail")
	}
	if res.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", res.ExitCode)
	}
}

func TestRunEmptyArgs(t *testing.T) {
	res := Run(context.Background(), nil, Options{})
	if res.Success() || res.ExitCode != -1 {
		t.Errorf("empty argv: success=%v exit=%d", res.Success(), res.ExitCode)
	}
}

func TestRunCancelKills(t *testing.T) {
	path := script(t, "sleep 10\n")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	res := Run(ctx, []string{path}, Options{})
	if res.Success() {
		t.Fatal("cancelled run should fail")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("cancel did not kill the child promptly")
	}
}

func TestRunWorkingDir(t *testing.T) {
	dir := t.TempDir()
	path := script(t, "pwd\n")

	res := Run(context.Background(), []string{path}, Options{Dir: dir})
	if !res.Success() {
		t.Fatalf("Run failed: %v", res.Err)
	}
	got := strings.TrimSpace(res.Stdout)
	want, _ := filepath.EvalSymlinks(dir)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != want {
		t.Errorf("pwd = %q, want %q", got, want)
	}
}
