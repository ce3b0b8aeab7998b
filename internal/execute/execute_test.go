package execute

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDryCommandSpawnsNothing(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "marker")

	cmd := NewRunType(true).Command("sh", "-c", "touch "+marker)
	if err := cmd.CheckRun(); err != nil {
		t.Fatalf("dry CheckRun: %v", err)
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Fatal("dry run must not execute the command")
	}

	out, err := NewRunType(true).Command("sh", "-c", "touch "+marker).CheckOutput()
	if err != nil {
		t.Fatalf("dry CheckOutput: %v", err)
	}
	if out != "" {
		t.Fatalf("dry CheckOutput must return empty output, got %q", out)
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Fatal("dry run must not execute the command")
	}
}

func TestCheckOutputCapturesStdout(t *testing.T) {
	out, err := Wet.Command("sh", "-c", "echo hello; echo noise 1>&2").CheckOutput()
	if err != nil {
		t.Fatalf("CheckOutput: %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestCheckOutputFailureCarriesStderr(t *testing.T) {
	_, err := Wet.Command("sh", "-c", "echo bad news 1>&2; exit 3").CheckOutput()
	if err == nil {
		t.Fatal("expected an error for non-zero exit")
	}

	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("expected a ProcessError, got %T: %v", err, err)
	}
	if procErr.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", procErr.ExitCode)
	}
	if !strings.Contains(procErr.Stderr, "bad news") {
		t.Fatalf("stderr not captured: %q", procErr.Stderr)
	}
}

func TestCheckRunReportsExitCode(t *testing.T) {
	err := Wet.Command("sh", "-c", "exit 7").CheckRun()
	if err == nil {
		t.Fatal("expected an error for non-zero exit")
	}
	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("expected a ProcessError, got %T: %v", err, err)
	}
	if procErr.ExitCode != 7 {
		t.Fatalf("expected exit code 7, got %d", procErr.ExitCode)
	}
}

func TestCommandDir(t *testing.T) {
	dir := t.TempDir()
	out, err := Wet.Command("pwd").Dir(dir).CheckOutput()
	if err != nil {
		t.Fatalf("CheckOutput: %v", err)
	}
	got, err := filepath.EvalSymlinks(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("resolve output dir: %v", err)
	}
	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("resolve temp dir: %v", err)
	}
	if got != want {
		t.Fatalf("command ran in %q, want %q", got, want)
	}
}
