package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tuneup/internal/runner"
)

func TestValidate_SplitsCommaLists(t *testing.T) {
	cfg := New()
	cfg.Steps.Only = []string{"git-repos, commands", "shell"}
	cfg.Steps.Disable = []string{"node,vim"}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if got := strings.Join(cfg.Steps.Only, "|"); got != "git-repos|commands|shell" {
		t.Fatalf("unexpected Only after normalization: %q", got)
	}
	if got := strings.Join(cfg.Steps.Disable, "|"); got != "node|vim" {
		t.Fatalf("unexpected Disable after normalization: %q", got)
	}
}

func TestValidate_RejectsUnknownStep(t *testing.T) {
	cfg := New()
	cfg.Steps.Only = []string{"flux-capacitor"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an unknown step name")
	}
}

func TestValidate_RejectsNegativeConcurrency(t *testing.T) {
	cfg := New()
	cfg.Git.MaxConcurrency = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for negative max_concurrency")
	}
}

func TestRunSpec_AllStepsAllowedByDefault(t *testing.T) {
	cfg := New()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	spec, err := cfg.RunSpec()
	if err != nil {
		t.Fatalf("RunSpec: %v", err)
	}
	for _, step := range runner.AllSteps() {
		if !spec.Allowed(step) {
			t.Fatalf("step %v unexpectedly disallowed", step)
		}
	}
	if spec.NoRetry {
		t.Fatal("NoRetry must default to false")
	}
	if spec.GitConcurrency != 0 {
		t.Fatalf("GitConcurrency must default to 0, got %d", spec.GitConcurrency)
	}
}

func TestRunSpec_OnlyRestrictsSteps(t *testing.T) {
	cfg := New()
	cfg.Steps.Only = []string{"git-repos"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	spec, err := cfg.RunSpec()
	if err != nil {
		t.Fatalf("RunSpec: %v", err)
	}
	if !spec.Allowed(runner.StepGitRepos) {
		t.Fatal("step named in only must be allowed")
	}
	if spec.Allowed(runner.StepShell) || spec.Allowed(runner.StepCustomCommands) {
		t.Fatal("steps outside only must be disallowed")
	}
}

func TestRunSpec_DisableRemovesSteps(t *testing.T) {
	cfg := New()
	cfg.Steps.Disable = []string{"node"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	spec, err := cfg.RunSpec()
	if err != nil {
		t.Fatalf("RunSpec: %v", err)
	}
	if spec.Allowed(runner.StepNode) {
		t.Fatal("disabled step must be disallowed")
	}
	if !spec.Allowed(runner.StepGitRepos) {
		t.Fatal("other steps must stay allowed")
	}
}

func TestRunSpec_OnlyWinsOverDisable(t *testing.T) {
	cfg := New()
	cfg.Steps.Only = []string{"git-repos"}
	cfg.Steps.Disable = []string{"git-repos"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	spec, err := cfg.RunSpec()
	if err != nil {
		t.Fatalf("RunSpec: %v", err)
	}
	if !spec.Allowed(runner.StepGitRepos) {
		t.Fatal("a step named in only must stay enabled even when also disabled")
	}
}

func TestRunSpec_GitSettings(t *testing.T) {
	cfg := New()
	cfg.Git.Arguments = "--autostash --prune"
	cfg.Git.MaxConcurrency = 4
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	spec, err := cfg.RunSpec()
	if err != nil {
		t.Fatalf("RunSpec: %v", err)
	}
	if spec.GitConcurrency != 4 {
		t.Fatalf("GitConcurrency = %d, want 4", spec.GitConcurrency)
	}
	if got := strings.Join(spec.ExtraGitArgs, "|"); got != "--autostash|--prune" {
		t.Fatalf("ExtraGitArgs = %q", got)
	}
}

func TestLoadFile_MergesUnderFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuneup.yaml")
	content := `
only:
  - git-repos
no_retry: true
git:
  repos:
    - /src/a
    - /src/b
  arguments: "--autostash"
  max_concurrency: 3
pre_commands:
  setup: "true"
commands:
  rebuild index: "mandb"
post_commands:
  cleanup: "true"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := New()
	cfg.Steps.Only = []string{"commands"}
	cfg.Git.MaxConcurrency = 8

	if err := cfg.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if got := strings.Join(cfg.Steps.Only, "|"); got != "commands|git-repos" {
		t.Fatalf("file only-list must extend the flag list, got %q", got)
	}
	if !cfg.Runtime.NoRetry {
		t.Fatal("no_retry from the file must apply")
	}
	if len(cfg.Git.Repos) != 2 {
		t.Fatalf("expected 2 repo patterns, got %v", cfg.Git.Repos)
	}
	if cfg.Git.Arguments != "--autostash" {
		t.Fatalf("git arguments not loaded: %q", cfg.Git.Arguments)
	}
	if cfg.Git.MaxConcurrency != 8 {
		t.Fatalf("flag concurrency must win over the file, got %d", cfg.Git.MaxConcurrency)
	}
	if cfg.Commands.Pre["setup"] != "true" || cfg.Commands.Run["rebuild index"] != "mandb" || cfg.Commands.Post["cleanup"] != "true" {
		t.Fatalf("commands not loaded: %+v", cfg.Commands)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	cfg := New()
	if err := cfg.LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
}

func TestValidate_ExpandsTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	cfg := New()
	cfg.Git.Repos = []string{"~/src/*", "/abs/path"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if want := filepath.Join(home, "src", "*"); cfg.Git.Repos[0] != want {
		t.Fatalf("tilde not expanded: got %q, want %q", cfg.Git.Repos[0], want)
	}
	if cfg.Git.Repos[1] != "/abs/path" {
		t.Fatalf("absolute pattern must pass through, got %q", cfg.Git.Repos[1])
	}
}
