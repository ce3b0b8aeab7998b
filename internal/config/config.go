// Package config resolves the run configuration from CLI flags and the
// optional configuration file, and compiles it into an immutable RunSpec.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"tuneup/internal/execute"
	"tuneup/internal/runner"
)

type Config struct {
	Steps    Steps
	Git      Git
	Commands Commands
	Runtime  Runtime
}

type Steps struct {
	// Only restricts the run to the named steps (see --only).
	// Empty means all steps.
	Only []string

	// Disable removes the named steps from the run (see --disable).
	// A step named in Only stays enabled even when also disabled.
	Disable []string
}

type Git struct {
	// Repos are candidate paths and glob patterns for repositories to pull.
	// Patterns may start with "~".
	Repos []string

	// Arguments are extra arguments appended to every git pull.
	Arguments string

	// MaxConcurrency bounds concurrent pulls. 0 means no bound.
	MaxConcurrency int
}

type Commands struct {
	// Pre commands run before any step; a failure aborts the whole run.
	Pre map[string]string

	// Run commands execute as retryable steps under the commands step.
	Run map[string]string

	// Post commands run after the summary and only affect the exit code.
	Post map[string]string
}

type Runtime struct {
	// DryRun prints every command instead of executing it (see --dry-run).
	DryRun bool

	// NoRetry records failures without prompting (see --no-retry).
	NoRetry bool

	// Verbose enables diagnostics on stderr (see --verbose).
	Verbose bool

	// ConfigFile overrides the configuration file location (see --config).
	ConfigFile string

	// EnvFile is a dotenv file applied to the environment before any step
	// runs (see --env-file).
	EnvFile string
}

func New() *Config {
	return &Config{}
}

// fileConfig is the YAML schema of the configuration file.
type fileConfig struct {
	Only    []string `yaml:"only"`
	Disable []string `yaml:"disable"`
	NoRetry bool     `yaml:"no_retry"`

	Git struct {
		Repos          []string `yaml:"repos"`
		Arguments      string   `yaml:"arguments"`
		MaxConcurrency int      `yaml:"max_concurrency"`
	} `yaml:"git"`

	PreCommands  map[string]string `yaml:"pre_commands"`
	Commands     map[string]string `yaml:"commands"`
	PostCommands map[string]string `yaml:"post_commands"`
}

// DefaultPath returns the conventional configuration file location, or an
// empty string when the user config directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tuneup", "tuneup.yaml")
}

// LoadFile merges the configuration file at path into c. Flag-provided
// values are kept: lists are extended, booleans are ORed, and file-only
// settings (git section, commands) are taken as is.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	c.Steps.Only = append(c.Steps.Only, file.Only...)
	c.Steps.Disable = append(c.Steps.Disable, file.Disable...)
	c.Runtime.NoRetry = c.Runtime.NoRetry || file.NoRetry

	c.Git.Repos = append(c.Git.Repos, file.Git.Repos...)
	if c.Git.Arguments == "" {
		c.Git.Arguments = file.Git.Arguments
	}
	if c.Git.MaxConcurrency == 0 {
		c.Git.MaxConcurrency = file.Git.MaxConcurrency
	}

	c.Commands.Pre = file.PreCommands
	c.Commands.Run = file.Commands
	c.Commands.Post = file.PostCommands
	return nil
}

// Validate normalizes list inputs and rejects values the run cannot use.
func (c *Config) Validate() error {
	c.Steps.Only = splitCommaList(c.Steps.Only)
	c.Steps.Disable = splitCommaList(c.Steps.Disable)

	for _, name := range append(append([]string{}, c.Steps.Only...), c.Steps.Disable...) {
		if _, err := runner.ParseStep(name); err != nil {
			return err
		}
	}

	if c.Git.MaxConcurrency < 0 {
		return fmt.Errorf("git.max_concurrency must be >= 0, got %d", c.Git.MaxConcurrency)
	}

	expanded := make([]string, 0, len(c.Git.Repos))
	for _, pattern := range c.Git.Repos {
		p, err := expandTilde(pattern)
		if err != nil {
			return fmt.Errorf("git repo pattern %q: %w", pattern, err)
		}
		expanded = append(expanded, p)
	}
	c.Git.Repos = expanded
	return nil
}

// RunSpec is the resolved, read-only execution configuration. It is built
// once, before any step runs.
type RunSpec struct {
	RunType        execute.RunType
	Allowed        func(runner.Step) bool
	NoRetry        bool
	GitConcurrency int64
	ExtraGitArgs   []string
	SudoPath       string
}

// RunSpec compiles the configuration. Call Validate first.
func (c *Config) RunSpec() (*RunSpec, error) {
	only := make(map[runner.Step]bool)
	for _, name := range c.Steps.Only {
		step, err := runner.ParseStep(name)
		if err != nil {
			return nil, err
		}
		only[step] = true
	}
	disabled := make(map[runner.Step]bool)
	for _, name := range c.Steps.Disable {
		step, err := runner.ParseStep(name)
		if err != nil {
			return nil, err
		}
		disabled[step] = true
	}

	allowed := make(map[runner.Step]bool)
	for _, step := range runner.AllSteps() {
		if len(only) > 0 && !only[step] {
			continue
		}
		if disabled[step] && !only[step] {
			continue
		}
		allowed[step] = true
	}

	return &RunSpec{
		RunType:        execute.NewRunType(c.Runtime.DryRun),
		Allowed:        func(s runner.Step) bool { return allowed[s] },
		NoRetry:        c.Runtime.NoRetry,
		GitConcurrency: int64(c.Git.MaxConcurrency),
		ExtraGitArgs:   strings.Fields(c.Git.Arguments),
		SudoPath:       execute.LookupSudo(),
	}, nil
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func expandTilde(pattern string) (string, error) {
	if pattern != "~" && !strings.HasPrefix(pattern, "~/") {
		return pattern, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if pattern == "~" {
		return home, nil
	}
	return filepath.Join(home, pattern[2:]), nil
}
