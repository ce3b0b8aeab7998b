// Package execute runs external commands, with a dry-run mode that prints the
// command line instead of spawning it.
package execute

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// RunType tells whether commands are actually executed or only printed.
type RunType int

const (
	// Wet performs actual execution.
	Wet RunType = iota
	// Dry prints the command with its arguments and spawns nothing.
	Dry
)

// NewRunType returns Dry when dryRun is true, Wet otherwise.
func NewRunType(dryRun bool) RunType {
	if dryRun {
		return Dry
	}
	return Wet
}

// IsDry reports whether this is a dry run.
func (t RunType) IsDry() bool {
	return t == Dry
}

// Command builds a command under this run type.
func (t RunType) Command(program string, args ...string) *Command {
	return &Command{runType: t, program: program, args: args}
}

// Command provides a subset of exec.Cmd. Under a Dry run type every run
// method prints the command line and reports success.
type Command struct {
	runType RunType
	program string
	args    []string
	dir     string
}

// Dir sets the working directory for the command.
func (c *Command) Dir(dir string) *Command {
	c.dir = dir
	return c
}

func (c *Command) line() string {
	parts := append([]string{c.program}, c.args...)
	return strings.Join(parts, " ")
}

func (c *Command) dryRun() {
	if c.dir != "" {
		fmt.Printf("Dry running: %s in %s\n", c.line(), c.dir)
		return
	}
	fmt.Printf("Dry running: %s\n", c.line())
}

// CheckRun spawns the command with inherited stdio, waits for it, and returns
// a ProcessError if it exits non-zero.
func (c *Command) CheckRun() error {
	if c.runType.IsDry() {
		c.dryRun()
		return nil
	}

	cmd := exec.Command(c.program, c.args...)
	cmd.Dir = c.dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ProcessError{Command: c.line(), ExitCode: exitErr.ExitCode()}
		}
		return fmt.Errorf("run %s: %w", c.line(), err)
	}
	return nil
}

// CheckOutput spawns the command with captured output, waits for it, and
// returns stdout. On non-zero exit the returned ProcessError carries the
// captured stderr.
func (c *Command) CheckOutput() (string, error) {
	if c.runType.IsDry() {
		c.dryRun()
		return "", nil
	}

	cmd := exec.Command(c.program, c.args...)
	cmd.Dir = c.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &ProcessError{
				Command:  c.line(),
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
			}
		}
		return "", fmt.Errorf("run %s: %w", c.line(), err)
	}
	return stdout.String(), nil
}

// ProcessError reports a command that exited non-zero. Stderr is only
// populated when the command ran with captured output.
type ProcessError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
}

// ErrSudoRequired is returned by actions that need privilege elevation when
// no elevation command is available. It surfaces like any other step failure
// and is eligible for retry.
var ErrSudoRequired = errors.New("a privilege elevation command is required but none was found")

// LookupSudo resolves a privilege elevation command once at startup.
// Returns an empty string when none is installed.
func LookupSudo() string {
	for _, name := range []string{"sudo", "doas"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
