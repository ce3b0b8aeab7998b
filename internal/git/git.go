// Package git discovers version-controlled directories and brings them up to
// date with a bounded concurrent pull.
package git

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"tuneup/internal/execute"
)

// runFunc executes one git invocation in dir and returns its captured output.
// It is a test seam; the default implementation shells out to the resolved
// git binary.
type runFunc func(dir string, args ...string) (stdout string, stderr string, err error)

// Git wraps a git binary resolved once at startup.
type Git struct {
	path string
	run  runFunc
}

// New resolves the git binary from PATH. A missing binary is not an error:
// every lookup on the resulting Git simply reports "not a repository".
func New() *Git {
	g := &Git{}
	if path, err := exec.LookPath("git"); err == nil {
		g.path = path
	}
	g.run = g.execRun
	return g
}

// Available reports whether a git binary was found.
func (g *Git) Available() bool {
	return g.path != ""
}

func (g *Git) execRun(dir string, args ...string) (string, string, error) {
	cmd := exec.Command(g.path, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", stderr.String(), &execute.ProcessError{
				Command:  "git " + strings.Join(args, " "),
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
			}
		}
		return "", "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return stdout.String(), stderr.String(), nil
}

// RepoRoot resolves path to the top level of the working copy containing it.
// Files are substituted by their parent directory. Reports false when the
// path does not exist or is not inside a repository.
func (g *Git) RepoRoot(path string) (string, bool) {
	if !g.Available() {
		return "", false
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", false
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", false
	}
	if !info.IsDir() {
		resolved = filepath.Dir(resolved)
	}

	out, _, err := g.run(resolved, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", false
	}
	root := strings.TrimSpace(out)
	if root == "" {
		return "", false
	}
	return root, true
}

// HasRemotes reports whether the repository has at least one configured
// remote. Pulling a remote-less repository is meaningless.
func (g *Git) HasRemotes(repo string) bool {
	out, _, err := g.run(repo, "remote")
	return err == nil && strings.TrimSpace(out) != ""
}

// Revision returns the current HEAD. A lookup failure (for example an
// unborn branch) is tolerated and reported as false, not fatal.
func (g *Git) Revision(repo string) (string, bool) {
	out, _, err := g.run(repo, "rev-parse", "HEAD")
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(out), true
}

// Pull runs a fast-forward-only pull with any configured extra arguments.
func (g *Git) Pull(repo string, extraArgs []string) error {
	args := append([]string{"pull", "--ff-only"}, extraArgs...)
	_, _, err := g.run(repo, args...)
	return err
}

// SubmoduleUpdate recursively updates the repository's submodules.
func (g *Git) SubmoduleUpdate(repo string) error {
	_, _, err := g.run(repo, "submodule", "update", "--recursive")
	return err
}

// LogRange returns the one-line commit log between two revisions.
func (g *Git) LogRange(repo, before, after string) (string, error) {
	out, _, err := g.run(repo, "log", "--no-decorate", "--oneline", before+".."+after)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}
