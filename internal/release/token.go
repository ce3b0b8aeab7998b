package release

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ResolveToken finds a GitHub access token for the release lookup.
//
// Sources (in order):
//  1. GITHUB_TOKEN environment variable
//  2. GitHub CLI authentication via `gh auth token` (if gh is installed and
//     logged in)
//
// An empty result is fine; the lookup then runs unauthenticated.
// It never prints the token.
func ResolveToken(ctx context.Context) string {
	if env := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); env != "" {
		return env
	}
	return tokenFromGitHubCLI(ctx)
}

func tokenFromGitHubCLI(ctx context.Context) string {
	if _, err := exec.LookPath("gh"); err != nil {
		return ""
	}

	// Keep this bounded so a broken gh config or credential helper
	// doesn't hang the run.
	cmdCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}

	out, err := exec.CommandContext(cmdCtx, "gh", "auth", "token", "-h", "github.com").Output()
	if err != nil {
		// gh present but not logged in, or otherwise failing: no token.
		return ""
	}
	return strings.TrimSpace(string(out))
}
