// Package steps provides the built-in step closures registered with the
// runner.
package steps

import (
	"context"
	"strings"
	"time"

	"tuneup/internal/git"
	"tuneup/internal/release"
	"tuneup/internal/runner"
	"tuneup/internal/terminal"
)

// CustomCommand runs a user-defined shell command as a retryable step.
func CustomCommand(term *terminal.Terminal, ctx *Context, name, command string) func() error {
	return func() error {
		term.Separator(name)
		return ctx.RunType.Command("sh", "-c", command).CheckRun()
	}
}

// GitRepos pulls every discovered repository. Skips when nothing was
// discovered.
func GitRepos(term *terminal.Terminal, sync *git.Synchronizer, repos *git.RepositorySet) func() error {
	return func() error {
		if repos.Len() == 0 {
			return runner.Skip("no git repositories configured")
		}
		term.Separator("Git repositories")
		return sync.Run(context.Background(), repos)
	}
}

// ReleaseCheck prints a notice when a newer release has been published.
// Development builds skip; a failed lookup warns and skips rather than
// failing the run, since staleness of the notice is not a maintenance
// failure.
func ReleaseCheck(term *terminal.Terminal, current string, verbose bool) func() error {
	return func() error {
		current := strings.TrimPrefix(current, "v")
		if current == "" || current == "dev" {
			return runner.Skip("development build")
		}

		term.Separator("Release check")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client, err := release.NewClient(ctx, release.ResolveToken(ctx), release.WithVerbose(verbose, nil))
		if err != nil {
			term.Warn("Release check failed: %v", err)
			return runner.Skip("release lookup failed")
		}
		latest, err := client.LatestVersion(ctx)
		if err != nil {
			term.Warn("Release check failed: %v", err)
			return runner.Skip("release lookup failed")
		}

		if latest != "" && latest != current {
			term.Info("tuneup %s is available (running %s)", latest, current)
		} else {
			term.Printf("tuneup is up to date")
		}
		return nil
	}
}
