package git

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"tuneup/internal/execute"
	"tuneup/internal/terminal"
)

// PullOutcome is the result of one repository pull attempt. It is consumed
// immediately for reporting and not persisted.
type PullOutcome struct {
	Repo   string
	Before string // empty when HEAD could not be resolved
	After  string
	Failed bool
	Detail string // captured stderr of the failing command
}

// SyncOptions configures a Synchronizer.
type SyncOptions struct {
	// Limit bounds how many repositories are pulled concurrently.
	// Zero means no bound.
	Limit int64

	// ExtraArgs are appended to every pull invocation.
	ExtraArgs []string

	// DryRun prints intents and spawns nothing.
	DryRun bool
}

// Synchronizer brings every repository in a RepositorySet up to date.
// Repositories are independent, so they are pulled concurrently; one stuck
// repository never blocks the others.
type Synchronizer struct {
	git  *Git
	term *terminal.Terminal
	opts SyncOptions
}

// NewSynchronizer returns a Synchronizer over g, printing through term.
func NewSynchronizer(g *Git, term *terminal.Terminal, opts SyncOptions) *Synchronizer {
	return &Synchronizer{git: g, term: term, opts: opts}
}

// Run pulls every repository in set.
//
// Per-repository pull or submodule failures are printed but do not fail the
// call: the returned error reflects only a scheduling-level problem (context
// cancellation while fanning out). Classification lines are printed from the
// collection loop, so they never interleave mid-line; completion order across
// repositories is unordered.
func (s *Synchronizer) Run(ctx context.Context, set *RepositorySet) error {
	repos := set.List()
	if len(repos) == 0 {
		return nil
	}

	if s.opts.DryRun {
		for _, repo := range repos {
			s.term.Printf("Would pull %s", repo)
		}
		return nil
	}

	var qualified []string
	for _, repo := range repos {
		if !s.git.HasRemotes(repo) {
			s.term.Warn("%s has no remote configured, skipping", repo)
			continue
		}
		qualified = append(qualified, repo)
	}
	if len(qualified) == 0 {
		return nil
	}

	limit := s.opts.Limit
	if limit <= 0 {
		limit = int64(len(qualified))
	}
	sem := semaphore.NewWeighted(limit)

	resultsCh := make(chan PullOutcome)
	errCh := make(chan error, 1)

	go func() {
		defer close(resultsCh)
		defer close(errCh)

		trySendErr := func(err error) {
			if err == nil {
				return
			}
			select {
			case errCh <- err:
			default:
			}
		}

		var wg sync.WaitGroup
		for _, repo := range qualified {
			if err := sem.Acquire(ctx, 1); err != nil {
				trySendErr(err)
				break
			}
			wg.Add(1)
			go func(repo string) {
				defer wg.Done()
				defer sem.Release(1)
				select {
				case resultsCh <- s.pullRepo(repo):
				case <-ctx.Done():
				}
			}(repo)
		}
		wg.Wait()
	}()

	for outcome := range resultsCh {
		s.printOutcome(outcome)
	}

	var schedErr error
	for err := range errCh {
		if err != nil {
			schedErr = err
		}
	}
	return schedErr
}

func (s *Synchronizer) pullRepo(repo string) PullOutcome {
	outcome := PullOutcome{Repo: repo}
	outcome.Before, _ = s.git.Revision(repo)

	err := s.git.Pull(repo, s.opts.ExtraArgs)
	if err == nil {
		err = s.git.SubmoduleUpdate(repo)
	}
	if err != nil {
		outcome.Failed = true
		outcome.Detail = stderrOf(err)
	}

	outcome.After, _ = s.git.Revision(repo)
	return outcome
}

func (s *Synchronizer) printOutcome(outcome PullOutcome) {
	if outcome.Failed {
		s.term.Warn("Failed to pull %s", outcome.Repo)
		if detail := strings.TrimRight(outcome.Detail, "\n"); detail != "" {
			s.term.Printf("%s", detail)
		}
		return
	}

	if outcome.Before != "" && outcome.After != "" && outcome.Before != outcome.After {
		s.term.Info("%s changed:", outcome.Repo)
		if log, err := s.git.LogRange(outcome.Repo, outcome.Before, outcome.After); err == nil && log != "" {
			s.term.Printf("%s", log)
		}
		return
	}

	s.term.Printf("%s is up-to-date", outcome.Repo)
}

func stderrOf(err error) string {
	var procErr *execute.ProcessError
	if errors.As(err, &procErr) {
		return procErr.Stderr
	}
	return err.Error()
}
