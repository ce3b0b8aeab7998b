// Package runner executes maintenance steps sequentially, applying the
// interactive retry protocol on failure.
package runner

import (
	"errors"

	"tuneup/internal/interrupt"
)

// ErrSkip is returned by an action to signal "nothing to do here". It is not
// a failure: the action is neither retried nor recorded in the report.
var ErrSkip = errors.New("step skipped")

// Skip wraps ErrSkip so callers can attach context while keeping the
// sentinel recognizable via errors.Is.
func Skip(reason string) error {
	return skipError{reason: reason}
}

type skipError struct {
	reason string
}

func (e skipError) Error() string { return e.reason }
func (e skipError) Unwrap() error { return ErrSkip }

// Prompter asks the operator whether a failed step should be retried.
// interrupted distinguishes "you pressed Ctrl+C" from "the step failed".
type Prompter interface {
	ConfirmRetry(name string, interrupted bool) (bool, error)
}

// Runner executes actions one at a time, in registration order. Steps mutate
// shared system-level resources (package databases, lock files), so they are
// never run concurrently.
type Runner struct {
	allowed   func(Step) bool
	noRetry   bool
	interrupt *interrupt.Flag
	prompt    Prompter
	report    Report
}

// New returns a Runner. allowed may be nil, meaning every step runs.
func New(allowed func(Step) bool, noRetry bool, flag *interrupt.Flag, prompt Prompter) *Runner {
	return &Runner{
		allowed:   allowed,
		noRetry:   noRetry,
		interrupt: flag,
		prompt:    prompt,
	}
}

// Execute runs one action. On failure it consults the interrupt flag and the
// retry policy; the loop ends only on success, skip, or an explicit decline.
// There is no cap on retries, and every retry re-invokes the action from
// scratch.
func (r *Runner) Execute(step Step, name string, action func() error) {
	if r.allowed != nil && !r.allowed(step) {
		return
	}

	for {
		err := action()
		if err == nil {
			r.report.push(name, true)
			return
		}
		if errors.Is(err, ErrSkip) {
			return
		}

		interrupted := r.interrupt.TestAndClear()
		if !interrupted && r.noRetry {
			r.report.push(name, false)
			return
		}

		retry, perr := r.prompt.ConfirmRetry(name, interrupted)
		if perr != nil || !retry {
			r.report.push(name, false)
			return
		}
	}
}

// Report returns the outcomes recorded so far.
func (r *Runner) Report() *Report {
	return &r.report
}
