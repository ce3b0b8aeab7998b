// Package interrupt holds the process-wide interrupt flag.
//
// The flag is a single atomic boolean. It is set asynchronously when the user
// presses Ctrl+C and observed cooperatively by the step runner between
// attempts; nothing in this package blocks or allocates after installation.
package interrupt

import (
	"os"
	"os/signal"
	"sync/atomic"
)

// Flag records whether the run has been interrupted.
type Flag struct {
	v atomic.Bool
}

// Set marks the flag. Safe to call concurrently with any other operation.
func (f *Flag) Set() {
	f.v.Store(true)
}

// IsSet reports whether the flag is currently set.
func (f *Flag) IsSet() bool {
	return f.v.Load()
}

// Clear resets the flag.
func (f *Flag) Clear() {
	f.v.Store(false)
}

// TestAndClear reports whether the flag was set and resets it in one step.
// A Set racing between the read and the reset is absorbed by the atomic swap;
// at worst it costs one extra retry prompt, never a missed interrupt.
func (f *Flag) TestAndClear() bool {
	return f.v.Swap(false)
}

var process Flag

// Process returns the flag shared by the whole process. The signal handler
// cannot receive arguments, so this is the one place a singleton is allowed;
// everything else takes the flag as an explicit dependency.
func Process() *Flag {
	return &process
}

// Install routes SIGINT to f. Repeated interrupts keep re-setting the flag.
func Install(f *Flag) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	go func() {
		for range ch {
			f.Set()
		}
	}()
}
