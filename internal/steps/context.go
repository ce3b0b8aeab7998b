package steps

import (
	"tuneup/internal/execute"
)

// Context carries the resolved run-wide dependencies every step may need.
// It is built once and never mutated during a run.
type Context struct {
	RunType execute.RunType

	// Sudo is the resolved privilege elevation command, empty when none is
	// installed. The path is passed through unchanged to steps that need
	// elevation; the runner itself never interprets it.
	Sudo string
}

// SudoCommand builds an elevated command, or reports ErrSudoRequired when no
// elevation command is available.
func (c *Context) SudoCommand(args ...string) (*execute.Command, error) {
	if c.Sudo == "" {
		return nil, execute.ErrSudoRequired
	}
	return c.RunType.Command(c.Sudo, args...), nil
}
