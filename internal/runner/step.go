package runner

import (
	"fmt"
	"strings"
)

// Step identifies the maintenance domain an action belongs to. Steps are used
// only as lookup keys for enable/disable filtering; the set is closed.
type Step int

const (
	StepSystem Step = iota
	StepPkg
	StepGitRepos
	StepShell
	StepNode
	StepVim
	StepCustomCommands
	StepReleaseCheck
)

var stepNames = map[Step]string{
	StepSystem:         "system",
	StepPkg:            "pkg",
	StepGitRepos:       "git-repos",
	StepShell:          "shell",
	StepNode:           "node",
	StepVim:            "vim",
	StepCustomCommands: "commands",
	StepReleaseCheck:   "release-check",
}

// AllSteps returns every known step, in declaration order.
func AllSteps() []Step {
	steps := make([]Step, 0, len(stepNames))
	for s := StepSystem; s <= StepReleaseCheck; s++ {
		steps = append(steps, s)
	}
	return steps
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// ParseStep resolves a step by its name as used in --only/--disable and the
// configuration file.
func ParseStep(name string) (Step, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for s, n := range stepNames {
		if n == want {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown step %q (known steps: %s)", name, strings.Join(StepNames(), ", "))
}

// StepNames returns the names of all known steps, in declaration order.
func StepNames() []string {
	names := make([]string, 0, len(stepNames))
	for _, s := range AllSteps() {
		names = append(names, stepNames[s])
	}
	return names
}
