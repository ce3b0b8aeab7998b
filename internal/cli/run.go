package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tuneup/internal/config"
	"tuneup/internal/flags"
	"tuneup/internal/git"
	"tuneup/internal/interrupt"
	"tuneup/internal/runner"
	"tuneup/internal/steps"
	"tuneup/internal/terminal"
)

var cfg = config.New()

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the maintenance steps",
	Long: `Run the maintenance steps: the release check, git repository pulls, and
the custom commands from the configuration file.

Configuration:
	Tuneup reads an optional YAML file (default: <user config dir>/tuneup/tuneup.yaml):

	  only: []          # restrict the run to these steps
	  disable: []       # remove these steps from the run
	  no_retry: false
	  git:
	    repos:          # paths or glob patterns of repositories to pull
	      - ~/src/*
	    arguments: ""   # extra arguments for every git pull
	    max_concurrency: 0   # concurrent pulls; 0 = unbounded
	  pre_commands: {}  # name: shell command; failure aborts the run
	  commands: {}      # name: shell command; run as retryable steps
	  post_commands: {} # name: shell command; run after the summary

	CLI flags extend the file's lists and win over its scalars.

Retry protocol:
	Steps run sequentially. A failing step prompts "Retry? (y)es/(N)o"; with
	--no-retry the failure is recorded without a prompt. Ctrl+C never kills a
	running step: it is observed between attempts and turns the next prompt
	into a retry-or-abort decision.

Exit codes:
	0 = every recorded step succeeded
	1 = a step or post-command failed, or the run could not start`,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runMain())
	},
}

func runMain() int {
	fatal := func(err error) int {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if cfg.Runtime.EnvFile != "" {
		if err := godotenv.Load(cfg.Runtime.EnvFile); err != nil {
			return fatal(fmt.Errorf("load env file: %w", err))
		}
	}

	if cfg.Runtime.ConfigFile != "" {
		if err := cfg.LoadFile(cfg.Runtime.ConfigFile); err != nil {
			return fatal(err)
		}
	} else if path := config.DefaultPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.LoadFile(path); err != nil {
				return fatal(err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return fatal(err)
	}
	spec, err := cfg.RunSpec()
	if err != nil {
		return fatal(err)
	}

	term := terminal.New(nil, nil)
	flag := interrupt.Process()
	interrupt.Install(flag)

	g := git.New()
	repos := git.NewRepositorySet(g)
	for _, pattern := range cfg.Git.Repos {
		if err := repos.GlobInsert(pattern); err != nil {
			term.Warn("Bad git repo pattern %q: %v", pattern, err)
		}
	}

	stepCtx := &steps.Context{RunType: spec.RunType, Sudo: spec.SudoPath}

	for _, name := range sortedKeys(cfg.Commands.Pre) {
		if err := steps.CustomCommand(term, stepCtx, name, cfg.Commands.Pre[name])(); err != nil {
			return fatal(fmt.Errorf("pre-command %s: %w", name, err))
		}
	}

	r := runner.New(spec.Allowed, spec.NoRetry, flag, term)

	if !spec.RunType.IsDry() {
		r.Execute(runner.StepReleaseCheck, "Release check", steps.ReleaseCheck(term, buildVersion, cfg.Runtime.Verbose))
	}

	sync := git.NewSynchronizer(g, term, git.SyncOptions{
		Limit:     spec.GitConcurrency,
		ExtraArgs: spec.ExtraGitArgs,
		DryRun:    spec.RunType.IsDry(),
	})
	r.Execute(runner.StepGitRepos, "Git repositories", steps.GitRepos(term, sync, repos))

	for _, name := range sortedKeys(cfg.Commands.Run) {
		r.Execute(runner.StepCustomCommands, name, steps.CustomCommand(term, stepCtx, name, cfg.Commands.Run[name]))
	}

	report := r.Report()
	if len(report.Entries()) > 0 {
		term.Separator("Summary")
		for _, entry := range report.Entries() {
			term.Result(entry.Name, entry.OK)
		}
	}

	postFailed := false
	for _, name := range sortedKeys(cfg.Commands.Post) {
		if err := steps.CustomCommand(term, stepCtx, name, cfg.Commands.Post[name])(); err != nil {
			term.Warn("Post-command %s failed: %v", name, err)
			postFailed = true
		}
	}

	if report.Failed() || postFailed {
		return 1
	}
	return 0
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringSliceVar(&cfg.Steps.Only, flags.FlagOnly, nil, "Run only the named steps (repeatable; comma-separated accepted)")
	runCmd.Flags().StringSliceVar(&cfg.Steps.Disable, flags.FlagDisable, nil, "Do not run the named steps (repeatable; comma-separated accepted)")
	runCmd.Flags().BoolVar(&cfg.Runtime.DryRun, flags.FlagDryRun, false, "Print every command instead of executing it")
	runCmd.Flags().BoolVar(&cfg.Runtime.NoRetry, flags.FlagNoRetry, false, "Record failures without asking for a retry")
	runCmd.Flags().StringVar(&cfg.Runtime.ConfigFile, flags.FlagConfig, "", "Configuration file path (default: <user config dir>/tuneup/tuneup.yaml)")
	runCmd.Flags().StringVar(&cfg.Runtime.EnvFile, flags.FlagEnvFile, "", "Dotenv file applied to the environment before any step runs")
}
