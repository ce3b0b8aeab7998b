package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tuneup/internal/flags"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "tuneup",
	Short: "Run every maintenance step your machine needs in one go",
	Long: `Tuneup runs a sequence of maintenance steps against this machine: pulling
your git repositories, checking for a new tuneup release, and running the
custom commands from your configuration file.

Steps run one at a time. When a step fails you are asked whether to retry
it; Ctrl+C is observed between attempts and surfaces the same prompt.

Examples:
	# Run everything
	tuneup run

	# See what would run without executing anything
	tuneup run --dry-run

	# Only pull git repositories
	tuneup run --only git-repos

	# Print build info
	tuneup version`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, flags.FlagVerbose, false, "Enable verbose diagnostics on stderr")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
