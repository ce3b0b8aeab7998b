package flags

// Package flags defines canonical CLI flag names shared across the CLI.
// Keeping these as constants helps avoid drift between Cobra flag wiring and
// other code paths that need to reference flags.
// IMPORTANT: These are flag *names* without leading dashes.
const (
	// Steps
	FlagOnly    = "only"
	FlagDisable = "disable"

	// Runtime
	FlagDryRun  = "dry-run"
	FlagNoRetry = "no-retry"
	FlagConfig  = "config"
	FlagEnvFile = "env-file"
	FlagVerbose = "verbose"
)
