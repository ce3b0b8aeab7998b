package cli

import (
	"testing"

	"tuneup/internal/flags"
)

func TestRunCommandFlagRegistration(t *testing.T) {
	for _, name := range []string{
		flags.FlagOnly,
		flags.FlagDisable,
		flags.FlagDryRun,
		flags.FlagNoRetry,
		flags.FlagConfig,
		flags.FlagEnvFile,
	} {
		if runCmd.Flags().Lookup(name) == nil {
			t.Errorf("run command is missing flag --%s", name)
		}
	}
	if rootCmd.PersistentFlags().Lookup(flags.FlagVerbose) == nil {
		t.Errorf("root command is missing persistent flag --%s", flags.FlagVerbose)
	}
}

func TestRunCommandFlagDefaults(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{flags.FlagDryRun, "false"},
		{flags.FlagNoRetry, "false"},
		{flags.FlagConfig, ""},
		{flags.FlagEnvFile, ""},
	}
	for _, tc := range cases {
		f := runCmd.Flags().Lookup(tc.name)
		if f == nil {
			t.Fatalf("flag --%s not registered", tc.name)
		}
		if f.DefValue != tc.want {
			t.Errorf("flag --%s default = %q, want %q", tc.name, f.DefValue, tc.want)
		}
	}
}

func TestVersionSubcommandRegistered(t *testing.T) {
	for _, want := range []string{"run", "version"} {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", want)
		}
	}
}
