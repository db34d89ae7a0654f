// Package cmd contains the CLI commands for the fmgr application.
package cmd

import (
	"github.com/spf13/cobra"
)

// verbose holds the global --verbose flag state.
var verbose bool

// jsonOutput holds the global --json flag state.
var jsonOutput bool

// configPath holds the global --config flag state.
var configPath string

// onConflict holds the global --on-conflict flag state.
var onConflict string

// assumeYes holds the global --yes flag state.
var assumeYes bool

// GetVerbose returns the current verbose flag state.
// This is used by other packages to check if debug logging is enabled.
func GetVerbose() bool {
	return verbose
}

// GetJSON reports whether results should be written as JSON.
func GetJSON() bool {
	return jsonOutput
}

// GetConfigPath returns the --config flag, empty for the default location.
func GetConfigPath() string {
	return configPath
}

// GetOnConflict returns the --on-conflict flag, empty to use the configured policy.
func GetOnConflict() string {
	return onConflict
}

// GetAssumeYes reports whether confirmation questions are answered yes.
func GetAssumeYes() bool {
	return assumeYes
}

// NewRootCmd creates a new root command instance.
// This is useful for testing to get a fresh command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmgr",
		Short: "Copy, move and delete file trees with interactive conflict resolution",
		Long: "fmgr copies, moves and deletes directory trees. Every failure stops the walk and asks\n" +
			"whether to cancel the whole operation, retry the failed step or continue with the next item.",
	}

	// Add persistent flags (available to all subcommands)
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to stderr")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/fmgr/config.yaml)")
	cmd.PersistentFlags().StringVar(&onConflict, "on-conflict", "", "Resolve failures without asking: prompt, overwrite, skip or abort")
	cmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to confirmation questions")

	return cmd
}
