package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// runUnderRoot executes sub through a fresh root command so global flags
// start from their defaults. stdin feeds confirmation questions.
func runUnderRoot(sub *cobra.Command, stdin string, args ...string) (string, string, error) {
	root := NewRootCmd()
	root.AddCommand(sub)
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommandUse(t *testing.T) {
	cmd := NewRootCmd()
	if cmd.Use != "fmgr" {
		t.Errorf("Use = %q, want %q", cmd.Use, "fmgr")
	}
}

func TestRootCommandPersistentFlags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
		def       string
	}{
		{name: "verbose", shorthand: "v", def: "false"},
		{name: "json", def: "false"},
		{name: "config", def: ""},
		{name: "on-conflict", def: ""},
		{name: "yes", shorthand: "y", def: "false"},
	}

	cmd := NewRootCmd()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := cmd.PersistentFlags().Lookup(tt.name)
			if f == nil {
				t.Fatalf("expected --%s persistent flag to exist", tt.name)
			}
			if f.DefValue != tt.def {
				t.Errorf("--%s default = %q, want %q", tt.name, f.DefValue, tt.def)
			}
			if tt.shorthand != "" && cmd.PersistentFlags().ShorthandLookup(tt.shorthand) == nil {
				t.Errorf("expected -%s shorthand for --%s", tt.shorthand, tt.name)
			}
		})
	}
}

func TestGlobalFlagGetters(t *testing.T) {
	var seen struct {
		verbose, json, yes bool
		config, policy     string
	}
	probe := &cobra.Command{
		Use: "probe",
		RunE: func(cmd *cobra.Command, args []string) error {
			seen.verbose = GetVerbose()
			seen.json = GetJSON()
			seen.yes = GetAssumeYes()
			seen.config = GetConfigPath()
			seen.policy = GetOnConflict()
			return nil
		},
	}

	_, _, err := runUnderRoot(probe, "", "probe", "-v", "--json", "-y", "--config", "/tmp/c.yaml", "--on-conflict", "skip")
	if err != nil {
		t.Fatal(err)
	}

	if !seen.verbose || !seen.json || !seen.yes {
		t.Errorf("bool flags = %+v, want all true", seen)
	}
	if seen.config != "/tmp/c.yaml" || seen.policy != "skip" {
		t.Errorf("string flags = %q, %q", seen.config, seen.policy)
	}

	NewRootCmd()
	if GetVerbose() || GetJSON() || GetAssumeYes() || GetConfigPath() != "" || GetOnConflict() != "" {
		t.Error("a new root command should reset global flags")
	}
}
