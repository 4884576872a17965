package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestNewRootCmd tests the root command structure.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	if cmd.Use != "osintscan" {
		t.Errorf("Use = %q, expected %q", cmd.Use, "osintscan")
	}

	// Verify all subcommands are registered
	expected := []string{"investigate", "cases", "init", "version"}
	for _, name := range expected {
		found := false
		for _, sub := range cmd.Commands() {
			if strings.HasPrefix(sub.Use, name) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	// Verify the global verbose flag
	if cmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("expected persistent verbose flag")
	}
}

// TestRootCmdHelp tests that help output renders without error.
func TestRootCmdHelp(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out := buf.String()
	for _, want := range []string{"osintscan", "investigate", "cases"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}
