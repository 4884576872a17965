// Package main provides the entry point for the osintscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for osintscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "osintscan",
		Short: "Open-source intelligence aggregation and risk scoring",
		Long: `osintscan investigates a single identifier (email, username, phone
number, IP address, domain, URL, or file hash) by querying public
intelligence sources concurrently, and produces a composite risk score
with an evidence graph and a tamper-evident custody trail.

Completed investigations are archived locally and can be reviewed later
with the cases command.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewInvestigateCmd())
	cmd.AddCommand(NewCasesCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
