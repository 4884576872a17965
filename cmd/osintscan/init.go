package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/osintscan/osintscan/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/osintscan.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new osintscan configuration file",
		Long: `Initialize creates a new .osintscan configuration file in the current directory.

The generated file includes:
- Commented examples for every intelligence source
- Placeholders for API keys and endpoint overrides
- Documentation for all available options

Examples:
  # Create .osintscan in current directory
  osintscan init

  # Create config file at a specific path
  osintscan init -o myconfig.yaml

  # Force overwrite existing file
  osintscan init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := configTemplate.ReadFile("templates/osintscan.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write configuration file with owner-only permissions; it holds
	// API credentials
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Printf("Created configuration file: %s\n", outputPath)
	fmt.Println("\nEdit this file to configure intelligence sources:")
	fmt.Println("  - API keys for authenticated sources (breach, github, devices)")
	fmt.Println("  - Endpoint overrides for on-prem mirrors")
	fmt.Println("  - Per-source timeouts and custom headers")

	return nil
}
