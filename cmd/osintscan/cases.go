package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/osintscan/osintscan/internal/config"
	"github.com/osintscan/osintscan/internal/custody"
	"github.com/osintscan/osintscan/internal/database"
	"github.com/osintscan/osintscan/internal/investigate"
	"github.com/osintscan/osintscan/internal/log"
	"github.com/osintscan/osintscan/internal/model"
	"github.com/osintscan/osintscan/internal/report"
	"github.com/spf13/cobra"
)

// NewCasesCmd creates the cases command.
// This command reviews archived investigation cases in the local database.
func NewCasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cases [identifier]",
		Short: "Review archived investigation cases",
		Long: `Cases lists and displays investigation cases archived in the local
database.

Without arguments it lists all archived cases, newest first. With an
identifier argument it lists the investigation history for that
identifier only. Use --show to display a full case by its ID; every
display is recorded in the case's custody trail.

Examples:
  # List all archived cases
  osintscan cases

  # List investigation history for one identifier
  osintscan cases alice@example.com

  # Display a full archived case by ID
  osintscan cases --show 01J9ZX3ABCD

  # Output the case as JSON
  osintscan cases --show 01J9ZX3ABCD --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCasesCmd,
	}

	cmd.Flags().StringP("show", "s", "",
		"Display the full case with the given case ID")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")

	return cmd
}

// runCasesCmd executes the cases command.
func runCasesCmd(cmd *cobra.Command, args []string) error {
	showID, err := cmd.Flags().GetString("show")
	if err != nil {
		return err
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	logger := log.NewSecureLogger(os.Stderr, getVerboseFlag(cmd))

	// Use XDG data directory for the case database. The database must
	// already exist; there is nothing to review otherwise.
	db, err := database.Open(config.XDGDataDir(), database.Options{})
	if err != nil {
		if errors.Is(err, database.ErrDatabaseNotFound) {
			return errors.New("no case database found (run 'osintscan investigate' first)")
		}
		return fmt.Errorf("failed to open case database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()

	// Display a single case by ID
	if showID != "" {
		svc := investigate.NewService(nil, db, custody.DefaultActor, logger)
		c, err := svc.Get(ctx, showID)
		if err != nil {
			if errors.Is(err, investigate.ErrCaseNotFound) {
				return fmt.Errorf("case not found: %s", showID)
			}
			return err
		}
		return writeCase(cmd, c, asJSON)
	}

	// List history for one identifier
	if len(args) == 1 {
		cases, err := db.FindByIdentifier(ctx, args[0])
		if err != nil {
			return err
		}
		if len(cases) == 0 {
			return fmt.Errorf("no cases found for identifier: %s", args[0])
		}

		summaries := make([]model.CaseSummary, 0, len(cases))
		for _, c := range cases {
			summaries = append(summaries, c.Summary())
		}
		return writeSummaries(cmd, summaries, asJSON)
	}

	// List all archived cases
	summaries, err := db.ListSummaries(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No archived cases.")
		return nil
	}
	return writeSummaries(cmd, summaries, asJSON)
}

// writeSummaries renders case summaries as a table or JSON.
func writeSummaries(cmd *cobra.Command, summaries []model.CaseSummary, asJSON bool) error {
	out := cmd.OutOrStdout()

	if asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summaries)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CASE ID\tIDENTIFIER\tTYPE\tSCORE\tLEVEL\tSTATUS\tCREATED")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			s.ID, s.Identifier, s.Type, s.Score, s.Level, s.Status,
			s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

// writeCase renders a full case as a report or JSON.
func writeCase(cmd *cobra.Command, c *model.InvestigationCase, asJSON bool) error {
	out := cmd.OutOrStdout()

	if asJSON {
		_, err := report.NewFullJSONWriter(out, getVersion(), report.WithPrettyPrint()).Write(c)
		return err
	}

	_, err := report.NewSimpleWriter(out, report.WithVerbose(true)).Write(c)
	return err
}
