package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/linkmark/internal/application/usecase"
)

var (
	recordTitle string
	recordAt    string
)

var recordCmd = &cobra.Command{
	Use:   "record <url>",
	Short: "Record a visit",
	Long: `Record one visit to a URL in the history database.

The URL is normalized the same way page links are, so a later highlight
matches regardless of letter case, duplicate slashes or fragments.

Examples:
  linkmark record example.com/docs
  linkmark record https://example.com --title "Example" --at 2024-05-01T10:00:00Z`,
	Args: cobra.ExactArgs(1),
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().StringVar(&recordTitle, "title", "", "page title")
	recordCmd.Flags().StringVar(&recordAt, "at", "", "visit time in RFC 3339 (default now)")
}

func runRecord(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	input := usecase.RecordVisitInput{URL: args[0], Title: recordTitle}
	if recordAt != "" {
		at, err := time.Parse(time.RFC3339, recordAt)
		if err != nil {
			return fmt.Errorf("parse --at: %w", err)
		}
		input.At = at
	}

	entry, err := app.RecordVisitUC.Execute(app.Ctx(), input)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), app.Theme.SuccessStyle.Render(
		fmt.Sprintf("✓ %s (%s)", entry.URL, app.Theme.VisitBadge(entry.VisitCount))))
	return nil
}
