package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/linkmark/internal/cli/styles"
	"github.com/bnema/linkmark/internal/domain/entity"
)

var (
	historyJSON    bool
	historyMax     int
	historyOffset  int
	clearOlderThan time.Duration
	clearAll       bool
)

const defaultHistoryMax = 50

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List and manage visit history",
	Long:  `List recent visits, newest first, tagged with the recency category their links get.`,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.Flags().IntVar(&historyMax, "max", defaultHistoryMax, "maximum entries to show")
	historyCmd.Flags().IntVar(&historyOffset, "offset", 0, "entries to skip")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	entries, err := app.SearchHistoryUC.GetRecent(app.Ctx(), historyMax, historyOffset)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if historyJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	_, err = fmt.Fprint(out, styles.RenderHistory(app.Theme, entries, time.Now()))
	return err
}

// statsCmd shows history statistics.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show history statistics",
	RunE:  runStats,
}

func init() {
	historyCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
}

func runStats(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	stats, err := app.SearchHistoryUC.Stats(app.Ctx())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if historyJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	_, err = fmt.Fprint(out, styles.RenderStats(app.Theme, stats))
	return err
}

// clearCmd clears history.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear history",
	Long: `Remove history entries last visited before a cutoff, or everything.

Examples:
  linkmark history clear --older-than 720h   # entries untouched for 30 days
  linkmark history clear --all`,
	RunE: runClear,
}

func init() {
	historyCmd.AddCommand(clearCmd)

	clearCmd.Flags().DurationVar(&clearOlderThan, "older-than", 0, "remove entries last visited longer ago than this")
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "remove every entry")
	clearCmd.MarkFlagsMutuallyExclusive("older-than", "all")
	clearCmd.MarkFlagsOneRequired("older-than", "all")
}

func runClear(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	out := cmd.OutOrStdout()
	if clearAll {
		if err := app.SearchHistoryUC.ClearAll(app.Ctx()); err != nil {
			return err
		}
		_, err := fmt.Fprint(out, styles.RenderCleared(app.Theme, 0, true))
		return err
	}

	if clearOlderThan <= 0 {
		return fmt.Errorf("--older-than must be positive")
	}
	n, err := app.SearchHistoryUC.ClearOlderThan(app.Ctx(), time.Now().Add(-clearOlderThan))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, styles.RenderCleared(app.Theme, n, false))
	return err
}

var findCmd = &cobra.Command{
	Use:   "find <url>",
	Short: "Show the history entry of one URL",
	Long: `Look up a URL the way page links are looked up: it is normalized first,
so "example.com/docs/" finds "https://example.com/docs".`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one history entry by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	historyCmd.AddCommand(findCmd)
	historyCmd.AddCommand(deleteCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	key, err := app.RecordVisitUC.Normalize(args[0])
	if err != nil {
		return err
	}
	entry, err := app.SearchHistoryUC.FindByURL(app.Ctx(), key)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if entry == nil {
		_, err = fmt.Fprintln(out, app.Theme.Subtle.Render(key+": never visited"))
		return err
	}
	_, err = fmt.Fprint(out, styles.RenderHistory(app.Theme, []*entity.HistoryEntry{entry}, time.Now()))
	return err
}

func runDelete(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", args[0], err)
	}
	if err := app.SearchHistoryUC.Delete(app.Ctx(), id); err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), styles.RenderCleared(app.Theme, 1, false))
	return err
}
