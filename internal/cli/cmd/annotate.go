package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/linkmark/internal/cli"
)

var (
	annotateBase   string
	annotateOutput string
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <file.html>",
	Short: "Write a highlighted copy of an HTML page",
	Long: `Run one highlighting session over an HTML file and write the result.

Every link gets a link-highlighter-<category> class and a title such as
"Visited 3 times, last: Yesterday" or "Never visited", and the page gets
the recency stylesheet. Relative links resolve
against --base, or the file's own file:// URL.

Examples:
  linkmark annotate page.html -o page.marked.html
  linkmark annotate saved.html --base https://example.com/blog/`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func init() {
	rootCmd.AddCommand(annotateCmd)

	annotateCmd.Flags().StringVar(&annotateBase, "base", "", "base URL for relative links")
	annotateCmd.Flags().StringVarP(&annotateOutput, "output", "o", "", "output file (default stdout)")
}

func runAnnotate(cmd *cobra.Command, args []string) (err error) {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	doc, err := cli.LoadPage(args[0], annotateBase)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if annotateOutput != "" {
		f, err := os.Create(annotateOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() {
			if cErr := f.Close(); cErr != nil && err == nil {
				err = cErr
			}
		}()
		w = f
	}

	return app.Annotate(app.Ctx(), doc, w)
}
