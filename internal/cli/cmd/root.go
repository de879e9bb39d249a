// Package cmd provides Cobra CLI commands for linkmark.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/linkmark/internal/cli"
	"github.com/bnema/linkmark/internal/domain/build"
)

// annotationLogFile marks commands that own the terminal and log to a file.
const annotationLogFile = "log-file"

var (
	app        *cli.App
	appOptions cli.AppOptions
	buildInfo  = build.Info{Version: "dev"}

	rootCmd = &cobra.Command{
		Use:   "linkmark",
		Short: "Highlight links by how recently you visited them",
		Long: `linkmark colors the links of a page by how recently their targets were
visited: today, this week, this month, older, or never.

Visits live in a local SQLite history. Record them with 'linkmark record',
then run 'linkmark annotate' over an HTML page to write a highlighted copy,
or 'linkmark open' to keep a live session with a settings panel.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion":
				return nil
			}

			opts := appOptions
			opts.LogToFile = cmd.Annotations[annotationLogFile] == "true"

			var err error
			app, err = cli.NewApp(opts)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&appOptions.ConfigDir, "config-dir", "", "configuration directory (default $XDG_CONFIG_HOME/linkmark)")
	rootCmd.PersistentFlags().StringVar(&appOptions.DatabasePath, "db", "", "history database path (default from config)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetBuildInfo sets the build information shown by --version and about.
func SetBuildInfo(info build.Info) {
	buildInfo = info
	rootCmd.Version = info.Version
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}
