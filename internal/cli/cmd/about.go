package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/linkmark/internal/cli/styles"
)

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Show version and build information",
	RunE:  runAbout,
}

func init() {
	rootCmd.AddCommand(aboutCmd)
}

func runAbout(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	_, err := fmt.Fprint(cmd.OutOrStdout(), styles.RenderAbout(app.Theme, app.BuildInfo, app.ConfigMgr.ConfigFile(), app.Config.Database.Path))
	return err
}
