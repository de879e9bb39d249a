package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/linkmark/internal/cli/styles"
	"github.com/bnema/linkmark/internal/infrastructure/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
	Long:  `Show the effective configuration, its file path or its JSON schema.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("app not initialized")
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), app.ConfigMgr.ConfigFile())
		return err
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		schema, err := config.Schema()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(append(schema, '\n'))
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSchemaCmd)
}

// runConfigShow renders the merged file, env and flag configuration.
func runConfigShow(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	rendered, err := config.Render(app.Config)
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), styles.RenderError(app.Theme, err))
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), styles.RenderConfig(app.Theme, app.ConfigMgr.ConfigFile(), rendered))
	return nil
}
