package cli

import (
	"fmt"

	"github.com/alexanderramin/trackline/internal/cli/formatter"
	"github.com/alexanderramin/trackline/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(app), newConfigShowCmd(app))
	return cmd
}

func newConfigInitCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteDefault(app.ConfigPath, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", formatter.StyleGreen.Render("✔"), app.ConfigPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Encode(app.Config)
			if err != nil {
				return err
			}
			source := app.Config.Source
			if source == "" {
				source = "built-in defaults"
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("// loaded from "+source+"; db: "+app.Config.DBPath))
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
