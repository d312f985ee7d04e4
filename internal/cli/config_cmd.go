package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/braindump/internal/cli/formatter"
	"github.com/alexanderramin/braindump/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the engine tuning file",
	}
	cmd.AddCommand(newConfigInitCmd(app), newConfigShowCmd(app))
	return cmd
}

func newConfigInitCmd(app *App) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the built-in tuning to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.Env.ConfigPath
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			f := config.FileFromOptions(app.Base, app.Env.RatePerHour, app.Env.RateBurst)
			if err := config.Save(path, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the tuning currently in effect",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.Base
			if app.Store != nil {
				opts = app.Store.Options()
			}
			f := config.FileFromOptions(opts, app.Env.RatePerHour, app.Env.RateBurst)
			out, err := yaml.Marshal(f)
			if err != nil {
				return fmt.Errorf("yaml marshal: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("# "+app.Env.ConfigPath))
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
