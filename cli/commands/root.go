// Package commands implements the chfilter command tree.
package commands

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/chfilter/cli/internal/config"
	"github.com/satishbabariya/chfilter/cli/internal/ui"
	"github.com/satishbabariya/chfilter/cli/internal/version"
	"github.com/satishbabariya/chfilter/internal/debug"
)

// app is the state shared by all commands of one invocation
type app struct {
	cfg   *config.Config
	fs    afero.Fs
	debug bool
}

// Execute is the main entry point for the CLI
func Execute() error {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		ui.PrintError("%v", err)
		return err
	}
	return nil
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "chfilter",
		Short: "Apply dashboard ad-hoc filters to ClickHouse queries",
		Long: `chfilter turns ad-hoc filters (key, operator, value) into a ClickHouse
settings additional_table_filters clause scoped to the table a query reads from.

Configuration is read from .chfilter.yaml in the current directory, $HOME or
$HOME/.config/chfilter, from .env files and from CHFILTER_* variables.`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			a.cfg = cfg
			a.fs = config.AppFs
			ui.Stderr = cmd.ErrOrStderr()
			debug.InitWithWriter(cmd.ErrOrStderr(), a.debug || cfg.Debug)
			debug.Debug("config loaded", "table_query", cfg.TableQuery, "filters_path", cfg.FiltersPath)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newApplyCommand(a))
	rootCmd.AddCommand(newExplainCommand(a))
	rootCmd.AddCommand(newWatchCommand(a))
	rootCmd.AddCommand(newInteractiveCommand(a))
	rootCmd.AddCommand(newTableCommand(a))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
