package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/chfilter/cli/internal/ui"
	"github.com/satishbabariya/chfilter/cli/internal/watch"
)

func newWatchCommand(a *app) *cobra.Command {
	var opts compileOptions

	cmd := &cobra.Command{
		Use:   "watch [query]",
		Short: "Recompile the query whenever the filters file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.merge(cmd, a)
			if opts.filtersPath == "" {
				return errors.New("watch needs a filters file (--filters or filters_path)")
			}

			query, err := opts.readQuery(cmd, a, args)
			if err != nil {
				return err
			}
			c, err := opts.newCompiler()
			if err != nil {
				return err
			}
			preset := c.TargetTable()

			recompile := func() error {
				filters, err := opts.loadFilters(a)
				if err != nil {
					ui.PrintError("%v", err)
					return nil
				}
				if preset == "" {
					c.Reset()
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "-- %s\n", time.Now().Format(time.TimeOnly))
				ui.PrintQuery(cmd.OutOrStdout(), c.Apply(query, filters))
				return nil
			}

			w, err := watch.NewWatcher(opts.filtersPath, recompile)
			if err != nil {
				return err
			}
			if err := w.Start(); err != nil {
				w.Stop()
				return err
			}

			ui.PrintSuccess("Watching %s (Ctrl+C to stop)", opts.filtersPath)

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig

			return w.Stop()
		},
	}

	opts.addFlags(cmd)
	return cmd
}
