package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/chfilter/adhoc"
	"github.com/satishbabariya/chfilter/cli/internal/prompt"
	"github.com/satishbabariya/chfilter/cli/internal/ui"
)

func newInteractiveCommand(a *app) *cobra.Command {
	var opts compileOptions

	cmd := &cobra.Command{
		Use:     "interactive [query]",
		Aliases: []string{"i"},
		Short:   "Build filters interactively and apply them",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.merge(cmd, a)

			query, err := opts.readQuery(cmd, a, args)
			if errors.Is(err, errNoQuery) {
				query, err = prompt.Query()
			}
			if err != nil {
				return err
			}

			// filters from --filters and --filter come first
			filters, err := opts.loadFilters(a)
			if err != nil {
				return err
			}
			asked, err := prompt.Filters()
			if err != nil {
				return err
			}
			filters = append(filters, asked...)

			c, err := opts.newCompiler()
			if err != nil {
				return err
			}

			compiled := c.Apply(query, filters)
			if compiled == query {
				ui.PrintWarning("filters were not applied")
			} else {
				ui.PrintSuccess("%d filter(s) applied to %s", countValid(filters), c.TargetTable())
			}
			ui.PrintQuery(cmd.OutOrStdout(), compiled)
			return nil
		},
	}

	opts.addFlags(cmd)
	return cmd
}

func countValid(filters []adhoc.Filter) int {
	n := 0
	for _, f := range filters {
		if adhoc.IsValid(f) {
			n++
		}
	}
	return n
}
