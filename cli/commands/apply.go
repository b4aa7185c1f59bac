package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/chfilter/cli/internal/ui"
)

func newApplyCommand(a *app) *cobra.Command {
	var opts compileOptions

	cmd := &cobra.Command{
		Use:   "apply [query]",
		Short: "Append ad-hoc filters to a query",
		Long: `Append ad-hoc filters to a query as a settings additional_table_filters clause.

The query is printed unchanged when no filter is valid, when the target table
cannot be determined, or when the query does not read from the target table.`,
		Example: `  chfilter apply "SELECT * FROM otel_logs" -F "ServiceName=api" -F "Body=~timeout"
  chfilter apply -q "SELECT * FROM events" -f filters.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.merge(cmd, a)

			query, err := opts.readQuery(cmd, a, args)
			if err != nil {
				return err
			}
			filters, err := opts.loadFilters(a)
			if err != nil {
				return err
			}
			c, err := opts.newCompiler()
			if err != nil {
				return err
			}

			ui.PrintQuery(cmd.OutOrStdout(), c.Apply(query, filters))
			return nil
		},
	}

	opts.addFlags(cmd)
	return cmd
}
