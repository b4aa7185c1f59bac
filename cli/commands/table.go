package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/chfilter/tablename"
)

func newTableCommand(a *app) *cobra.Command {
	var opts compileOptions

	cmd := &cobra.Command{
		Use:   "table [query]",
		Short: "Print the table a query reads from",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := opts.readQuery(cmd, a, args)
			if err != nil {
				return err
			}

			ref, err := tablename.Parse(query)
			if err != nil {
				return fmt.Errorf("failed to get table from query: %w", err)
			}

			if db := ref.Database(); db != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "database: %s\n", db)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ref.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "Query to inspect")
	cmd.Flags().StringVar(&opts.queryFile, "query-file", "", "Read the query from a file ('-' for stdin)")
	return cmd
}
