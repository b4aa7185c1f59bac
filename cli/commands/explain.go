package commands

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/chfilter/adhoc"
	"github.com/satishbabariya/chfilter/cli/internal/ui"
)

func newExplainCommand(a *app) *cobra.Command {
	var opts compileOptions

	cmd := &cobra.Command{
		Use:   "explain [query]",
		Short: "Show how each filter is compiled",
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

			compiled := c.Apply(query, filters)

			// Apply already logged the dropped filters
			quiet := adhoc.NewCompiler(opts.filterConfig(), adhoc.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
			terms := quiet.Terms(filters)

			ui.PrintHeader("chfilter", "Ad-hoc filter breakdown")
			if len(terms) > 0 {
				rows := make([][]string, 0, len(terms))
				for i, t := range terms {
					rows = append(rows, []string{fmt.Sprint(i + 1), t.Key, t.Operator, t.Value, t.Condition})
				}
				if err := ui.PrintTable([]string{"#", "Key", "Operator", "Value", "Join"}, rows); err != nil {
					return err
				}
			}
			if dropped := len(filters) - len(terms); dropped > 0 {
				ui.PrintWarning("%d invalid filter(s) dropped", dropped)
			}

			if err := ui.PrintMarkdown(explainMarkdown(query, compiled, c.TargetTable(), len(terms))); err != nil {
				return err
			}

			ui.PrintQuery(cmd.OutOrStdout(), compiled)
			return nil
		},
	}

	opts.addFlags(cmd)
	return cmd
}

func explainMarkdown(query, compiled, table string, applied int) string {
	var b strings.Builder

	b.WriteString("## Target table\n\n")
	if table == "" {
		b.WriteString("_not resolved_\n\n")
	} else {
		fmt.Fprintf(&b, "`%s`\n\n", table)
	}

	b.WriteString("## Result\n\n")
	if compiled == query {
		b.WriteString("Filters were **not applied**; the query is unchanged.\n")
	} else {
		fmt.Fprintf(&b, "%d filter(s) applied through `additional_table_filters`.\n", applied)
	}
	return b.String()
}
