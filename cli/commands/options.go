package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/chfilter/adhoc"
	"github.com/satishbabariya/chfilter/cli/internal/compat"
	"github.com/satishbabariya/chfilter/cli/internal/input"
	"github.com/satishbabariya/chfilter/internal/debug"
)

var errNoQuery = errors.New("no query given: pass it as an argument, with --query, --query-file or on stdin")

// compileOptions are the inputs shared by apply, explain, watch and
// interactive.
type compileOptions struct {
	query         string
	queryFile     string
	filtersPath   string
	expressions   []string
	tableQuery    string
	hideTableName bool
	serverVersion string
}

func (o *compileOptions) addFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&o.query, "query", "q", "", "Query to filter")
	flags.StringVar(&o.queryFile, "query-file", "", "Read the query from a file ('-' for stdin)")
	flags.StringVarP(&o.filtersPath, "filters", "f", "", "JSON or YAML file with ad-hoc filters")
	flags.StringArrayVarP(&o.expressions, "filter", "F", nil, "Filter expression key<op>value (repeatable)")
	flags.StringVarP(&o.tableQuery, "table-query", "t", "", "Query the target table is taken from; fails when it names no table")
	flags.BoolVar(&o.hideTableName, "hide-table-name", false, "Keep table prefixes in filter keys")
	flags.StringVar(&o.serverVersion, "server-version", "", "ClickHouse server version to check compatibility against")
}

// merge fills options not set on the command line from the configuration
func (o *compileOptions) merge(cmd *cobra.Command, a *app) {
	flags := cmd.Flags()
	if !flags.Changed("filters") {
		o.filtersPath = a.cfg.FiltersPath
	}
	if !flags.Changed("table-query") {
		o.tableQuery = a.cfg.TableQuery
	}
	if !flags.Changed("hide-table-name") {
		o.hideTableName = a.cfg.HideTableNameInAdhocFilters
	}
	if !flags.Changed("server-version") {
		o.serverVersion = a.cfg.ServerVersion
	}
}

func (o *compileOptions) readQuery(cmd *cobra.Command, a *app, args []string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case o.query != "":
		return o.query, nil
	case o.queryFile == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read query from stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	case o.queryFile != "":
		data, err := afero.ReadFile(a.fs, o.queryFile)
		if err != nil {
			return "", fmt.Errorf("failed to read query file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return "", errNoQuery
}

func (o *compileOptions) loadFilters(a *app) ([]adhoc.Filter, error) {
	var filters []adhoc.Filter
	if o.filtersPath != "" {
		fromFile, err := input.LoadFilters(a.fs, o.filtersPath)
		if err != nil {
			return nil, err
		}
		filters = append(filters, fromFile...)
	}

	fromFlags, err := input.ParseExpressions(o.expressions)
	if err != nil {
		return nil, err
	}
	return append(filters, fromFlags...), nil
}

func (o *compileOptions) filterConfig() *adhoc.Config {
	return &adhoc.Config{HideTableNameInAdhocFilters: o.hideTableName}
}

// newCompiler checks server compatibility and resolves the preset target
// table, if any.
func (o *compileOptions) newCompiler() (*adhoc.Compiler, error) {
	if err := compat.CheckServerVersion(o.serverVersion); err != nil {
		return nil, err
	}

	c := adhoc.NewCompiler(o.filterConfig(), adhoc.WithLogger(debug.Logger()))
	if o.tableQuery != "" {
		if err := c.SetTargetTable(o.tableQuery); err != nil {
			return nil, fmt.Errorf("failed to resolve target table: %w", err)
		}
		debug.Debug("target table preset", "table", c.TargetTable())
	}
	return c, nil
}
