package adhoc

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/satishbabariya/chfilter/internal/debug"
	"github.com/satishbabariya/chfilter/tablename"
)

// TableExtractor returns the table a query reads from, or "" when it cannot
// tell.
type TableExtractor func(query string) string

// Option configures a Compiler
type Option func(*Compiler)

// WithTableExtractor replaces the default tablename.Extract
func WithTableExtractor(fn TableExtractor) Option {
	return func(c *Compiler) {
		if fn != nil {
			c.extract = fn
		}
	}
}

// WithLogger sets the logger used for dropped filters
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// Term is one compiled filter: escaped key, ClickHouse operator, escaped
// value and the condition joining it to the next term ("" for the last).
type Term struct {
	Key       string
	Operator  string
	Value     string
	Condition string
}

func (t Term) String() string {
	return fmt.Sprintf(" toString(%s) %s toString(%s) %s", t.Key, t.Operator, t.Value, t.Condition)
}

// Compiler appends ad-hoc filters to queries for one query-building session.
//
// The target table is resolved once, either through SetTargetTable or from
// the first query passed to Apply, and is reused for every later call until
// Reset. A Compiler is not safe for concurrent use.
type Compiler struct {
	cfg         Config
	extract     TableExtractor
	logger      *slog.Logger
	targetTable string
}

// NewCompiler creates a compiler. A nil cfg uses the defaults.
func NewCompiler(cfg *Config, opts ...Option) *Compiler {
	c := &Compiler{
		extract: tablename.Extract,
		logger:  debug.Logger(),
	}
	if cfg != nil {
		c.cfg = *cfg
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTargetTable resolves the target table from query. It fails with an
// *ExtractionError when no table can be found.
func (c *Compiler) SetTargetTable(query string) error {
	c.targetTable = c.extract(query)
	if c.targetTable == "" {
		return &ExtractionError{Query: query}
	}
	return nil
}

// TargetTable returns the resolved target table, or "" if none yet
func (c *Compiler) TargetTable() string {
	return c.targetTable
}

// Reset forgets the target table so the compiler can serve a new session
func (c *Compiler) Reset() {
	c.targetTable = ""
}

// Terms compiles the valid filters in input order. Invalid filters are
// logged and skipped.
func (c *Compiler) Terms(filters []Filter) []Term {
	valid := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if !IsValid(f) {
			c.logger.Warn("invalid adhoc filter will be ignored",
				"key", f.Key,
				"hasOperator", f.Operator != nil,
				"hasValue", f.Value != nil,
			)
			continue
		}
		valid = append(valid, f)
	}

	terms := make([]Term, 0, len(valid))
	for i, f := range valid {
		operator := MapOperator(f.operator())

		value := f.value()
		if IsWildcardOperator(operator) {
			value = "%" + value + "%"
		}

		t := Term{
			Key:      EscapeKey(&c.cfg, f.Key),
			Operator: operator,
			Value:    EscapeValue(value, f.operator()),
		}
		if i != len(valid)-1 {
			t.Condition = f.condition()
		}
		terms = append(terms, t)
	}
	return terms
}

// BuildFilterString compiles filters into the body of the
// additional_table_filters entry. It returns "" when no filter is valid.
func (c *Compiler) BuildFilterString(filters []Filter) string {
	if len(filters) == 0 {
		return ""
	}

	var b strings.Builder
	for _, t := range c.Terms(filters) {
		b.WriteString(t.String())
	}
	return b.String()
}

// Apply appends the settings clause for filters to query. The query comes
// back unchanged when there is nothing to apply: no filters, no resolvable
// target table, a query that does not reference the target table, or no
// valid filters.
func (c *Compiler) Apply(query string, filters []Filter) string {
	if query == "" || len(filters) == 0 {
		return query
	}

	if c.targetTable != "" && !ContainsTable(query, c.targetTable) {
		return query
	}

	if c.targetTable == "" {
		c.targetTable = c.extract(query)
	}
	if c.targetTable == "" {
		c.logger.Debug("no target table for adhoc filters", "query", query)
		return query
	}

	clause := c.BuildFilterString(filters)
	if clause == "" {
		return query
	}

	// a trailing statement terminator would end the query before the clause
	query = strings.ReplaceAll(query, ";", "")
	return fmt.Sprintf("%s settings additional_table_filters={'%s' : '%s'}", query, c.targetTable, clause)
}
