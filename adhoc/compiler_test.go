package adhoc

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noTable(string) string { return "" }

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func strPtr(s string) *string { return &s }

func TestSetTargetTable(t *testing.T) {
	t.Run("resolves table from query", func(t *testing.T) {
		c := NewCompiler(nil)
		require.NoError(t, c.SetTargetTable("SELECT * FROM events"))
		assert.Equal(t, "events", c.TargetTable())
	})

	t.Run("fails when no table is found", func(t *testing.T) {
		c := NewCompiler(nil)
		err := c.SetTargetTable("SELECT 1")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrExtraction))

		var extractionErr *ExtractionError
		require.True(t, errors.As(err, &extractionErr))
		assert.Equal(t, "SELECT 1", extractionErr.Query)
		assert.Empty(t, c.TargetTable())
	})

	t.Run("uses custom extractor", func(t *testing.T) {
		c := NewCompiler(nil, WithTableExtractor(func(string) string { return "custom" }))
		require.NoError(t, c.SetTargetTable("anything"))
		assert.Equal(t, "custom", c.TargetTable())
	})

	t.Run("reset clears table", func(t *testing.T) {
		c := NewCompiler(nil)
		require.NoError(t, c.SetTargetTable("SELECT * FROM events"))
		c.Reset()
		assert.Empty(t, c.TargetTable())
	})
}

func TestBuildFilterString(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		c := NewCompiler(nil)
		assert.Equal(t, "", c.BuildFilterString(nil))
		assert.Equal(t, "", c.BuildFilterString([]Filter{}))
	})

	t.Run("single filter has trailing space", func(t *testing.T) {
		c := NewCompiler(nil)
		got := c.BuildFilterString([]Filter{NewFilter("col", "=", "1")})
		assert.Equal(t, ` toString(col) = toString(\'1\') `, got)
	})

	t.Run("conditions join terms", func(t *testing.T) {
		c := NewCompiler(nil)
		got := c.BuildFilterString([]Filter{
			NewFilter("a", "=", "1").WithCondition("OR"),
			NewFilter("b", "!=", "2"),
			NewFilter("c", "=", "3").WithCondition("OR"),
		})
		want := ` toString(a) = toString(\'1\') OR` +
			` toString(b) != toString(\'2\') AND` +
			` toString(c) = toString(\'3\') `
		assert.Equal(t, want, got)
	})

	t.Run("regex operator becomes ilike with wildcards", func(t *testing.T) {
		c := NewCompiler(nil)
		got := c.BuildFilterString([]Filter{NewFilter("col", "=~", "abc")})
		assert.Equal(t, ` toString(col) ILIKE toString(\'%abc%\') `, got)
	})

	t.Run("negated regex operator", func(t *testing.T) {
		c := NewCompiler(nil)
		got := c.BuildFilterString([]Filter{NewFilter("col", "!~", "abc")})
		assert.Equal(t, ` toString(col) NOT ILIKE toString(\'%abc%\') `, got)
	})

	t.Run("like operators get wildcards", func(t *testing.T) {
		c := NewCompiler(nil)
		got := c.BuildFilterString([]Filter{NewFilter("col", "NOT LIKE", "x")})
		assert.Equal(t, ` toString(col) NOT LIKE toString(\'%x%\') `, got)
	})

	t.Run("in list", func(t *testing.T) {
		c := NewCompiler(nil)
		got := c.BuildFilterString([]Filter{NewFilter("col", "IN", "1,2,3")})
		assert.Equal(t, ` toString(col) IN toString((1,2,3)) `, got)
	})

	t.Run("table prefix follows config", func(t *testing.T) {
		f := []Filter{NewFilter("events.col", "=", "1")}

		assert.Equal(t, ` toString(col) = toString(\'1\') `, NewCompiler(nil).BuildFilterString(f))

		hidden := NewCompiler(&Config{HideTableNameInAdhocFilters: true})
		assert.Equal(t, ` toString(events.col) = toString(\'1\') `, hidden.BuildFilterString(f))
	})

	t.Run("invalid filters dropped in order", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewCompiler(nil, WithLogger(bufferLogger(&buf)))

		got := c.BuildFilterString([]Filter{
			NewFilter("a", "=", "1").WithCondition("OR"),
			{Operator: strPtr("="), Value: strPtr("x")},
			{Key: "b", Value: strPtr("2")},
			{Key: "c", Operator: strPtr("=")},
			NewFilter("d", "=", ""),
		})

		assert.Equal(t, ` toString(a) = toString(\'1\') OR toString(d) = toString(\'\') `, got)
		assert.Equal(t, 3, strings.Count(buf.String(), "invalid adhoc filter will be ignored"))
	})

	t.Run("all invalid", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewCompiler(nil, WithLogger(bufferLogger(&buf)))
		assert.Equal(t, "", c.BuildFilterString([]Filter{{Key: "a"}}))
	})

	t.Run("input is not mutated", func(t *testing.T) {
		c := NewCompiler(nil)
		filters := []Filter{NewFilter("col", "LIKE", "abc")}
		c.BuildFilterString(filters)
		assert.Equal(t, "abc", *filters[0].Value)
	})
}

func TestApply(t *testing.T) {
	filters := []Filter{NewFilter("col", "=", "1")}

	t.Run("identity on empty input", func(t *testing.T) {
		c := NewCompiler(nil)
		assert.Equal(t, "", c.Apply("", filters))
		assert.Equal(t, "SELECT * FROM events", c.Apply("SELECT * FROM events", nil))
		assert.Empty(t, c.TargetTable())
	})

	t.Run("preset target table", func(t *testing.T) {
		c := NewCompiler(nil)
		require.NoError(t, c.SetTargetTable("SELECT * FROM events"))

		got := c.Apply("SELECT * FROM events", filters)
		assert.Equal(t, `SELECT * FROM events settings additional_table_filters={'events' : ' toString(col) = toString(\'1\') '}`, got)
	})

	t.Run("lazy target table", func(t *testing.T) {
		c := NewCompiler(nil)
		got := c.Apply("SELECT * FROM logs;", filters)
		assert.Equal(t, `SELECT * FROM logs settings additional_table_filters={'logs' : ' toString(col) = toString(\'1\') '}`, got)
		assert.Equal(t, "logs", c.TargetTable())
	})

	t.Run("query without target table", func(t *testing.T) {
		c := NewCompiler(nil)
		require.NoError(t, c.SetTargetTable("SELECT * FROM events"))
		assert.Equal(t, "SELECT * FROM logs;", c.Apply("SELECT * FROM logs;", filters))
	})

	t.Run("quoted identifier differing in case", func(t *testing.T) {
		c := NewCompiler(nil)
		require.NoError(t, c.SetTargetTable("SELECT * FROM events"))

		got := c.Apply(`SELECT * FROM "Events"`, filters)
		assert.True(t, strings.HasPrefix(got, `SELECT * FROM "Events" settings additional_table_filters={'events' : `))
	})

	t.Run("qualified quoted table", func(t *testing.T) {
		c := NewCompiler(nil)
		require.NoError(t, c.SetTargetTable(`SELECT * FROM "default"."events"`))
		assert.Equal(t, "default.events", c.TargetTable())

		got := c.Apply(`SELECT * FROM "default"."events";`, filters)
		assert.Equal(t, `SELECT * FROM "default"."events" settings additional_table_filters={'default.events' : ' toString(col) = toString(\'1\') '}`, got)
	})

	t.Run("preset identifiers outside ASCII word characters", func(t *testing.T) {
		for _, table := range []string{"$__table", "événements"} {
			c := NewCompiler(nil)
			require.NoError(t, c.SetTargetTable("SELECT * FROM "+table))
			assert.Equal(t, table, c.TargetTable())

			got := c.Apply("SELECT * FROM "+table, filters)
			assert.Equal(t, "SELECT * FROM "+table+` settings additional_table_filters={'`+table+`' : ' toString(col) = toString(\'1\') '}`, got)
		}
	})

	t.Run("unresolvable table degrades", func(t *testing.T) {
		c := NewCompiler(nil, WithTableExtractor(noTable))
		assert.Equal(t, "SELECT 1;", c.Apply("SELECT 1;", filters))
		assert.Empty(t, c.TargetTable())
	})

	t.Run("no valid filters keeps semicolon", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewCompiler(nil, WithLogger(bufferLogger(&buf)))
		invalid := []Filter{{Key: "col"}}
		assert.Equal(t, "SELECT * FROM events;", c.Apply("SELECT * FROM events;", invalid))
	})

	t.Run("every semicolon removed", func(t *testing.T) {
		c := NewCompiler(nil)
		got := c.Apply("SELECT * FROM events;;", filters)
		assert.False(t, strings.Contains(got, ";"))
	})

	t.Run("session reused across queries", func(t *testing.T) {
		c := NewCompiler(nil)
		first := c.Apply("SELECT * FROM events", filters)
		second := c.Apply("SELECT count() FROM events WHERE x = 1", filters)

		assert.Contains(t, first, "additional_table_filters={'events'")
		assert.Contains(t, second, "additional_table_filters={'events'")
		assert.Equal(t, "SELECT * FROM logs", c.Apply("SELECT * FROM logs", filters))

		c.Reset()
		assert.Contains(t, c.Apply("SELECT * FROM logs", filters), "additional_table_filters={'logs'")
	})
}

func TestTerms(t *testing.T) {
	var buf bytes.Buffer
	c := NewCompiler(nil, WithLogger(bufferLogger(&buf)))

	terms := c.Terms([]Filter{
		NewFilter("logs.body", "=~", "timeout").WithCondition("OR"),
		{Key: "dropped"},
		NewFilter("status", "IN", "500,503"),
	})

	require.Len(t, terms, 2)
	assert.Equal(t, Term{Key: "body", Operator: "ILIKE", Value: `\'%timeout%\'`, Condition: "OR"}, terms[0])
	assert.Equal(t, Term{Key: "status", Operator: "IN", Value: "(500,503)"}, terms[1])
	assert.Equal(t, ` toString(status) IN toString((500,503)) `, terms[1].String())
}
