// Package input reads ad-hoc filters from files and command-line expressions.
package input

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"

	"github.com/satishbabariya/chfilter/adhoc"
)

// LoadFilters reads a list of filters from a JSON or YAML file. The format
// is chosen by extension; anything that is not .yaml or .yml is read as
// JSON.
func LoadFilters(fs afero.Fs, path string) ([]adhoc.Filter, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read filters file: %w", err)
	}

	var filters []adhoc.Filter
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &filters); err != nil {
			return nil, fmt.Errorf("failed to parse filters file %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &filters); err != nil {
			return nil, fmt.Errorf("failed to parse filters file %s: %w", path, err)
		}
	}
	return filters, nil
}

// Word operators need surrounding whitespace and match in any case. NOT
// ILIKE and NOT LIKE come first so they are not read as ILIKE and LIKE.
var wordOperators = []string{"NOT ILIKE", "NOT LIKE", "ILIKE", "LIKE", "IN"}

var wordOperatorRe = regexp.MustCompile(`(?i)\s(NOT\s+ILIKE|NOT\s+LIKE|ILIKE|LIKE|IN)\s`)

// Two-character symbols are listed before their one-character prefixes.
var symbolOperators = []string{"!=", "=~", "!~", ">=", "<=", "=", ">", "<"}

// ParseExpression parses key<op>value, e.g. "service=api",
// "body=~timeout" or "level IN 'error','warn'".
func ParseExpression(expr string) (adhoc.Filter, error) {
	best, bestOp := -1, ""
	for _, op := range symbolOperators {
		i := strings.Index(expr, op)
		if i <= 0 {
			continue
		}
		if best == -1 || i < best {
			best, bestOp = i, op
		}
	}

	if loc := wordOperatorRe.FindStringSubmatchIndex(expr); loc != nil && loc[0] > 0 && (best == -1 || loc[0] < best) {
		key := strings.TrimSpace(expr[:loc[0]])
		value := strings.TrimSpace(expr[loc[1]:])
		return adhoc.NewFilter(key, canonicalWordOperator(expr[loc[2]:loc[3]]), value), nil
	}

	if best == -1 {
		return adhoc.Filter{}, fmt.Errorf("invalid filter expression %q: expected key<operator>value", expr)
	}

	key := strings.TrimSpace(expr[:best])
	value := strings.TrimSpace(expr[best+len(bestOp):])
	return adhoc.NewFilter(key, bestOp, value), nil
}

// canonicalWordOperator maps a matched word operator such as "not  like" to
// its upper-case single-spaced form.
func canonicalWordOperator(matched string) string {
	folded := strings.Join(strings.Fields(matched), " ")
	for _, op := range wordOperators {
		if strings.EqualFold(folded, op) {
			return op
		}
	}
	return folded
}

// ParseExpressions parses every expression, stopping at the first error
func ParseExpressions(exprs []string) ([]adhoc.Filter, error) {
	filters := make([]adhoc.Filter, 0, len(exprs))
	for _, expr := range exprs {
		f, err := ParseExpression(expr)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}
