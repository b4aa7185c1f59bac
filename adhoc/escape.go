package adhoc

import (
	"regexp"
	"strings"
)

// Attribute map namespaces of the OpenTelemetry schema keep their prefix.
var reservedKeyPrefixes = map[string]bool{
	"ResourceAttributes": true,
	"ScopeAttributes":    true,
	"LogAttributes":      true,
}

var arrayElementPattern = regexp.MustCompile(`arrayElement\((.*?),\s*['"](.*?)['"]\)`)

// EscapeKey turns a filter key into the column expression used in the
// settings clause. A nil cfg behaves like the zero Config.
func EscapeKey(cfg *Config, key string) string {
	first, _, _ := strings.Cut(key, ".")
	if reservedKeyPrefixes[first] {
		return key
	}

	// arrayElement(arr, 'k') -> arr[\'k\']
	if strings.HasPrefix(key, "arrayElement(") && strings.HasSuffix(key, ")") {
		if m := arrayElementPattern.FindStringSubmatch(key); m != nil {
			return m[1] + `[\'` + m[2] + `\']`
		}
	}

	if cfg != nil && cfg.HideTableNameInAdhocFilters {
		return key
	}

	if _, rest, ok := strings.Cut(key, "."); ok {
		return rest
	}
	return key
}

// MapOperator converts the host regex operators to ClickHouse pattern
// operators. Other operators pass through.
func MapOperator(op string) string {
	switch op {
	case "=~":
		return "ILIKE"
	case "!~":
		return "NOT ILIKE"
	default:
		return op
	}
}

// IsWildcardOperator reports whether op (already mapped) is one of the
// LIKE family.
func IsWildcardOperator(op string) bool {
	switch op {
	case "LIKE", "ILIKE", "NOT LIKE", "NOT ILIKE":
		return true
	}
	return false
}

// EscapeValue renders a filter value as a literal inside the quoted
// settings clause. IN lists get parentheses and escaped quotes; every other
// value is wrapped in escaped quotes as-is.
//
// Quotes inside non-IN values are not escaped.
func EscapeValue(value, operator string) string {
	if operator == "IN" {
		if len(value) > 2 && !strings.HasPrefix(value, "(") && !strings.HasSuffix(value, ")") {
			value = "(" + value + ")"
		}
		return strings.ReplaceAll(value, "'", `\'`)
	}
	return `\'` + value + `\'`
}
