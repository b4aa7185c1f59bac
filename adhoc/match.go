package adhoc

import (
	"regexp"
	"strings"
)

// identChars are the characters the tablename lexer accepts inside an
// identifier. \b only knows ASCII word characters.
const identChars = `\p{L}\p{N}_$`

// ContainsTable reports whether table appears as a whole word in query,
// ignoring case. Double quotes are removed first so "db"."table" matches
// db.table.
func ContainsTable(query, table string) bool {
	if table == "" {
		return false
	}
	re, err := regexp.Compile(`(?i)(?:^|[^` + identChars + `])` + regexp.QuoteMeta(table) + `(?:$|[^` + identChars + `])`)
	if err != nil {
		return false
	}
	return re.MatchString(strings.ReplaceAll(query, `"`, ""))
}
