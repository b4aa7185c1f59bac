package tablename

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// SQLLexer tokenizes just enough ClickHouse SQL to find table references.
// Strings and comments are separate tokens so keywords inside them are
// never mistaken for a FROM clause.
var SQLLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `--[^\n]*`},
	{Name: "BlockComment", Pattern: `(?s)/\*.*?\*/`},

	{Name: "String", Pattern: `'(?:\\.|''|[^'\\])*'`},
	{Name: "QuotedIdent", Pattern: `"(?:""|[^"])*"`},
	{Name: "BacktickIdent", Pattern: "`(?:``|[^`])*`"},

	{Name: "Number", Pattern: `\d+(?:\.\d+)?(?:[eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[\p{L}_$][\p{L}\p{N}_$]*`},

	{Name: "Punct", Pattern: `[(),.;]`},
	{Name: "Operator", Pattern: "[^\\s\\p{L}\\p{N}_$(),.;'\"`]+"},

	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Other", Pattern: `.`},
})

var symbols = SQLLexer.Symbols()

// unquoteIdent strips the quotes of "ident" and `ident` tokens and folds
// doubled quote characters.
func unquoteIdent(tok lexer.Token) (lexer.Token, error) {
	if len(tok.Value) < 2 {
		return tok, nil
	}
	q := tok.Value[:1]
	tok.Value = strings.ReplaceAll(tok.Value[1:len(tok.Value)-1], q+q, q)
	return tok, nil
}
